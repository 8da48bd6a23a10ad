package cxlstate

import "fmt"

// CheckInvariants verifies invariants I1-I6; I7 is enforced
// structurally by ActiveBitmaps always recomputing its count live
// rather than trusting a cached field. Intended for use in tests and,
// optionally, as a debug-build assertion after each handler.
func (s *Switch) CheckInvariants() error {
	if len(s.Ports) > MaxPorts {
		return fmt.Errorf("cxlstate: I1: %d ports exceeds MaxPorts %d", len(s.Ports), MaxPorts)
	}
	if len(s.VCSs) > MaxVCSs {
		return fmt.Errorf("cxlstate: I1: %d VCSs exceeds MaxVCSs %d", len(s.VCSs), MaxVCSs)
	}

	for vi := range s.VCSs {
		vcs := &s.VCSs[vi]
		if int(vcs.Num) > MaxVPPBsPerVCS {
			return fmt.Errorf("cxlstate: I1: vcs %d num %d exceeds MaxVPPBsPerVCS %d", vcs.VCSID, vcs.Num, MaxVPPBsPerVCS)
		}
		for pi := 0; pi < int(vcs.Num); pi++ {
			vppb := &vcs.Vppbs[pi]
			if vppb.Status == BindBoundPort || vppb.Status == BindBoundLD {
				if int(vppb.PPID) >= len(s.Ports) {
					return fmt.Errorf("cxlstate: I2: vcs %d vppb %d ppid %d out of range", vcs.VCSID, pi, vppb.PPID)
				}
				port := &s.Ports[vppb.PPID]
				if port.State == PortDisabled {
					return fmt.Errorf("cxlstate: I2: vcs %d vppb %d bound to disabled port %d", vcs.VCSID, pi, vppb.PPID)
				}
				if vppb.Status == BindBoundLD {
					if port.LD == 0 {
						return fmt.Errorf("cxlstate: I3: vcs %d vppb %d bound-ld but port %d has ld==0", vcs.VCSID, pi, vppb.PPID)
					}
					if vppb.LDID >= uint16(port.LD) {
						return fmt.Errorf("cxlstate: I3: vcs %d vppb %d ldid %d out of range for port %d ld %d", vcs.VCSID, pi, vppb.LDID, vppb.PPID, port.LD)
					}
				}
			}
		}
	}

	for pi := range s.Ports {
		port := &s.Ports[pi]
		if port.DeviceType == DeviceTypeType3Pooled {
			if port.Mld == nil {
				return fmt.Errorf("cxlstate: I4: port %d is Type-3-Pooled but has no Mld", port.PPID)
			}
			if port.Mld.Num != port.LD {
				return fmt.Errorf("cxlstate: I4: port %d mld.num %d != port.ld %d", port.PPID, port.Mld.Num, port.LD)
			}
		}
		if port.Mld == nil {
			continue
		}
		mld := port.Mld
		var prevEnd uint32
		for i := 0; i < int(mld.Num); i++ {
			if mld.Rng1[i] > mld.Rng2[i] {
				return fmt.Errorf("cxlstate: I5: port %d ld %d rng1 %d > rng2 %d", port.PPID, i, mld.Rng1[i], mld.Rng2[i])
			}
			if mld.Rng1[i] < prevEnd {
				return fmt.Errorf("cxlstate: I5: port %d ld %d rng1 %d overlaps previous ld's range", port.PPID, i, mld.Rng1[i])
			}
			prevEnd = mld.Rng2[i] + 1
		}
		for i := 0; i < int(mld.Num); i++ {
			if mld.AllocBW[i] > 100 {
				return fmt.Errorf("cxlstate: I6: port %d ld %d alloc_bw %d > 100", port.PPID, i, mld.AllocBW[i])
			}
			if mld.BWLimit[i] > 100 {
				return fmt.Errorf("cxlstate: I6: port %d ld %d bw_limit %d > 100", port.PPID, i, mld.BWLimit[i])
			}
		}
	}

	return nil
}
