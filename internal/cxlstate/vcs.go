package cxlstate

import "github.com/jrlabs-io/cxlswitchd/internal/wire"

// Vppb is a single bindable slot inside a VCS.
type Vppb struct {
	Status BindStatus
	PPID   uint16
	LDID   uint16
}

// Block returns the wire-level vPPB snapshot.
func (v *Vppb) Block(id uint16) wire.VppbBlock {
	return wire.VppbBlock{
		VppbID:     id,
		BindStatus: uint8(v.Status),
		PPID:       v.PPID,
		LDID:       v.LDID,
	}
}

// VCS is a fixed-position virtual CXL switch entry.
type VCS struct {
	VCSID uint16
	State VCSState
	USPID uint16 // upstream physical port id
	Num   uint8  // valid vPPB count
	Vppbs [MaxVPPBsPerVCS]Vppb
}

// activeVppbCount returns the number of vPPBs on this VCS whose bind
// status is anything other than unbound.
func (v *VCS) activeVppbCount() int {
	n := 0
	for i := 0; i < int(v.Num); i++ {
		if v.Vppbs[i].Status != BindUnbound {
			n++
		}
	}
	return n
}

// Block returns the wire-level VCS snapshot clipped to the vPPB
// window [start, start+limit).
func (v *VCS) Block(start, limit uint16) wire.VCSBlock {
	end := int(start) + int(limit)
	if end > int(v.Num) {
		end = int(v.Num)
	}
	begin := int(start)
	if begin > int(v.Num) {
		begin = int(v.Num)
	}
	blocks := make([]wire.VppbBlock, 0, end-begin)
	for i := begin; i < end; i++ {
		blocks = append(blocks, v.Vppbs[i].Block(uint16(i)))
	}
	return wire.VCSBlock{
		VCSID: v.VCSID,
		State: uint8(v.State),
		USPID: v.USPID,
		Num:   v.Num,
		Vppbs: blocks,
	}
}
