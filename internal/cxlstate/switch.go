package cxlstate

import "sync"

// BackgroundOp is the switch-wide background-operation status tuple.
// Bind/Unbind set it synchronously; nothing in this emulator ever
// leaves it running — see DESIGN.md for why the quirk is kept.
type BackgroundOp struct {
	Running        bool
	Percent        uint8
	Opcode         uint16
	ReturnCode     uint16
	ExtendedStatus uint16
}

// Switch is the singleton, mutex-guarded fabric state. Identity fields
// are set once at construction and may be read without the lock; any
// handler that also mutates state must hold Lock across its entire
// validate-act-respond window (the critical-section rule).
type Switch struct {
	mu sync.Mutex

	// Identity — read-only after construction, except ResponseLimit,
	// which Set Response Message Limit updates under the lock.
	VendorID       uint16
	DeviceID       uint16
	SubsysVendorID uint16
	SubsysDeviceID uint16
	SerialNumber   uint64
	MaxMessageSize uint8
	ResponseLimit  uint8

	// Port defaults applied when no override is configured.
	DefaultMaxLinkWidth     uint8
	DefaultSupportedSpeeds  uint8
	DefaultMaxSpeed         uint8

	// ImageDir is the optional directory holding memory-backed device
	// images; empty disables Mld memory mapping.
	ImageDir string

	NumPorts    uint16
	NumVCSs     uint16
	NumVPPBs    uint8 // configured total vPPB capacity, reported statically
	NumDecoders uint8

	BgOp BackgroundOp

	Ports   []Port
	VCSs    []VCS
	Catalog *Catalog
}

// New allocates a switch sized for numPorts ports and numVCSs VCSs.
func New(numPorts, numVCSs uint16) *Switch {
	s := &Switch{
		NumPorts: numPorts,
		NumVCSs:  numVCSs,
		Ports:    make([]Port, numPorts),
		VCSs:     make([]VCS, numVCSs),
		Catalog:  NewCatalog(),
	}
	for i := range s.Ports {
		s.Ports[i].PPID = uint16(i)
	}
	for i := range s.VCSs {
		s.VCSs[i].VCSID = uint16(i)
	}
	return s
}

// Lock acquires the switch-wide mutex. Non-reentrant: handlers must
// not call Lock again while already holding it.
func (s *Switch) Lock() { s.mu.Lock() }

// Unlock releases the switch-wide mutex.
func (s *Switch) Unlock() { s.mu.Unlock() }

// ActiveBitmaps computes the active-ports and active-VCSs bitmaps and
// the active-vPPB count live, per invariant I7 — never from a cached
// counter.
func (s *Switch) ActiveBitmaps() (activePorts, activeVCSs [32]byte, activeVppbCount uint16) {
	for i := range s.Ports {
		if s.Ports[i].State != PortDisabled {
			activePorts[i/8] |= 1 << uint(i%8)
		}
	}
	for i := range s.VCSs {
		if s.VCSs[i].State == VCSEnabled {
			activeVCSs[i/8] |= 1 << uint(i%8)
		}
		activeVppbCount += uint16(s.VCSs[i].activeVppbCount())
	}
	return activePorts, activeVCSs, activeVppbCount
}

// Port returns a pointer to the port at ppid, or nil if out of range.
func (s *Switch) Port(ppid uint16) *Port {
	if int(ppid) >= len(s.Ports) {
		return nil
	}
	return &s.Ports[ppid]
}

// VCS returns a pointer to the VCS at vcsid, or nil if out of range.
func (s *Switch) VCS(vcsid uint16) *VCS {
	if int(vcsid) >= len(s.VCSs) {
		return nil
	}
	return &s.VCSs[vcsid]
}
