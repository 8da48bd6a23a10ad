package cxlstate

import "github.com/jrlabs-io/cxlswitchd/internal/wire"

// Port is a fixed-position entry in the switch's port table. A zero
// Port is a valid disabled, unconnected port.
type Port struct {
	PPID  uint16
	State PortState

	// Connected-device descriptor; meaningless while State == PortDisabled
	// and PRSNT == false.
	DeviceType          DeviceType
	CXLVersion          uint8
	CXLVersionMask      uint8
	MaxLinkWidth        uint8
	NegotiatedLinkWidth uint8
	SupportedSpeedVector uint8
	MaxSpeed            uint8
	CurrentSpeed        uint8
	LTSSM               LTSSMState
	FirstLane           uint8
	LaneReversal        bool
	PERST               bool
	PRSNT               bool
	PowerControl        uint8

	// LD is the count of additional logical devices the connected
	// device exposes (0 for a non-MLD).
	LD uint8

	// ConfigSpace is nil until a device is attached.
	ConfigSpace *ConfigSpace

	// Mld is non-nil only when DeviceType is a Type-3 Pooled device.
	Mld *Mld

	// ExternalHandle names the passthrough PCI device backing this
	// port when the switch runs against real hardware instead of a
	// catalog template; empty in pure emulation.
	ExternalHandle string
}

// Block returns the wire-level port-state snapshot used by Get
// Physical Port State responses.
func (p *Port) Block() wire.PortBlock {
	return wire.PortBlock{
		PPID:                 p.PPID,
		State:                uint8(p.State),
		DeviceType:           uint8(p.DeviceType),
		CXLVersion:           p.CXLVersion,
		CXLVersionMask:       p.CXLVersionMask,
		MaxLinkWidth:         p.MaxLinkWidth,
		NegotiatedLinkWidth:  p.NegotiatedLinkWidth,
		SupportedSpeedVector: p.SupportedSpeedVector,
		MaxSpeed:             p.MaxSpeed,
		CurrentSpeed:         p.CurrentSpeed,
		LTSSMState:           uint8(p.LTSSM),
		FirstLane:            p.FirstLane,
		LaneReversal:         p.LaneReversal,
		PERST:                p.PERST,
		PRSNT:                p.PRSNT,
		PowerControl:         p.PowerControl,
		LD:                   p.LD,
	}
}

// reset zeroes device-related scalars and releases owned resources,
// leaving the port disabled and disconnected. Called by Detach.
func (p *Port) reset() {
	ppid := p.PPID
	*p = Port{PPID: ppid}
}
