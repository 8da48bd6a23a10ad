package wire

import "fmt"

// Port.state values, mirrored on the wire.
const (
	PortDisabled  uint8 = 0
	PortUpstream  uint8 = 1
	PortDownstream uint8 = 2
	PortBinding   uint8 = 3
	PortUnbinding uint8 = 4
)

// VCS state values.
const (
	VCSDisabled uint8 = 0
	VCSEnabled  uint8 = 1
)

// vPPB bind-status values.
const (
	BindUnbound    uint8 = 0
	BindInProgress uint8 = 1
	BindBoundPort  uint8 = 2
	BindBoundLD    uint8 = 3
)

// Physical Port Control sub-opcodes.
const (
	PortCtrlAssertPERST   uint8 = 0
	PortCtrlDeassertPERST uint8 = 1
	PortCtrlResetPPB      uint8 = 2
)

// Config-space access direction.
const (
	ConfigRead  uint8 = 0
	ConfigWrite uint8 = 1
)

// ---- ISC: Information & Status ----

// IdentifyRequest carries no fields.
type IdentifyRequest struct{}

func (p *IdentifyRequest) Encode(out []byte) (int, error) { return 0, nil }
func (p *IdentifyRequest) Decode(data []byte) (int, error) { return 0, nil }

// IdentifyResponse echoes switch identity.
type IdentifyResponse struct {
	VendorID       uint16
	DeviceID       uint16
	SubsysVendorID uint16
	SubsysDeviceID uint16
	SerialNumber   uint64
	MaxMessageSize uint8 // exponent n
	ResponseLimit  uint8 // response-message limit exponent
}

func (p *IdentifyResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	for _, f := range []func() error{
		func() error { return w.writeU16(p.VendorID) },
		func() error { return w.writeU16(p.DeviceID) },
		func() error { return w.writeU16(p.SubsysVendorID) },
		func() error { return w.writeU16(p.SubsysDeviceID) },
		func() error { return w.writeU64(p.SerialNumber) },
		func() error { return w.writeU8(p.MaxMessageSize) },
		func() error { return w.writeU8(p.ResponseLimit) },
	} {
		if err := f(); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *IdentifyResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.VendorID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.DeviceID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.SubsysVendorID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.SubsysDeviceID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.SerialNumber, err = r.readU64(); err != nil {
		return 0, err
	}
	if p.MaxMessageSize, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.ResponseLimit, err = r.readU8(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// BOSRequest carries no fields.
type BOSRequest struct{}

func (p *BOSRequest) Encode(out []byte) (int, error)  { return 0, nil }
func (p *BOSRequest) Decode(data []byte) (int, error) { return 0, nil }

// BOSResponse is the background-operation status 5-tuple.
type BOSResponse struct {
	Running        bool
	Percent        uint8
	Opcode         uint16
	ReturnCode     uint16
	ExtendedStatus uint16
}

func (p *BOSResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	var running uint8
	if p.Running {
		running = 1
	}
	if err := w.writeU8(running); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.Percent); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.Opcode); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.ReturnCode); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.ExtendedStatus); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *BOSResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	running, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.Running = running != 0
	if p.Percent, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.Opcode, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.ReturnCode, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.ExtendedStatus, err = r.readU16(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// MsgLimitGetRequest carries no fields.
type MsgLimitGetRequest struct{}

func (p *MsgLimitGetRequest) Encode(out []byte) (int, error)  { return 0, nil }
func (p *MsgLimitGetRequest) Decode(data []byte) (int, error) { return 0, nil }

// MsgLimitResponse (shared by get and set) carries the response-message
// size limit exponent.
type MsgLimitResponse struct {
	Limit uint8
}

func (p *MsgLimitResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.Limit); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *MsgLimitResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	v, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.Limit = v
	return r.pos, nil
}

// MsgLimitSetRequest carries the requested limit exponent.
type MsgLimitSetRequest struct {
	Limit uint8
}

func (p *MsgLimitSetRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.Limit); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *MsgLimitSetRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	v, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.Limit = v
	return r.pos, nil
}

// ---- PSC: Physical Switch Configuration ----

// IdentifySwitchRequest carries no fields.
type IdentifySwitchRequest struct{}

func (p *IdentifySwitchRequest) Encode(out []byte) (int, error)  { return 0, nil }
func (p *IdentifySwitchRequest) Decode(data []byte) (int, error) { return 0, nil }

// BitmapBytes is the fixed-size bitmap used for active-port and
// active-VCS bitmaps, sized to cover MaxPorts bits.
const BitmapBytes = 32

// IdentifySwitchResponse carries static sizing plus the three
// dynamically-computed active-port/VCS/vPPB fields.
type IdentifySwitchResponse struct {
	NumPorts        uint8
	NumVCSs         uint8
	NumVPPBs        uint8
	NumDecoders     uint8
	ActivePorts     [BitmapBytes]byte
	ActiveVCSs      [BitmapBytes]byte
	ActiveVPPBCount uint16
}

func (p *IdentifySwitchResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	for _, v := range []uint8{p.NumPorts, p.NumVCSs, p.NumVPPBs, p.NumDecoders} {
		if err := w.writeU8(v); err != nil {
			return 0, err
		}
	}
	if err := w.writeBytes(p.ActivePorts[:]); err != nil {
		return 0, err
	}
	if err := w.writeBytes(p.ActiveVCSs[:]); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.ActiveVPPBCount); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *IdentifySwitchResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.NumPorts, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.NumVCSs, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.NumVPPBs, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.NumDecoders, err = r.readU8(); err != nil {
		return 0, err
	}
	ports, err := r.readBytes(BitmapBytes)
	if err != nil {
		return 0, err
	}
	copy(p.ActivePorts[:], ports)
	vcss, err := r.readBytes(BitmapBytes)
	if err != nil {
		return 0, err
	}
	copy(p.ActiveVCSs[:], vcss)
	if p.ActiveVPPBCount, err = r.readU16(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// GetPortStateRequest carries the PPIDs to query.
type GetPortStateRequest struct {
	PPIDs []uint16
}

func (p *GetPortStateRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(uint8(len(p.PPIDs))); err != nil {
		return 0, err
	}
	for _, id := range p.PPIDs {
		if err := w.writeU16(id); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *GetPortStateRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	n, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.PPIDs = make([]uint16, 0, n)
	for i := 0; i < int(n); i++ {
		id, err := r.readU16()
		if err != nil {
			return 0, err
		}
		p.PPIDs = append(p.PPIDs, id)
	}
	return r.pos, nil
}

// PortBlock is the per-port state block copied into Get Physical Port
// State responses.
type PortBlock struct {
	PPID                 uint16
	State                uint8
	DeviceType           uint8
	CXLVersion           uint8
	CXLVersionMask       uint8
	MaxLinkWidth         uint8
	NegotiatedLinkWidth  uint8
	SupportedSpeedVector uint8
	MaxSpeed             uint8
	CurrentSpeed         uint8
	LTSSMState           uint8
	FirstLane            uint8
	LaneReversal         bool
	PERST                bool
	PRSNT                bool
	PowerControl         uint8
	LD                   uint8
}

func (b *PortBlock) encode(w *cursor) error {
	if err := w.writeU16(b.PPID); err != nil {
		return err
	}
	boolU8 := func(v bool) uint8 {
		if v {
			return 1
		}
		return 0
	}
	vals := []uint8{
		b.State, b.DeviceType, b.CXLVersion, b.CXLVersionMask,
		b.MaxLinkWidth, b.NegotiatedLinkWidth, b.SupportedSpeedVector,
		b.MaxSpeed, b.CurrentSpeed, b.LTSSMState, b.FirstLane,
		boolU8(b.LaneReversal), boolU8(b.PERST), boolU8(b.PRSNT),
		b.PowerControl, b.LD,
	}
	for _, v := range vals {
		if err := w.writeU8(v); err != nil {
			return err
		}
	}
	return nil
}

func (b *PortBlock) decode(r *cursor) error {
	var err error
	if b.PPID, err = r.readU16(); err != nil {
		return err
	}
	fields := []*uint8{
		&b.State, &b.DeviceType, &b.CXLVersion, &b.CXLVersionMask,
		&b.MaxLinkWidth, &b.NegotiatedLinkWidth, &b.SupportedSpeedVector,
		&b.MaxSpeed, &b.CurrentSpeed, &b.LTSSMState, &b.FirstLane,
	}
	for _, f := range fields {
		if *f, err = r.readU8(); err != nil {
			return err
		}
	}
	var lr, perst, prsnt uint8
	if lr, err = r.readU8(); err != nil {
		return err
	}
	b.LaneReversal = lr != 0
	if perst, err = r.readU8(); err != nil {
		return err
	}
	b.PERST = perst != 0
	if prsnt, err = r.readU8(); err != nil {
		return err
	}
	b.PRSNT = prsnt != 0
	if b.PowerControl, err = r.readU8(); err != nil {
		return err
	}
	if b.LD, err = r.readU8(); err != nil {
		return err
	}
	return nil
}

// GetPortStateResponse carries the port blocks actually written; the
// encoded count byte is len(Ports), not the count requested.
type GetPortStateResponse struct {
	Ports []PortBlock
}

func (p *GetPortStateResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(uint8(len(p.Ports))); err != nil {
		return 0, err
	}
	for i := range p.Ports {
		if err := p.Ports[i].encode(w); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *GetPortStateResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	n, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.Ports = make([]PortBlock, n)
	for i := 0; i < int(n); i++ {
		if err := p.Ports[i].decode(r); err != nil {
			return 0, err
		}
	}
	return r.pos, nil
}

// PortControlRequest carries the port to control and the sub-opcode.
type PortControlRequest struct {
	PPID   uint16
	Opcode uint8
}

func (p *PortControlRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(p.PPID); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.Opcode); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *PortControlRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.PPID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.Opcode, err = r.readU8(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// PortControlResponse carries no fields.
type PortControlResponse struct{}

func (p *PortControlResponse) Encode(out []byte) (int, error)  { return 0, nil }
func (p *PortControlResponse) Decode(data []byte) (int, error) { return 0, nil }

// ConfigAccessRequest is shared by PSC CXL.io Config and LD CXL.io
// Config: addressed by (ppid[, ldid], ext, reg, fdbe). LDID is only
// meaningful for the MPC variant; PSC leaves it zero.
type ConfigAccessRequest struct {
	PPID uint16
	LDID uint16
	Ext  uint8
	Reg  uint16
	FDBE uint8
	Dir  uint8 // ConfigRead | ConfigWrite
	Data uint32
}

func (p *ConfigAccessRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	for _, f := range []func() error{
		func() error { return w.writeU16(p.PPID) },
		func() error { return w.writeU16(p.LDID) },
		func() error { return w.writeU8(p.Ext) },
		func() error { return w.writeU16(p.Reg) },
		func() error { return w.writeU8(p.FDBE) },
		func() error { return w.writeU8(p.Dir) },
		func() error { return w.writeU32(p.Data) },
	} {
		if err := f(); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *ConfigAccessRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.PPID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.LDID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.Ext, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.Reg, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.FDBE, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.Dir, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.Data, err = r.readU32(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// ConfigAccessResponse carries the (possibly byte-enable-masked) value.
type ConfigAccessResponse struct {
	Data uint32
}

func (p *ConfigAccessResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU32(p.Data); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *ConfigAccessResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	v, err := r.readU32()
	if err != nil {
		return 0, err
	}
	p.Data = v
	return r.pos, nil
}

// ---- VSC: Virtual Switch Configuration ----

// VCSInfoRequest carries the VCS ids to query and the vPPB window.
type VCSInfoRequest struct {
	VCSIDs       []uint16
	VppbidStart  uint16
	VppbidLimit  uint16
}

func (p *VCSInfoRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(uint8(len(p.VCSIDs))); err != nil {
		return 0, err
	}
	for _, id := range p.VCSIDs {
		if err := w.writeU16(id); err != nil {
			return 0, err
		}
	}
	if err := w.writeU16(p.VppbidStart); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.VppbidLimit); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *VCSInfoRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	n, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.VCSIDs = make([]uint16, 0, n)
	for i := 0; i < int(n); i++ {
		id, err := r.readU16()
		if err != nil {
			return 0, err
		}
		p.VCSIDs = append(p.VCSIDs, id)
	}
	if p.VppbidStart, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.VppbidLimit, err = r.readU16(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// VppbBlock is a single vPPB slot's state.
type VppbBlock struct {
	VppbID     uint16
	BindStatus uint8
	PPID       uint16
	LDID       uint16
}

func (b *VppbBlock) encode(w *cursor) error {
	if err := w.writeU16(b.VppbID); err != nil {
		return err
	}
	if err := w.writeU8(b.BindStatus); err != nil {
		return err
	}
	if err := w.writeU16(b.PPID); err != nil {
		return err
	}
	return w.writeU16(b.LDID)
}

func (b *VppbBlock) decode(r *cursor) error {
	var err error
	if b.VppbID, err = r.readU16(); err != nil {
		return err
	}
	if b.BindStatus, err = r.readU8(); err != nil {
		return err
	}
	if b.PPID, err = r.readU16(); err != nil {
		return err
	}
	if b.LDID, err = r.readU16(); err != nil {
		return err
	}
	return nil
}

// VCSBlock is a single VCS's scalars plus its clipped vPPB slice.
type VCSBlock struct {
	VCSID uint16
	State uint8
	USPID uint16
	Num   uint8 // valid vPPB count on the VCS
	Vppbs []VppbBlock
}

func (b *VCSBlock) encode(w *cursor) error {
	if err := w.writeU16(b.VCSID); err != nil {
		return err
	}
	if err := w.writeU8(b.State); err != nil {
		return err
	}
	if err := w.writeU16(b.USPID); err != nil {
		return err
	}
	if err := w.writeU8(b.Num); err != nil {
		return err
	}
	if err := w.writeU8(uint8(len(b.Vppbs))); err != nil {
		return err
	}
	for i := range b.Vppbs {
		if err := b.Vppbs[i].encode(w); err != nil {
			return err
		}
	}
	return nil
}

func (b *VCSBlock) decode(r *cursor) error {
	var err error
	if b.VCSID, err = r.readU16(); err != nil {
		return err
	}
	if b.State, err = r.readU8(); err != nil {
		return err
	}
	if b.USPID, err = r.readU16(); err != nil {
		return err
	}
	if b.Num, err = r.readU8(); err != nil {
		return err
	}
	n, err := r.readU8()
	if err != nil {
		return err
	}
	b.Vppbs = make([]VppbBlock, n)
	for i := 0; i < int(n); i++ {
		if err := b.Vppbs[i].decode(r); err != nil {
			return err
		}
	}
	return nil
}

// VCSInfoResponse carries the matched VCS blocks.
type VCSInfoResponse struct {
	VCSs []VCSBlock
}

func (p *VCSInfoResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(uint8(len(p.VCSs))); err != nil {
		return 0, err
	}
	for i := range p.VCSs {
		if err := p.VCSs[i].encode(w); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *VCSInfoResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	n, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.VCSs = make([]VCSBlock, n)
	for i := 0; i < int(n); i++ {
		if err := p.VCSs[i].decode(r); err != nil {
			return 0, err
		}
	}
	return r.pos, nil
}

// BindRequest carries the (vcsid, vppbid, ppid, ldid) bind tuple.
type BindRequest struct {
	VCSID  uint16
	VppbID uint16
	PPID   uint16
	LDID   uint16 // LDIDNone means "bind port, not LD"
}

func (p *BindRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	for _, v := range []uint16{p.VCSID, p.VppbID, p.PPID, p.LDID} {
		if err := w.writeU16(v); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *BindRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.VCSID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.VppbID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.PPID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.LDID, err = r.readU16(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// BindResponse carries no fields.
type BindResponse struct{}

func (p *BindResponse) Encode(out []byte) (int, error)  { return 0, nil }
func (p *BindResponse) Decode(data []byte) (int, error) { return 0, nil }

// UnbindRequest carries the vPPB to unbind.
type UnbindRequest struct {
	VCSID  uint16
	VppbID uint16
}

func (p *UnbindRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(p.VCSID); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.VppbID); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *UnbindRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.VCSID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.VppbID, err = r.readU16(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// UnbindResponse carries no fields.
type UnbindResponse struct{}

func (p *UnbindResponse) Encode(out []byte) (int, error)  { return 0, nil }
func (p *UnbindResponse) Decode(data []byte) (int, error) { return 0, nil }

// AERRequest carries the simulated error to log against a vPPB.
type AERRequest struct {
	VCSID     uint16
	VppbID    uint16
	ErrorType uint16
}

func (p *AERRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	for _, v := range []uint16{p.VCSID, p.VppbID, p.ErrorType} {
		if err := w.writeU16(v); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *AERRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.VCSID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.VppbID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.ErrorType, err = r.readU16(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// AERResponse carries no fields.
type AERResponse struct{}

func (p *AERResponse) Encode(out []byte) (int, error)  { return 0, nil }
func (p *AERResponse) Decode(data []byte) (int, error) { return 0, nil }

// ---- MPC: MLD Port Commands ----

// MemoryAccessRequest is the LD CXL.io Memory request.
type MemoryAccessRequest struct {
	PPID   uint16
	LDID   uint16
	Offset uint32
	Len    uint16
	Dir    uint8 // ConfigRead | ConfigWrite
	Data   []byte
}

func (p *MemoryAccessRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(p.PPID); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.LDID); err != nil {
		return 0, err
	}
	if err := w.writeU32(p.Offset); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.Len); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.Dir); err != nil {
		return 0, err
	}
	if p.Dir == ConfigWrite {
		if err := w.writeBytes(p.Data); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *MemoryAccessRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.PPID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.LDID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.Offset, err = r.readU32(); err != nil {
		return 0, err
	}
	if p.Len, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.Dir, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.Dir == ConfigWrite {
		data, err := r.readBytes(int(p.Len))
		if err != nil {
			return 0, err
		}
		p.Data = data
	}
	return r.pos, nil
}

// MemoryAccessResponse carries the bytes read (or echoed on write).
type MemoryAccessResponse struct {
	Data []byte
}

func (p *MemoryAccessResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(uint16(len(p.Data))); err != nil {
		return 0, err
	}
	if err := w.writeBytes(p.Data); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *MemoryAccessResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	n, err := r.readU16()
	if err != nil {
		return 0, err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return 0, err
	}
	p.Data = b
	return r.pos, nil
}

// TunnelRequest wraps an inner FM API message addressed to a port's MLD.
type TunnelRequest struct {
	PPID         uint16
	MCTPType     uint8
	InnerMessage []byte // FMHeader || payload of the inner MCC command
}

func (p *TunnelRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(p.PPID); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.MCTPType); err != nil {
		return 0, err
	}
	if err := w.writeU16(uint16(len(p.InnerMessage))); err != nil {
		return 0, err
	}
	if err := w.writeBytes(p.InnerMessage); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *TunnelRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.PPID, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.MCTPType, err = r.readU8(); err != nil {
		return 0, err
	}
	n, err := r.readU16()
	if err != nil {
		return 0, err
	}
	msg, err := r.readBytes(int(n))
	if err != nil {
		return 0, err
	}
	p.InnerMessage = msg
	return r.pos, nil
}

// TunnelResponse carries the inner response message verbatim — the
// outer envelope always returns success even if the inner message
// carries a failure return code.
type TunnelResponse struct {
	InnerMessage []byte
}

func (p *TunnelResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(uint16(len(p.InnerMessage))); err != nil {
		return 0, err
	}
	if err := w.writeBytes(p.InnerMessage); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *TunnelResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	n, err := r.readU16()
	if err != nil {
		return 0, err
	}
	msg, err := r.readBytes(int(n))
	if err != nil {
		return 0, err
	}
	p.InnerMessage = msg
	return r.pos, nil
}

// ---- MCC: MLD Component Commands (tunnel-only) ----

// MCCInfoRequest carries no fields.
type MCCInfoRequest struct{}

func (p *MCCInfoRequest) Encode(out []byte) (int, error)  { return 0, nil }
func (p *MCCInfoRequest) Decode(data []byte) (int, error) { return 0, nil }

// MCCInfoResponse echoes Mld scalars.
type MCCInfoResponse struct {
	MemorySize uint64
	Num        uint8
	EPC        bool
	TTR        bool
}

func (p *MCCInfoResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU64(p.MemorySize); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.Num); err != nil {
		return 0, err
	}
	boolU8 := func(v bool) uint8 {
		if v {
			return 1
		}
		return 0
	}
	if err := w.writeU8(boolU8(p.EPC)); err != nil {
		return 0, err
	}
	if err := w.writeU8(boolU8(p.TTR)); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *MCCInfoResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.MemorySize, err = r.readU64(); err != nil {
		return 0, err
	}
	if p.Num, err = r.readU8(); err != nil {
		return 0, err
	}
	epc, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.EPC = epc != 0
	ttr, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.TTR = ttr != 0
	return r.pos, nil
}

// LDWindowRequest selects a window of LDs; used for Get LD Allocations,
// QoS allocated-bandwidth and QoS bandwidth-limit gets.
type LDWindowRequest struct {
	Start uint8
	Num   uint8
}

func (p *LDWindowRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.Start); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.Num); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *LDWindowRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.Start, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.Num, err = r.readU8(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// LDAllocationsResponse carries the rng1/rng2 window — also used to
// decode the corresponding Set request, which carries the same shape
// plus the window selector.
type LDAllocationsResponse struct {
	Start uint8
	Rng1  []uint32
	Rng2  []uint32
}

func (p *LDAllocationsResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.Start); err != nil {
		return 0, err
	}
	if err := w.writeU8(uint8(len(p.Rng1))); err != nil {
		return 0, err
	}
	for i := range p.Rng1 {
		if err := w.writeU32(p.Rng1[i]); err != nil {
			return 0, err
		}
		if err := w.writeU32(p.Rng2[i]); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *LDAllocationsResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.Start, err = r.readU8(); err != nil {
		return 0, err
	}
	n, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.Rng1 = make([]uint32, n)
	p.Rng2 = make([]uint32, n)
	for i := 0; i < int(n); i++ {
		if p.Rng1[i], err = r.readU32(); err != nil {
			return 0, err
		}
		if p.Rng2[i], err = r.readU32(); err != nil {
			return 0, err
		}
	}
	return r.pos, nil
}

// SetLDAllocationsRequest carries the target window and new values.
type SetLDAllocationsRequest struct {
	Start uint8
	Rng1  []uint32
	Rng2  []uint32
}

func (p *SetLDAllocationsRequest) Encode(out []byte) (int, error) {
	resp := LDAllocationsResponse{Start: p.Start, Rng1: p.Rng1, Rng2: p.Rng2}
	return resp.Encode(out)
}

func (p *SetLDAllocationsRequest) Decode(data []byte) (int, error) {
	var resp LDAllocationsResponse
	n, err := resp.Decode(data)
	if err != nil {
		return 0, err
	}
	p.Start, p.Rng1, p.Rng2 = resp.Start, resp.Rng1, resp.Rng2
	return n, nil
}

// QoSControl is the QoS-control scalar block, shared by the Get QoS
// Control response and the Set QoS Control request and response; the
// Get request carries no fields.
type QoSControl struct {
	EgressModeratePercent uint8
	EgressSeverePercent   uint8
	SampleInterval        uint8
	ReqCmpBasis           uint16
	CompletionInterval    uint8
}

func (p *QoSControl) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.EgressModeratePercent); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.EgressSeverePercent); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.SampleInterval); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.ReqCmpBasis); err != nil {
		return 0, err
	}
	if err := w.writeU8(p.CompletionInterval); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *QoSControl) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.EgressModeratePercent, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.EgressSeverePercent, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.SampleInterval, err = r.readU8(); err != nil {
		return 0, err
	}
	if p.ReqCmpBasis, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.CompletionInterval, err = r.readU8(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// QoSStatusResponse carries the backpressure-average percent.
type QoSStatusResponse struct {
	BPAvgPercent uint8
}

func (p *QoSStatusResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.BPAvgPercent); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *QoSStatusResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	v, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.BPAvgPercent = v
	return r.pos, nil
}

// QoSVectorResponse carries a per-LD percent vector — used for both
// allocated-bandwidth and bandwidth-limit get responses (and, via
// QoSVectorSetRequest, the corresponding set requests).
type QoSVectorResponse struct {
	Start  uint8
	Values []uint8
}

func (p *QoSVectorResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.Start); err != nil {
		return 0, err
	}
	if err := w.writeU8(uint8(len(p.Values))); err != nil {
		return 0, err
	}
	if err := w.writeBytes(p.Values); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *QoSVectorResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.Start, err = r.readU8(); err != nil {
		return 0, err
	}
	n, err := r.readU8()
	if err != nil {
		return 0, err
	}
	v, err := r.readBytes(int(n))
	if err != nil {
		return 0, err
	}
	p.Values = v
	return r.pos, nil
}

// QoSVectorSetRequest carries the target window and new per-LD values.
type QoSVectorSetRequest struct {
	Start  uint8
	Values []uint8
}

func (p *QoSVectorSetRequest) Encode(out []byte) (int, error) {
	resp := QoSVectorResponse{Start: p.Start, Values: p.Values}
	return resp.Encode(out)
}

func (p *QoSVectorSetRequest) Decode(data []byte) (int, error) {
	var resp QoSVectorResponse
	n, err := resp.Decode(data)
	if err != nil {
		return 0, err
	}
	p.Start, p.Values = resp.Start, resp.Values
	return n, nil
}

// RawPayload is the fallback variant for unknown opcodes — consumed
// only by the tunnel handler and the "unsupported" responder.
type RawPayload struct {
	Bytes []byte
}

func (p *RawPayload) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeBytes(p.Bytes); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *RawPayload) Decode(data []byte) (int, error) {
	p.Bytes = append([]byte(nil), data...)
	return len(data), nil
}

// DecodeFMPayload decodes the request or response payload variant for
// opcode from data, returning the concrete pointer value. Unknown
// opcodes decode to *RawPayload.
func DecodeFMPayload(opcode uint16, side Side, data []byte) (any, error) {
	v := newFMPayload(opcode, side)
	if _, err := decodeInto(v, data); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeFMPayload encodes v (as returned by DecodeFMPayload or
// constructed directly by a handler) into out.
func EncodeFMPayload(v any, out []byte) (int, error) {
	enc, ok := v.(interface{ Encode([]byte) (int, error) })
	if !ok {
		return 0, fmt.Errorf("wire: %T does not implement Encode", v)
	}
	return enc.Encode(out)
}

func decodeInto(v any, data []byte) (int, error) {
	dec, ok := v.(interface{ Decode([]byte) (int, error) })
	if !ok {
		return 0, fmt.Errorf("wire: %T does not implement Decode", v)
	}
	return dec.Decode(data)
}

// newFMPayload returns a zero-valued pointer of the variant type for
// opcode/side, or *RawPayload for an opcode with no known mapping.
func newFMPayload(opcode uint16, side Side) any {
	req := side == SideRequest
	switch opcode {
	case OpISCIdentify:
		if req {
			return &IdentifyRequest{}
		}
		return &IdentifyResponse{}
	case OpISCBOS:
		if req {
			return &BOSRequest{}
		}
		return &BOSResponse{}
	case OpISCMsgLimitGet:
		if req {
			return &MsgLimitGetRequest{}
		}
		return &MsgLimitResponse{}
	case OpISCMsgLimitSet:
		if req {
			return &MsgLimitSetRequest{}
		}
		return &MsgLimitResponse{}
	case OpPSCIdentifySwitch:
		if req {
			return &IdentifySwitchRequest{}
		}
		return &IdentifySwitchResponse{}
	case OpPSCGetPortState:
		if req {
			return &GetPortStateRequest{}
		}
		return &GetPortStateResponse{}
	case OpPSCPortControl:
		if req {
			return &PortControlRequest{}
		}
		return &PortControlResponse{}
	case OpPSCConfig:
		if req {
			return &ConfigAccessRequest{}
		}
		return &ConfigAccessResponse{}
	case OpVSCInfo:
		if req {
			return &VCSInfoRequest{}
		}
		return &VCSInfoResponse{}
	case OpVSCBind:
		if req {
			return &BindRequest{}
		}
		return &BindResponse{}
	case OpVSCUnbind:
		if req {
			return &UnbindRequest{}
		}
		return &UnbindResponse{}
	case OpVSCAER:
		if req {
			return &AERRequest{}
		}
		return &AERResponse{}
	case OpMPCConfig:
		if req {
			return &ConfigAccessRequest{}
		}
		return &ConfigAccessResponse{}
	case OpMPCMemory:
		if req {
			return &MemoryAccessRequest{}
		}
		return &MemoryAccessResponse{}
	case OpMPCTunnel:
		if req {
			return &TunnelRequest{}
		}
		return &TunnelResponse{}
	case OpMCCInfo:
		if req {
			return &MCCInfoRequest{}
		}
		return &MCCInfoResponse{}
	case OpMCCGetLDAllocations:
		if req {
			return &LDWindowRequest{}
		}
		return &LDAllocationsResponse{}
	case OpMCCSetLDAllocations:
		if req {
			return &SetLDAllocationsRequest{}
		}
		return &LDAllocationsResponse{}
	case OpMCCGetQoSControl:
		if req {
			return &MCCInfoRequest{}
		}
		return &QoSControl{}
	case OpMCCSetQoSControl:
		if req {
			return &QoSControl{}
		}
		return &QoSControl{}
	case OpMCCGetQoSStatus:
		if req {
			return &MCCInfoRequest{}
		}
		return &QoSStatusResponse{}
	case OpMCCGetQoSAllocatedBW:
		if req {
			return &LDWindowRequest{}
		}
		return &QoSVectorResponse{}
	case OpMCCSetQoSAllocatedBW:
		if req {
			return &QoSVectorSetRequest{}
		}
		return &QoSVectorResponse{}
	case OpMCCGetQoSBWLimit:
		if req {
			return &LDWindowRequest{}
		}
		return &QoSVectorResponse{}
	case OpMCCSetQoSBWLimit:
		if req {
			return &QoSVectorSetRequest{}
		}
		return &QoSVectorResponse{}
	default:
		return &RawPayload{}
	}
}
