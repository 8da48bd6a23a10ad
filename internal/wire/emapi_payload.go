package wire

import "fmt"

// ListDevicesRequest selects a window over the device catalog.
type ListDevicesRequest struct {
	StartNum uint16
	NumDevices uint16
}

func (p *ListDevicesRequest) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(p.StartNum); err != nil {
		return 0, err
	}
	if err := w.writeU16(p.NumDevices); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *ListDevicesRequest) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.StartNum, err = r.readU16(); err != nil {
		return 0, err
	}
	if p.NumDevices, err = r.readU16(); err != nil {
		return 0, err
	}
	return r.pos, nil
}

// DeviceRecord is a single catalog entry as written into a List
// Devices response: an opaque id, its name length, and the name bytes
// themselves (no trailing NUL — the length is explicit).
type DeviceRecord struct {
	ID   uint16
	Name string
}

func (d *DeviceRecord) encode(w *cursor) error {
	if err := w.writeU16(d.ID); err != nil {
		return err
	}
	name := []byte(d.Name)
	if err := w.writeU8(uint8(len(name))); err != nil {
		return err
	}
	return w.writeBytes(name)
}

func (d *DeviceRecord) decode(r *cursor) error {
	var err error
	if d.ID, err = r.readU16(); err != nil {
		return err
	}
	n, err := r.readU8()
	if err != nil {
		return err
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return err
	}
	d.Name = string(b)
	return nil
}

// ListDevicesResponse carries the catalog window actually returned.
// Total is the full catalog size, which may exceed len(Devices) when
// the request window was clipped.
type ListDevicesResponse struct {
	Total   uint16
	Devices []DeviceRecord
}

func (p *ListDevicesResponse) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU16(p.Total); err != nil {
		return 0, err
	}
	if err := w.writeU16(uint16(len(p.Devices))); err != nil {
		return 0, err
	}
	for i := range p.Devices {
		if err := p.Devices[i].encode(w); err != nil {
			return 0, err
		}
	}
	return w.pos, nil
}

func (p *ListDevicesResponse) Decode(data []byte) (int, error) {
	r := newReader(data)
	var err error
	if p.Total, err = r.readU16(); err != nil {
		return 0, err
	}
	n, err := r.readU16()
	if err != nil {
		return 0, err
	}
	p.Devices = make([]DeviceRecord, n)
	for i := 0; i < int(n); i++ {
		if err := p.Devices[i].decode(r); err != nil {
			return 0, err
		}
	}
	return r.pos, nil
}

// ConnectRequest carries no payload: the target port and device are
// addressed through the EM header's ArgA (ppid) and ArgB (devid).
type ConnectRequest struct{}

func (p *ConnectRequest) Encode(out []byte) (int, error)  { return 0, nil }
func (p *ConnectRequest) Decode(data []byte) (int, error) { return 0, nil }

// ConnectResponse carries no fields — success is conveyed by the
// header's return code alone.
type ConnectResponse struct{}

func (p *ConnectResponse) Encode(out []byte) (int, error)  { return 0, nil }
func (p *ConnectResponse) Decode(data []byte) (int, error) { return 0, nil }

// DisconnectRequest carries no payload: the target port and the "all
// ports" flag are addressed through the EM header's ArgA (ppid) and
// ArgB (all).
type DisconnectRequest struct{}

func (p *DisconnectRequest) Encode(out []byte) (int, error)  { return 0, nil }
func (p *DisconnectRequest) Decode(data []byte) (int, error) { return 0, nil }

// DisconnectResponse carries no fields.
type DisconnectResponse struct{}

func (p *DisconnectResponse) Encode(out []byte) (int, error)  { return 0, nil }
func (p *DisconnectResponse) Decode(data []byte) (int, error) { return 0, nil }

// EventPayload is the wire shape of an unsolicited Emulator API event,
// ignored by the dispatcher but still parseable for logging.
type EventPayload struct {
	Kind uint8
	Data []byte
}

func (p *EventPayload) Encode(out []byte) (int, error) {
	w := newWriter(out)
	if err := w.writeU8(p.Kind); err != nil {
		return 0, err
	}
	if err := w.writeBytes(p.Data); err != nil {
		return 0, err
	}
	return w.pos, nil
}

func (p *EventPayload) Decode(data []byte) (int, error) {
	r := newReader(data)
	v, err := r.readU8()
	if err != nil {
		return 0, err
	}
	p.Kind = v
	rest, err := r.readBytes(r.remaining())
	if err != nil {
		return 0, err
	}
	p.Data = rest
	return r.pos, nil
}

// DecodeEMPayload decodes the request or response payload variant for
// opcode from data. Unknown opcodes decode to *RawPayload.
func DecodeEMPayload(opcode uint16, side Side, data []byte) (any, error) {
	v := newEMPayload(opcode, side)
	if _, err := decodeInto(v, data); err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeEMPayload encodes v into out.
func EncodeEMPayload(v any, out []byte) (int, error) {
	enc, ok := v.(interface{ Encode([]byte) (int, error) })
	if !ok {
		return 0, fmt.Errorf("wire: %T does not implement Encode", v)
	}
	return enc.Encode(out)
}

func newEMPayload(opcode uint16, side Side) any {
	req := side == SideRequest
	switch opcode {
	case OpEMListDevices:
		if req {
			return &ListDevicesRequest{}
		}
		return &ListDevicesResponse{}
	case OpEMConnect:
		if req {
			return &ConnectRequest{}
		}
		return &ConnectResponse{}
	case OpEMDisconnect:
		if req {
			return &DisconnectRequest{}
		}
		return &DisconnectResponse{}
	case OpEMEvent:
		return &EventPayload{}
	default:
		return &RawPayload{}
	}
}
