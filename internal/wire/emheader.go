package wire

import "fmt"

// EMHeaderLen is the fixed wire length of an Emulator API message header.
const EMHeaderLen = 14

// EMHeader is the fixed-length Emulator API message header: a message
// type (request/response/event), an opaque tag, a 16-bit
// opcode, a 16-bit return code, two opcode-specific single-byte
// arguments, a payload length, and a count field used by list
// responses. All multi-byte fields are little-endian.
type EMHeader struct {
	Type       EmMsgType
	Tag        uint8
	Opcode     uint16
	ReturnCode uint16
	ArgA       uint8
	ArgB       uint8
	Length     uint32
	Count      uint16
}

// DecodeEMHeader parses an Emulator API header from the front of data.
func DecodeEMHeader(data []byte) (EMHeader, int, error) {
	var h EMHeader
	r := newReader(data)

	t, err := r.readU8()
	if err != nil {
		return h, 0, err
	}
	h.Type = EmMsgType(t)

	tag, err := r.readU8()
	if err != nil {
		return h, 0, err
	}
	h.Tag = tag

	opcode, err := r.readU16()
	if err != nil {
		return h, 0, err
	}
	h.Opcode = opcode

	rc, err := r.readU16()
	if err != nil {
		return h, 0, err
	}
	h.ReturnCode = rc

	a, err := r.readU8()
	if err != nil {
		return h, 0, err
	}
	h.ArgA = a

	b, err := r.readU8()
	if err != nil {
		return h, 0, err
	}
	h.ArgB = b

	length, err := r.readU32()
	if err != nil {
		return h, 0, err
	}
	h.Length = length

	count, err := r.readU16()
	if err != nil {
		return h, 0, err
	}
	h.Count = count

	return h, r.pos, nil
}

// EncodeEMHeader writes h to the front of out, returning bytes written.
func EncodeEMHeader(h EMHeader, out []byte) (int, error) {
	if len(out) < EMHeaderLen {
		return 0, fmt.Errorf("wire: out buffer too small for EM header: have %d need %d", len(out), EMHeaderLen)
	}
	w := newWriter(out)

	if err := w.writeU8(uint8(h.Type)); err != nil {
		return 0, err
	}
	if err := w.writeU8(h.Tag); err != nil {
		return 0, err
	}
	if err := w.writeU16(h.Opcode); err != nil {
		return 0, err
	}
	if err := w.writeU16(h.ReturnCode); err != nil {
		return 0, err
	}
	if err := w.writeU8(h.ArgA); err != nil {
		return 0, err
	}
	if err := w.writeU8(h.ArgB); err != nil {
		return 0, err
	}
	if err := w.writeU32(h.Length); err != nil {
		return 0, err
	}
	if err := w.writeU16(h.Count); err != nil {
		return 0, err
	}
	return w.pos, nil
}
