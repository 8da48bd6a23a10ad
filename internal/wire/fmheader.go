package wire

import "fmt"

// FMHeaderLen is the fixed wire length of an FM API message header.
const FMHeaderLen = 12

// fmLengthMask masks the header's length field down to its documented
// 21 valid bits; the top 11 bits are reserved and always encoded zero.
const fmLengthMask = (1 << 21) - 1

// FMHeader is the fixed-length FM API message header: message
// category, an opaque tag echoed from request to response, a 16-bit
// opcode, a 16-bit return code, a background-operation flag, and a
// 21-bit payload length. All multi-byte fields are little-endian.
type FMHeader struct {
	Category     MsgCategory
	Tag          uint8
	Opcode       uint16
	ReturnCode   uint16
	BackgroundOp bool
	Length       uint32 // payload length in bytes; must fit in 21 bits
}

// DecodeFMHeader parses an FM API header from the front of data,
// returning the header and the number of bytes consumed. Rejects
// truncated input.
func DecodeFMHeader(data []byte) (FMHeader, int, error) {
	var h FMHeader
	r := newReader(data)

	b0, err := r.readU8()
	if err != nil {
		return h, 0, err
	}
	h.Category = MsgCategory(b0 & 0x01)

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

	flags, err := r.readU8()
	if err != nil {
		return h, 0, err
	}
	h.BackgroundOp = flags&0x01 != 0

	if _, err := r.readU8(); err != nil { // reserved
		return h, 0, err
	}

	length, err := r.readU32()
	if err != nil {
		return h, 0, err
	}
	h.Length = length & fmLengthMask

	return h, r.pos, nil
}

// EncodeFMHeader writes h to the front of out, returning bytes written.
// Infallible as long as out has at least FMHeaderLen capacity.
func EncodeFMHeader(h FMHeader, out []byte) (int, error) {
	if len(out) < FMHeaderLen {
		return 0, fmt.Errorf("wire: out buffer too small for FM header: have %d need %d", len(out), FMHeaderLen)
	}
	w := newWriter(out)

	if err := w.writeU8(uint8(h.Category) & 0x01); err != nil {
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
	var flags uint8
	if h.BackgroundOp {
		flags |= 0x01
	}
	if err := w.writeU8(flags); err != nil {
		return 0, err
	}
	if err := w.writeU8(0); err != nil { // reserved
		return 0, err
	}
	if err := w.writeU32(h.Length & fmLengthMask); err != nil {
		return 0, err
	}
	return w.pos, nil
}
