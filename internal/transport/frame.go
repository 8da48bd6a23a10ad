package transport

import (
	"encoding/binary"
	"fmt"
	"io"
)

// frameLenPrefix is the byte width of the length prefix; the length it
// carries covers everything after the prefix (the type byte plus body).
const frameLenPrefix = 4

// maxFrameBody bounds a single frame to guard against a hostile or
// corrupted peer claiming an unbounded length.
const maxFrameBody = 1 << 20

// readFrame reads one length-prefixed frame from r.
func readFrame(r io.Reader) (Message, error) {
	var lenBuf [frameLenPrefix]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Message{}, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n == 0 {
		return Message{}, fmt.Errorf("transport: zero-length frame (missing type byte)")
	}
	if n > maxFrameBody {
		return Message{}, fmt.Errorf("transport: frame length %d exceeds maximum %d", n, maxFrameBody)
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Message{}, err
	}
	return Message{Type: MsgType(body[0]), Body: body[1:]}, nil
}

// writeFrame writes msg to w as one length-prefixed frame.
func writeFrame(w io.Writer, msg Message) error {
	n := uint32(1 + len(msg.Body))
	var lenBuf [frameLenPrefix]byte
	binary.LittleEndian.PutUint32(lenBuf[:], n)
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	frame := make([]byte, n)
	frame[0] = byte(msg.Type)
	copy(frame[1:], msg.Body)
	_, err := w.Write(frame)
	return err
}
