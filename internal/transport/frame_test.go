package transport

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	msg := Message{Type: MsgTypeFM, Body: []byte{0x00, 0x5A, 0x00, 0x51}}
	var buf bytes.Buffer
	if err := writeFrame(&buf, msg); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	got, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if got.Type != msg.Type || !bytes.Equal(got.Body, msg.Body) {
		t.Fatalf("got %+v, want %+v", got, msg)
	}
}

func TestReadFrameRejectsZeroLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0})
	if _, err := readFrame(buf); err == nil {
		t.Fatal("expected error on zero-length frame")
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var lenBuf [4]byte
	lenBuf[3] = 0xFF // huge length
	buf := bytes.NewBuffer(lenBuf[:])
	if _, err := readFrame(buf); err == nil {
		t.Fatal("expected error on oversized frame length")
	}
}

func TestReadFrameRejectsTruncatedBody(t *testing.T) {
	msg := Message{Type: MsgTypeEM, Body: []byte{1, 2, 3, 4, 5}}
	var buf bytes.Buffer
	if err := writeFrame(&buf, msg); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}
	truncated := bytes.NewBuffer(buf.Bytes()[:buf.Len()-2])
	if _, err := readFrame(truncated); err == nil {
		t.Fatal("expected error on truncated frame body")
	}
}
