package transport

import (
	"net"
	"testing"
	"time"
)

const testTimeout = 2 * time.Second

func TestConnReceivesInboundFrame(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	conn := NewConn(server, nil)
	defer conn.Close()

	want := Message{Type: MsgTypeFM, Body: []byte{0x00, 0x5A, 0x00, 0x51, 0, 0, 0, 0, 0, 0, 0, 0}}
	go func() {
		if err := writeFrame(client, want); err != nil {
			t.Errorf("client writeFrame: %v", err)
		}
	}()

	select {
	case action := <-conn.Receive():
		if action.Req.Type != want.Type || string(action.Req.Body) != string(want.Body) {
			t.Fatalf("got %+v, want %+v", action.Req, want)
		}
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for inbound action")
	}
}

func TestConnTransmitsResponse(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	conn := NewConn(server, nil)
	defer conn.Close()

	rsp := Message{Type: MsgTypeEM, Body: []byte{1, 2, 3}}
	conn.Transmit() <- &Action{Rsp: rsp}

	resultCh := make(chan Message, 1)
	errCh := make(chan error, 1)
	go func() {
		msg, err := readFrame(client)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- msg
	}()

	select {
	case got := <-resultCh:
		if got.Type != rsp.Type || string(got.Body) != string(rsp.Body) {
			t.Fatalf("got %+v, want %+v", got, rsp)
		}
	case err := <-errCh:
		t.Fatalf("client readFrame: %v", err)
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for transmitted response")
	}
}

func TestConnReclaimDoesNotBlock(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	conn := NewConn(server, nil)
	defer conn.Close()

	select {
	case conn.Reclaim() <- &Action{CompletionCode: 1}:
	case <-time.After(testTimeout):
		t.Fatal("timed out pushing to reclaim queue")
	}
}

func TestConnCloseStopsReadLoop(t *testing.T) {
	client, server := net.Pipe()
	conn := NewConn(server, nil)

	if err := conn.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	client.Close()

	select {
	case _, ok := <-conn.Receive():
		if ok {
			t.Fatal("expected receive channel to be closed or empty after Close")
		}
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for receive channel to settle after close")
	}
}
