package transport

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/sirupsen/logrus"
)

// Conn wires one accepted TCP connection to the three queues the
// dispatcher runs against. Grounded on kata govmm's QMP transport: a
// dedicated read goroutine feeding a channel, a dedicated write
// goroutine draining a channel, background and decoupled from the
// dispatcher's own goroutines.
type Conn struct {
	nc     net.Conn
	reader *bufio.Reader
	log    *logrus.Entry

	receive  chan *Action
	transmit chan *Action
	reclaim  chan *Action
	done     chan struct{}
}

// queueDepth sizes the three channels; a connection with more than
// this many actions in flight backs up at the socket, which is the
// desired behavior (no unbounded buffering).
const queueDepth = 64

// NewConn starts the read, write and reclaim-drain goroutines for nc
// and returns the Conn. Call Close to stop them.
func NewConn(nc net.Conn, log *logrus.Entry) *Conn {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	c := &Conn{
		nc:       nc,
		reader:   bufio.NewReader(nc),
		log:      log.WithField("remote", nc.RemoteAddr()),
		receive:  make(chan *Action, queueDepth),
		transmit: make(chan *Action, queueDepth),
		reclaim:  make(chan *Action, queueDepth),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	go c.writeLoop()
	go c.reclaimLoop()
	return c
}

// Receive returns the channel of inbound actions awaiting dispatch.
func (c *Conn) Receive() <-chan *Action { return c.receive }

// Transmit returns the channel completed actions are pushed onto for
// writing back to the peer.
func (c *Conn) Transmit() chan<- *Action { return c.transmit }

// Reclaim returns the channel fail-path actions are pushed onto
// instead of being transmitted.
func (c *Conn) Reclaim() chan<- *Action { return c.reclaim }

// Close closes the underlying connection and stops the goroutines.
func (c *Conn) Close() error {
	close(c.done)
	return c.nc.Close()
}

func (c *Conn) readLoop() {
	defer close(c.receive)
	for {
		msg, err := readFrame(c.reader)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				c.log.WithError(err).Warn("transport: read loop terminating")
			}
			return
		}
		select {
		case c.receive <- &Action{Req: msg}:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) writeLoop() {
	for {
		select {
		case action, ok := <-c.transmit:
			if !ok {
				return
			}
			if err := writeFrame(c.nc, action.Rsp); err != nil {
				c.log.WithError(err).Warn("transport: write loop terminating")
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) reclaimLoop() {
	for {
		select {
		case action, ok := <-c.reclaim:
			if !ok {
				return
			}
			c.log.WithField("completion_code", action.CompletionCode).
				Warn("transport: action reclaimed on fail-path")
		case <-c.done:
			return
		}
	}
}
