// Package dispatch implements the handler skeleton shared by every FM
// API and Emulator API opcode: decode header, decode payload, lock the
// switch, validate+act, encode the response, unlock, and push the
// finished action onto the transmit queue — or onto the reclaim queue
// on any fail-path step. Grounded on original_source/fmapi_handler.c's
// single dispatch function, re-architected into an opcode -> handler
// table instead of a switch statement.
package dispatch

import (
	"github.com/sirupsen/logrus"

	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/emapi"
	"github.com/jrlabs-io/cxlswitchd/internal/fmapi"
	"github.com/jrlabs-io/cxlswitchd/internal/transport"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

// Dispatcher routes inbound transport actions to the FM API or
// Emulator API handler tables based on the message type, runs the
// validate-act-encode step under the switch lock, and leaves the
// result on the action for the caller to push onward.
type Dispatcher struct {
	sw  *cxlstate.Switch
	fm  map[uint16]fmapi.HandlerFunc
	em  map[uint16]emapi.HandlerFunc
	log *logrus.Entry
}

// New builds a Dispatcher bound to sw, with FM API handlers run
// against backend and Emulator API handlers run against sw's own
// catalog and ports.
func New(sw *cxlstate.Switch, backend fmapi.ConfigBackend, log *logrus.Entry) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{
		sw:  sw,
		fm:  fmapi.New(sw, backend, log).Table(),
		em:  emapi.New(sw).Table(),
		log: log,
	}
}

// Run drains conn's receive queue, dispatches each action, and pushes
// the result onto conn's transmit or reclaim queue. Run blocks until
// conn's receive channel closes (the connection went away).
func (d *Dispatcher) Run(conn *transport.Conn) {
	for action := range conn.Receive() {
		if d.dispatch(action) {
			conn.Transmit() <- action
		} else {
			conn.Reclaim() <- action
		}
	}
}

// dispatch runs the full handler skeleton against action.Req, filling
// action.Rsp on success. Returns false on any fail-path step (header
// decode, payload decode, or response encode failure) — those cases
// set action.CompletionCode and must not be transmitted.
func (d *Dispatcher) dispatch(action *transport.Action) bool {
	switch action.Req.Type {
	case transport.MsgTypeFM:
		return d.dispatchFM(action)
	case transport.MsgTypeEM:
		return d.dispatchEM(action)
	default:
		action.CompletionCode = 1
		return false
	}
}

func (d *Dispatcher) dispatchFM(action *transport.Action) bool {
	hdr, n, err := wire.DecodeFMHeader(action.Req.Body)
	if err != nil {
		action.CompletionCode = 1
		return false
	}
	req, err := wire.DecodeFMPayload(hdr.Opcode, wire.SideRequest, action.Req.Body[n:])
	if err != nil {
		action.CompletionCode = 1
		return false
	}

	d.sw.Lock()
	handler, ok := d.fm[hdr.Opcode]
	var resp any
	var code cxlerr.Code
	if !ok {
		resp, code = &wire.RawPayload{}, cxlerr.Unsupported
	} else {
		resp, code = handler(req)
		if resp == nil {
			resp = &wire.RawPayload{}
		}
	}
	respHdr := wire.FMHeader{
		Category:     wire.CategoryResponse,
		Tag:          hdr.Tag,
		Opcode:       hdr.Opcode,
		ReturnCode:   uint16(code),
		BackgroundOp: code == cxlerr.BackgroundOpStarted,
	}
	out := make([]byte, wire.FMHeaderLen+maxPayload)
	hn, herr := wire.EncodeFMHeader(respHdr, out)
	var pn int
	var perr error
	if herr == nil {
		pn, perr = wire.EncodeFMPayload(resp, out[hn:])
	}
	d.sw.Unlock()

	if herr != nil || perr != nil {
		action.CompletionCode = 1
		return false
	}
	action.Rsp = transport.Message{Type: transport.MsgTypeFM, Body: out[:hn+pn]}
	d.log.WithFields(logrus.Fields{"opcode": hdr.Opcode, "return_code": code}).Debug("dispatch: fm api handled")
	return true
}

func (d *Dispatcher) dispatchEM(action *transport.Action) bool {
	hdr, n, err := wire.DecodeEMHeader(action.Req.Body)
	if err != nil {
		action.CompletionCode = 1
		return false
	}
	req, err := wire.DecodeEMPayload(hdr.Opcode, wire.SideRequest, action.Req.Body[n:])
	if err != nil {
		action.CompletionCode = 1
		return false
	}

	d.sw.Lock()
	handler, ok := d.em[hdr.Opcode]
	var resp any
	var code cxlerr.Code
	var count uint16
	if !ok {
		resp, code = &wire.RawPayload{}, cxlerr.Unsupported
	} else {
		resp, code = handler(hdr, req)
		if resp == nil {
			resp = &wire.RawPayload{}
		}
		if lr, ok := resp.(*wire.ListDevicesResponse); ok {
			count = uint16(len(lr.Devices))
		}
	}
	respHdr := wire.EMHeader{
		Type:       wire.EmTypeResponse,
		Tag:        hdr.Tag,
		Opcode:     hdr.Opcode,
		ReturnCode: uint16(code),
		Count:      count,
	}
	out := make([]byte, wire.EMHeaderLen+maxPayload)
	hn, herr := wire.EncodeEMHeader(respHdr, out)
	var pn int
	var perr error
	if herr == nil {
		pn, perr = wire.EncodeEMPayload(resp, out[hn:])
	}
	d.sw.Unlock()

	if herr != nil || perr != nil {
		action.CompletionCode = 1
		return false
	}
	action.Rsp = transport.Message{Type: transport.MsgTypeEM, Body: out[:hn+pn]}
	d.log.WithFields(logrus.Fields{"opcode": hdr.Opcode, "return_code": code}).Debug("dispatch: emulator api handled")
	return true
}

// maxPayload bounds the scratch buffer used to encode a response
// payload; generous enough for the largest wire message this
// specification defines (a full Get Virtual CXL Switch Info response).
const maxPayload = 1 << 16
