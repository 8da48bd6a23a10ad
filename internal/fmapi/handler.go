package fmapi

import (
	"github.com/sirupsen/logrus"

	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

// HandlerFunc is one FM API opcode's validate+act step. The dispatcher
// calls it with the switch lock already held, passes the decoded
// request payload, and gets back the response payload plus the return
// code to place in the response header.
type HandlerFunc func(req any) (any, cxlerr.Code)

// Handlers holds the live switch and config backend that every FM API
// handler closes over.
type Handlers struct {
	sw      *cxlstate.Switch
	backend ConfigBackend
	log     *logrus.Entry
}

// New returns the FM API handler set bound to sw and backend.
func New(sw *cxlstate.Switch, backend ConfigBackend, log *logrus.Entry) *Handlers {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handlers{sw: sw, backend: backend, log: log}
}

// Table returns the full opcode -> HandlerFunc map for every FM API
// opcode the dispatcher routes to this package. Each method is stored
// as-is and returns a cxlerr.Code; the dispatcher converts it to the
// uint16 the wire header carries.
func (h *Handlers) Table() map[uint16]HandlerFunc {
	return map[uint16]HandlerFunc{
		wire.OpISCIdentify:          h.identify,
		wire.OpISCBOS:               h.bos,
		wire.OpISCMsgLimitGet:       h.msgLimitGet,
		wire.OpISCMsgLimitSet:       h.msgLimitSet,
		wire.OpPSCIdentifySwitch:    h.identifySwitch,
		wire.OpPSCGetPortState:      h.getPortState,
		wire.OpPSCPortControl:       h.portControl,
		wire.OpPSCConfig:            h.pscConfig,
		wire.OpVSCInfo:              h.vcsInfo,
		wire.OpVSCBind:              h.bind,
		wire.OpVSCUnbind:            h.unbind,
		wire.OpVSCAER:               h.aer,
		wire.OpMPCConfig:            h.mpcConfig,
		wire.OpMPCMemory:            h.mpcMemory,
		wire.OpMPCTunnel:            h.tunnel,
	}
}

// mccTable is the MCC family, dispatched only from inside tunnel.
func (h *Handlers) mccTable() map[uint16]func(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	return map[uint16]func(mld *cxlstate.Mld, req any) (any, cxlerr.Code){
		wire.OpMCCInfo:              h.mccInfo,
		wire.OpMCCGetLDAllocations:  h.mccGetLDAllocations,
		wire.OpMCCSetLDAllocations:  h.mccSetLDAllocations,
		wire.OpMCCGetQoSControl:     h.mccGetQoSControl,
		wire.OpMCCSetQoSControl:     h.mccSetQoSControl,
		wire.OpMCCGetQoSStatus:      h.mccGetQoSStatus,
		wire.OpMCCGetQoSAllocatedBW: h.mccGetQoSAllocatedBW,
		wire.OpMCCSetQoSAllocatedBW: h.mccSetQoSAllocatedBW,
		wire.OpMCCGetQoSBWLimit:     h.mccGetQoSBWLimit,
		wire.OpMCCSetQoSBWLimit:     h.mccSetQoSBWLimit,
	}
}
