package fmapi

import (
	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

// msgLimitMin and msgLimitMax bound the response-message size exponent
// accepted by Get/Set Response Message Limit.
const (
	msgLimitMin uint8 = 8
	msgLimitMax uint8 = 20
)

func (h *Handlers) identify(req any) (any, cxlerr.Code) {
	return &wire.IdentifyResponse{
		VendorID:       h.sw.VendorID,
		DeviceID:       h.sw.DeviceID,
		SubsysVendorID: h.sw.SubsysVendorID,
		SubsysDeviceID: h.sw.SubsysDeviceID,
		SerialNumber:   h.sw.SerialNumber,
		MaxMessageSize: h.sw.MaxMessageSize,
		ResponseLimit:  h.sw.ResponseLimit,
	}, cxlerr.Success
}

func (h *Handlers) bos(req any) (any, cxlerr.Code) {
	op := h.sw.BgOp
	return &wire.BOSResponse{
		Running:        op.Running,
		Percent:        op.Percent,
		Opcode:         op.Opcode,
		ReturnCode:     op.ReturnCode,
		ExtendedStatus: op.ExtendedStatus,
	}, cxlerr.Success
}

func (h *Handlers) msgLimitGet(req any) (any, cxlerr.Code) {
	return &wire.MsgLimitResponse{Limit: h.sw.ResponseLimit}, cxlerr.Success
}

func (h *Handlers) msgLimitSet(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.MsgLimitSetRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	if r.Limit < msgLimitMin || r.Limit > msgLimitMax {
		return nil, cxlerr.InvalidInput
	}
	h.sw.ResponseLimit = r.Limit
	return &wire.MsgLimitResponse{Limit: h.sw.ResponseLimit}, cxlerr.Success
}
