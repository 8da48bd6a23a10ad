package fmapi

import (
	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

func (h *Handlers) identifySwitch(req any) (any, cxlerr.Code) {
	activePorts, activeVCSs, activeVppbCount := h.sw.ActiveBitmaps()
	resp := &wire.IdentifySwitchResponse{
		NumPorts:        uint8(h.sw.NumPorts),
		NumVCSs:         uint8(h.sw.NumVCSs),
		NumVPPBs:        h.sw.NumVPPBs,
		NumDecoders:     h.sw.NumDecoders,
		ActiveVPPBCount: activeVppbCount,
	}
	copy(resp.ActivePorts[:], activePorts[:])
	copy(resp.ActiveVCSs[:], activeVCSs[:])
	return resp, cxlerr.Success
}

func (h *Handlers) getPortState(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.GetPortStateRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	resp := &wire.GetPortStateResponse{}
	for _, ppid := range r.PPIDs {
		p := h.sw.Port(ppid)
		if p == nil {
			continue // invalid ids are silently skipped
		}
		resp.Ports = append(resp.Ports, p.Block())
	}
	return resp, cxlerr.Success
}

func (h *Handlers) portControl(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.PortControlRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	p := h.sw.Port(r.PPID)
	if p == nil {
		return nil, cxlerr.InvalidInput
	}
	switch r.Opcode {
	case wire.PortCtrlAssertPERST:
		p.PERST = true
		if code := h.backend.AssertPERST(r.PPID); code != cxlerr.Success {
			return nil, code
		}
	case wire.PortCtrlDeassertPERST:
		p.PERST = false
		if code := h.backend.DeassertPERST(r.PPID); code != cxlerr.Success {
			return nil, code
		}
	case wire.PortCtrlResetPPB:
		// No-op in the pure-emulation build.
	default:
		return nil, cxlerr.InvalidInput
	}
	return &wire.PortControlResponse{}, cxlerr.Success
}

func (h *Handlers) pscConfig(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.ConfigAccessRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	p := h.sw.Port(r.PPID)
	if p == nil || p.ConfigSpace == nil {
		return nil, cxlerr.InvalidInput
	}
	if r.Dir == wire.ConfigWrite {
		if pb, ok := h.backend.(*passthroughBackend); ok {
			code := pb.WriteConfigForPort(r.PPID, p.ConfigSpace, r.Ext, r.Reg, r.FDBE, r.Data)
			return &wire.ConfigAccessResponse{}, code
		}
		code := h.backend.WriteConfig(p.ConfigSpace, r.Ext, r.Reg, r.FDBE, r.Data)
		return &wire.ConfigAccessResponse{}, code
	}
	if pb, ok := h.backend.(*passthroughBackend); ok {
		data, code := pb.ReadConfigForPort(r.PPID, p.ConfigSpace, r.Ext, r.Reg, r.FDBE)
		return &wire.ConfigAccessResponse{Data: data}, code
	}
	data, code := h.backend.ReadConfig(p.ConfigSpace, r.Ext, r.Reg, r.FDBE)
	return &wire.ConfigAccessResponse{Data: data}, code
}
