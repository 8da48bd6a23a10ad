package fmapi

import (
	"github.com/sirupsen/logrus"

	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

func (h *Handlers) vcsInfo(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.VCSInfoRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	resp := &wire.VCSInfoResponse{}
	for _, id := range r.VCSIDs {
		v := h.sw.VCS(id)
		if v == nil {
			continue // invalid ids are skipped, mirroring Get Physical Port State
		}
		resp.VCSs = append(resp.VCSs, v.Block(r.VppbidStart, r.VppbidLimit))
	}
	return resp, cxlerr.Success
}

// setBgOpSuccess atomically records the synchronous-completion quirk:
// the background-op tuple reports done, yet the handler still returns
// the background-op-started code.
func (h *Handlers) setBgOpSuccess(opcode uint16) cxlerr.Code {
	h.sw.BgOp = cxlstate.BackgroundOp{
		Running:    false,
		Percent:    100,
		Opcode:     opcode,
		ReturnCode: uint16(cxlerr.Success),
	}
	return cxlerr.BackgroundOpStarted
}

func (h *Handlers) bind(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.BindRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}

	vcs := h.sw.VCS(r.VCSID)
	if vcs == nil {
		return nil, cxlerr.InvalidInput // 1: vcsid < num_vcss
	}
	if r.VppbID >= uint16(vcs.Num) {
		return nil, cxlerr.InvalidInput // 2: vppbid < vcss[vcsid].num
	}
	port := h.sw.Port(r.PPID)
	if port == nil {
		return nil, cxlerr.InvalidInput // 3: ppid < num_ports
	}
	if port.State == cxlstate.PortDisabled {
		return nil, cxlerr.InvalidInput // 4: port not disabled
	}
	boundLD := r.LDID != wire.LDIDNone
	if boundLD && !port.DeviceType.IsType3() {
		return nil, cxlerr.InvalidInput // 5: LD bind requires Type-3 device
	}
	if port.LD > 0 && !boundLD {
		return nil, cxlerr.InvalidInput // 6: MLD port cannot bind whole-port
	}
	if boundLD && port.LD == 0 {
		return nil, cxlerr.InvalidInput // 7: LD requested but port is SLD
	}
	vppb := &vcs.Vppbs[r.VppbID]
	if vppb.Status != cxlstate.BindUnbound {
		return nil, cxlerr.InvalidInput // 8: vPPB currently unbound
	}

	if boundLD {
		vppb.Status = cxlstate.BindBoundLD
		vppb.LDID = r.LDID
	} else {
		vppb.Status = cxlstate.BindBoundPort
		vppb.LDID = 0
	}
	vppb.PPID = r.PPID
	port.State = cxlstate.PortDownstream

	code := h.setBgOpSuccess(wire.OpVSCBind)
	return &wire.BindResponse{}, code
}

func (h *Handlers) unbind(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.UnbindRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	vcs := h.sw.VCS(r.VCSID)
	if vcs == nil || r.VppbID >= uint16(vcs.Num) {
		return nil, cxlerr.InvalidInput
	}
	vppb := &vcs.Vppbs[r.VppbID]
	if vppb.Status == cxlstate.BindUnbound || vppb.Status == cxlstate.BindInProgress {
		return nil, cxlerr.InvalidInput
	}
	port := h.sw.Port(vppb.PPID)
	if port == nil {
		return nil, cxlerr.InvalidInput
	}
	switch port.State {
	case cxlstate.PortBinding, cxlstate.PortUnbinding, cxlstate.PortUpstream, cxlstate.PortDownstream:
		// bound or binding/unbinding port states accepted
	default:
		return nil, cxlerr.InvalidInput
	}

	vppb.Status = cxlstate.BindUnbound
	vppb.PPID = 0
	vppb.LDID = 0

	code := h.setBgOpSuccess(wire.OpVSCUnbind)
	return &wire.UnbindResponse{}, code
}

func (h *Handlers) aer(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.AERRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	vcs := h.sw.VCS(r.VCSID)
	if vcs == nil || r.VppbID >= uint16(vcs.Num) {
		return nil, cxlerr.InvalidInput
	}
	h.log.WithFields(logrus.Fields{
		"vcsid":      r.VCSID,
		"vppbid":     r.VppbID,
		"error_type": r.ErrorType,
	}).Warn("fmapi: simulated AER event")
	return &wire.AERResponse{}, cxlerr.Success
}
