// Package emapi implements the Emulator API handler family: a small,
// repo-local control surface for listing the device catalog
// and connecting/disconnecting devices to ports, distinct from the FM
// API's CXL fabric-manager surface.
package emapi

import (
	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

// HandlerFunc is one Emulator API opcode's validate+act step. Unlike
// the FM API, Connect/Disconnect address their target through the EM
// header's ArgA/ArgB fields rather than the payload, so the header is
// passed alongside the decoded payload.
type HandlerFunc func(hdr wire.EMHeader, req any) (any, cxlerr.Code)

// Handlers holds the live switch every Emulator API handler closes over.
type Handlers struct {
	sw *cxlstate.Switch
}

// New returns the Emulator API handler set bound to sw.
func New(sw *cxlstate.Switch) *Handlers {
	return &Handlers{sw: sw}
}

// Table returns the opcode -> HandlerFunc map the dispatcher routes
// Emulator API messages through.
func (h *Handlers) Table() map[uint16]HandlerFunc {
	return map[uint16]HandlerFunc{
		wire.OpEMListDevices: h.listDevices,
		wire.OpEMConnect:     h.connect,
		wire.OpEMDisconnect:  h.disconnect,
		wire.OpEMEvent:       h.event,
	}
}

func (h *Handlers) listDevices(hdr wire.EMHeader, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.ListDevicesRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	total := uint16(h.sw.Catalog.Len())
	if r.StartNum >= total {
		return nil, cxlerr.InvalidInput
	}
	n := r.NumDevices
	if n == 0 {
		n = total - r.StartNum // 0 means "all remaining"
	}
	// Preserved as-observed: the clamp compares with ">=". For a
	// tail-equal request (start_num+num_requested == total) it sets n to
	// the value it already had, so only requests running past the end
	// are shortened; see DESIGN.md's Open Question decisions.
	if uint32(r.StartNum)+uint32(n) >= uint32(total) {
		n = total - r.StartNum
	}

	resp := &wire.ListDevicesResponse{Total: total}
	all := h.sw.Catalog.All()
	for i := uint16(0); i < n; i++ {
		t := all[r.StartNum+i]
		resp.Devices = append(resp.Devices, wire.DeviceRecord{ID: t.ID, Name: t.Name})
	}
	return resp, cxlerr.Success
}

func (h *Handlers) connect(hdr wire.EMHeader, req any) (any, cxlerr.Code) {
	ppid := uint16(hdr.ArgA)
	devid := uint16(hdr.ArgB)

	if ppid >= h.sw.NumPorts {
		return nil, cxlerr.InvalidInput
	}
	tmpl, err := h.sw.Catalog.Find(devid)
	if err != nil {
		return nil, cxlerr.InvalidInput
	}
	port := h.sw.Port(ppid)
	if port.PRSNT {
		return nil, cxlerr.InvalidInput // slot not empty
	}
	if err := cxlstate.Attach(port, tmpl, h.sw.ImageDir); err != nil {
		return nil, cxlerr.Unsupported
	}
	return &wire.ConnectResponse{}, cxlerr.Success
}

func (h *Handlers) disconnect(hdr wire.EMHeader, req any) (any, cxlerr.Code) {
	ppid := uint16(hdr.ArgA)
	all := hdr.ArgB != 0

	if all {
		for i := range h.sw.Ports {
			if h.sw.Ports[i].PRSNT {
				if err := cxlstate.Detach(&h.sw.Ports[i]); err != nil {
					return nil, cxlerr.InternalError
				}
			}
		}
		return &wire.DisconnectResponse{}, cxlerr.Success
	}

	port := h.sw.Port(ppid)
	if port == nil {
		return nil, cxlerr.InvalidInput
	}
	if port.PRSNT {
		if err := cxlstate.Detach(port); err != nil {
			return nil, cxlerr.InternalError
		}
	}
	return &wire.DisconnectResponse{}, cxlerr.Success
}

func (h *Handlers) event(hdr wire.EMHeader, req any) (any, cxlerr.Code) {
	return &wire.EventPayload{}, cxlerr.Success
}
