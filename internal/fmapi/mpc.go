package fmapi

import (
	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

// mldPortAndLD resolves (ppid, ldid) to the port and its per-LD config
// space, validating the port carries an Mld and ldid is in range.
func (h *Handlers) mldPortAndLD(ppid, ldid uint16) (*cxlstate.Port, *cxlstate.ConfigSpace, cxlerr.Code) {
	port := h.sw.Port(ppid)
	if port == nil || !port.DeviceType.IsType3() || port.Mld == nil {
		return nil, nil, cxlerr.InvalidInput
	}
	if ldid >= uint16(port.LD) {
		return nil, nil, cxlerr.InvalidInput
	}
	return port, port.Mld.ConfigSpaces[ldid], cxlerr.Success
}

func (h *Handlers) mpcConfig(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.ConfigAccessRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	_, cs, code := h.mldPortAndLD(r.PPID, r.LDID)
	if code != cxlerr.Success {
		return nil, code
	}
	if r.Dir == wire.ConfigWrite {
		c := h.backend.WriteConfig(cs, r.Ext, r.Reg, r.FDBE, r.Data)
		return &wire.ConfigAccessResponse{}, c
	}
	data, c := h.backend.ReadConfig(cs, r.Ext, r.Reg, r.FDBE)
	return &wire.ConfigAccessResponse{Data: data}, c
}

// mpcMaxMemoryLen bounds a single LD CXL.io Memory access.
const mpcMaxMemoryLen = 4096

func (h *Handlers) mpcMemory(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.MemoryAccessRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	if r.Len > mpcMaxMemoryLen {
		return nil, cxlerr.InvalidInput
	}
	port := h.sw.Port(r.PPID)
	if port == nil || port.Mld == nil || port.Mld.Backing == nil {
		return nil, cxlerr.InvalidInput
	}
	if r.LDID >= uint16(port.LD) {
		return nil, cxlerr.InvalidInput
	}
	base, ldSize := port.Mld.LDByteRange(r.LDID)
	// Preserved as-observed: the off-by-one here rejects a legal final
	// byte (offset+len == ld_size should be in range); see DESIGN.md.
	if uint64(r.Offset)+uint64(r.Len) >= ldSize {
		return nil, cxlerr.InvalidInput
	}

	if r.Dir == wire.ConfigWrite {
		if err := port.Mld.Backing.WriteAt(r.Data, base+uint64(r.Offset)); err != nil {
			return nil, cxlerr.InternalError
		}
		return &wire.MemoryAccessResponse{Data: r.Data}, cxlerr.Success
	}
	out := make([]byte, r.Len)
	if err := port.Mld.Backing.ReadAt(out, base+uint64(r.Offset)); err != nil {
		return nil, cxlerr.InternalError
	}
	return &wire.MemoryAccessResponse{Data: out}, cxlerr.Success
}

func (h *Handlers) tunnel(req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.TunnelRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	if r.MCTPType != wire.MCTPTypeCCI {
		return nil, cxlerr.InvalidInput
	}
	port := h.sw.Port(r.PPID)
	if port == nil || !port.DeviceType.IsType3() || port.Mld == nil {
		return nil, cxlerr.InvalidInput
	}

	innerHdr, n, err := wire.DecodeFMHeader(r.InnerMessage)
	if err != nil {
		return nil, cxlerr.InvalidInput
	}
	innerReq, err := wire.DecodeFMPayload(innerHdr.Opcode, wire.SideRequest, r.InnerMessage[n:])
	if err != nil {
		return nil, cxlerr.InvalidInput
	}

	mccFn, ok := h.mccTable()[innerHdr.Opcode]
	var innerResp any
	var innerCode cxlerr.Code
	if !ok {
		innerResp, innerCode = &wire.RawPayload{}, cxlerr.Unsupported
	} else {
		innerResp, innerCode = mccFn(port.Mld, innerReq)
	}

	innerOut := make([]byte, wire.FMHeaderLen+4096)
	hn, _ := wire.EncodeFMHeader(wire.FMHeader{
		Category:   wire.CategoryResponse,
		Tag:        innerHdr.Tag,
		Opcode:     innerHdr.Opcode,
		ReturnCode: uint16(innerCode),
	}, innerOut)
	pn, _ := wire.EncodeFMPayload(innerResp, innerOut[hn:])

	// The outer envelope always returns success even when the inner
	// message carries a failure return code.
	return &wire.TunnelResponse{InnerMessage: innerOut[:hn+pn]}, cxlerr.Success
}
