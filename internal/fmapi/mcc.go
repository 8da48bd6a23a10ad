package fmapi

import (
	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

// MLD Component Commands are only ever reached through tunnel's inner
// dispatch, so each takes the target Mld directly rather than a ppid.

func (h *Handlers) mccInfo(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	return &wire.MCCInfoResponse{
		MemorySize: mld.MemorySize,
		Num:        mld.Num,
		EPC:        mld.EPC,
		TTR:        mld.TTR,
	}, cxlerr.Success
}

func ldWindow(mld *cxlstate.Mld, start, num uint8) (uint8, uint8, bool) {
	if uint16(start)+uint16(num) > uint16(mld.Num) {
		return 0, 0, false
	}
	return start, num, true
}

func (h *Handlers) mccGetLDAllocations(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.LDWindowRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	start, num, valid := ldWindow(mld, r.Start, r.Num)
	if !valid {
		return nil, cxlerr.InvalidInput
	}
	resp := &wire.LDAllocationsResponse{Start: start}
	for i := uint8(0); i < num; i++ {
		resp.Rng1 = append(resp.Rng1, mld.Rng1[start+i])
		resp.Rng2 = append(resp.Rng2, mld.Rng2[start+i])
	}
	return resp, cxlerr.Success
}

func (h *Handlers) mccSetLDAllocations(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.SetLDAllocationsRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	start, num, valid := ldWindow(mld, r.Start, uint8(len(r.Rng1)))
	if !valid {
		return nil, cxlerr.InvalidInput
	}
	for i := uint8(0); i < num; i++ {
		mld.Rng1[start+i] = r.Rng1[i]
		mld.Rng2[start+i] = r.Rng2[i]
	}
	return h.mccGetLDAllocations(mld, &wire.LDWindowRequest{Start: start, Num: num})
}

func (h *Handlers) mccGetQoSControl(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	q := mld.QoS
	return &wire.QoSControl{
		EgressModeratePercent: q.EgressModeratePercent,
		EgressSeverePercent:   q.EgressSeverePercent,
		SampleInterval:        q.SampleInterval,
		ReqCmpBasis:           q.ReqCmpBasis,
		CompletionInterval:    q.CompletionInterval,
	}, cxlerr.Success
}

func (h *Handlers) mccSetQoSControl(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.QoSControl)
	if !ok {
		return nil, cxlerr.InternalError
	}
	mld.QoS = cxlstate.QoSControl{
		EgressModeratePercent: r.EgressModeratePercent,
		EgressSeverePercent:   r.EgressSeverePercent,
		SampleInterval:        r.SampleInterval,
		ReqCmpBasis:           r.ReqCmpBasis,
		CompletionInterval:    r.CompletionInterval,
	}
	return h.mccGetQoSControl(mld, req)
}

func (h *Handlers) mccGetQoSStatus(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	return &wire.QoSStatusResponse{BPAvgPercent: mld.BPAvgPercent}, cxlerr.Success
}

func qosVector(values *[cxlstate.MaxLD]uint8, mld *cxlstate.Mld, start, num uint8) (*wire.QoSVectorResponse, bool) {
	s, n, valid := ldWindow(mld, start, num)
	if !valid {
		return nil, false
	}
	resp := &wire.QoSVectorResponse{Start: s}
	for i := uint8(0); i < n; i++ {
		resp.Values = append(resp.Values, values[s+i])
	}
	return resp, true
}

func (h *Handlers) mccGetQoSAllocatedBW(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.LDWindowRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	resp, valid := qosVector(&mld.AllocBW, mld, r.Start, r.Num)
	if !valid {
		return nil, cxlerr.InvalidInput
	}
	return resp, cxlerr.Success
}

func (h *Handlers) mccSetQoSAllocatedBW(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.QoSVectorSetRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	if uint16(r.Start)+uint16(len(r.Values)) > uint16(mld.Num) {
		return nil, cxlerr.InvalidInput
	}
	for i, v := range r.Values {
		if v > 100 {
			return nil, cxlerr.InvalidInput
		}
		mld.AllocBW[r.Start+uint8(i)] = v
	}
	return h.mccGetQoSAllocatedBW(mld, &wire.LDWindowRequest{Start: r.Start, Num: uint8(len(r.Values))})
}

func (h *Handlers) mccGetQoSBWLimit(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.LDWindowRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	resp, valid := qosVector(&mld.BWLimit, mld, r.Start, r.Num)
	if !valid {
		return nil, cxlerr.InvalidInput
	}
	return resp, cxlerr.Success
}

func (h *Handlers) mccSetQoSBWLimit(mld *cxlstate.Mld, req any) (any, cxlerr.Code) {
	r, ok := req.(*wire.QoSVectorSetRequest)
	if !ok {
		return nil, cxlerr.InternalError
	}
	if uint16(r.Start)+uint16(len(r.Values)) > uint16(mld.Num) {
		return nil, cxlerr.InvalidInput
	}
	for i, v := range r.Values {
		if v > 100 {
			return nil, cxlerr.InvalidInput
		}
		mld.BWLimit[r.Start+uint8(i)] = v
	}
	return h.mccGetQoSBWLimit(mld, &wire.LDWindowRequest{Start: r.Start, Num: uint8(len(r.Values))})
}
