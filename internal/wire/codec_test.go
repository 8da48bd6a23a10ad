package wire

import (
	"bytes"
	"testing"
)

func TestFMHeaderLiteral(t *testing.T) {
	want := []byte{0x00, 0x5A, 0x00, 0x51, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

	h := FMHeader{
		Category: CategoryRequest,
		Tag:      0x5A,
		Opcode:   OpPSCIdentifySwitch,
	}
	out := make([]byte, FMHeaderLen)
	n, err := EncodeFMHeader(h, out)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if n != FMHeaderLen {
		t.Fatalf("encode wrote %d bytes, want %d", n, FMHeaderLen)
	}
	if !bytes.Equal(out, want) {
		t.Fatalf("encode = % x, want % x", out, want)
	}

	got, n, err := DecodeFMHeader(want)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != FMHeaderLen {
		t.Fatalf("decode consumed %d bytes, want %d", n, FMHeaderLen)
	}
	if got.Category != CategoryRequest || got.Tag != 0x5A || got.Opcode != OpPSCIdentifySwitch ||
		got.ReturnCode != 0 || got.Length != 0 || got.BackgroundOp {
		t.Fatalf("decode = %+v", got)
	}
}

func TestFMHeaderRoundTrip(t *testing.T) {
	cases := []FMHeader{
		{Category: CategoryRequest, Tag: 1, Opcode: OpISCIdentify},
		{Category: CategoryResponse, Tag: 0xFF, Opcode: OpVSCBind, ReturnCode: 1, BackgroundOp: true, Length: 42},
		{Category: CategoryResponse, Tag: 7, Opcode: OpMPCTunnel, Length: fmLengthMask},
	}
	for _, h := range cases {
		buf := make([]byte, FMHeaderLen)
		if _, err := EncodeFMHeader(h, buf); err != nil {
			t.Fatalf("encode %+v: %v", h, err)
		}
		got, _, err := DecodeFMHeader(buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != h {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
		}
	}
}

func TestEMHeaderRoundTrip(t *testing.T) {
	h := EMHeader{
		Type:       EmTypeResponse,
		Tag:        3,
		Opcode:     OpEMListDevices,
		ReturnCode: 0,
		ArgA:       1,
		ArgB:       2,
		Length:     9,
		Count:      4,
	}
	buf := make([]byte, EMHeaderLen)
	n, err := EncodeEMHeader(h, buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if n != EMHeaderLen {
		t.Fatalf("wrote %d bytes, want %d", n, EMHeaderLen)
	}
	got, n, err := DecodeEMHeader(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != EMHeaderLen || got != h {
		t.Fatalf("round trip mismatch: got %+v (n=%d), want %+v", got, n, h)
	}
}

func TestIdentifyResponseLiteral(t *testing.T) {
	resp := IdentifyResponse{
		VendorID:       0xb1b2,
		DeviceID:       0xc1c2,
		SubsysVendorID: 0xd1d2,
		SubsysDeviceID: 0xe1e2,
		SerialNumber:   0xa1a2a3a4a5a6a7a8,
		MaxMessageSize: 10,
	}
	buf := make([]byte, 32)
	n, err := resp.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		0xb2, 0xb1, 0xc2, 0xc1, 0xd2, 0xd1, 0xe2, 0xe1,
		0xa8, 0xa7, 0xa6, 0xa5, 0xa4, 0xa3, 0xa2, 0xa1,
		0x0a,
	}
	if !bytes.Equal(buf[:len(want)], want) {
		t.Fatalf("encode = % x, want prefix % x", buf[:n], want)
	}

	var got IdentifyResponse
	if _, err := got.Decode(buf[:n]); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.VendorID != resp.VendorID || got.DeviceID != resp.DeviceID ||
		got.SubsysVendorID != resp.SubsysVendorID || got.SubsysDeviceID != resp.SubsysDeviceID ||
		got.SerialNumber != resp.SerialNumber || got.MaxMessageSize != resp.MaxMessageSize {
		t.Fatalf("decode = %+v, want %+v", got, resp)
	}
}

func TestBindRoundTrip(t *testing.T) {
	req := BindRequest{VCSID: 0, VppbID: 0, PPID: 3, LDID: LDIDNone}
	buf := make([]byte, 32)
	n, err := req.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got BindRequest
	if _, err := got.Decode(buf[:n]); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != req {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}
}

func TestVCSInfoResponseRoundTrip(t *testing.T) {
	resp := VCSInfoResponse{
		VCSs: []VCSBlock{
			{
				VCSID: 0,
				State: VCSEnabled,
				USPID: 1,
				Num:   2,
				Vppbs: []VppbBlock{
					{VppbID: 0, BindStatus: BindBoundPort, PPID: 3, LDID: 0},
					{VppbID: 1, BindStatus: BindUnbound},
				},
			},
		},
	}
	buf := make([]byte, 256)
	n, err := resp.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got VCSInfoResponse
	if _, err := got.Decode(buf[:n]); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.VCSs) != 1 || len(got.VCSs[0].Vppbs) != 2 {
		t.Fatalf("decode = %+v", got)
	}
	if got.VCSs[0].Vppbs[0].BindStatus != BindBoundPort || got.VCSs[0].Vppbs[0].PPID != 3 {
		t.Fatalf("vppb[0] mismatch: %+v", got.VCSs[0].Vppbs[0])
	}
}

func TestConfigAccessRoundTrip(t *testing.T) {
	req := ConfigAccessRequest{PPID: 1, Ext: 0, Reg: 0x10, FDBE: 0xF, Dir: ConfigWrite, Data: 0xefbeadde}
	buf := make([]byte, 32)
	n, err := req.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got ConfigAccessRequest
	if _, err := got.Decode(buf[:n]); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != req {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}
}

func TestTunnelRoundTrip(t *testing.T) {
	inner := MCCInfoResponse{MemorySize: 1 << 30, Num: 4, EPC: true}
	innerBuf := make([]byte, 32)
	innerN, err := inner.Encode(innerBuf)
	if err != nil {
		t.Fatalf("encode inner: %v", err)
	}

	req := TunnelRequest{PPID: 2, MCTPType: MCTPTypeCCI, InnerMessage: innerBuf[:innerN]}
	buf := make([]byte, 64)
	n, err := req.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got TunnelRequest
	if _, err := got.Decode(buf[:n]); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PPID != req.PPID || got.MCTPType != req.MCTPType || !bytes.Equal(got.InnerMessage, req.InnerMessage) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}

	var innerGot MCCInfoResponse
	if _, err := innerGot.Decode(got.InnerMessage); err != nil {
		t.Fatalf("decode inner: %v", err)
	}
	if innerGot != inner {
		t.Fatalf("inner round trip mismatch: got %+v, want %+v", innerGot, inner)
	}
}

func TestListDevicesEmptyCatalog(t *testing.T) {
	resp := ListDevicesResponse{Total: 0, Devices: nil}
	buf := make([]byte, 16)
	n, err := resp.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got ListDevicesResponse
	if _, err := got.Decode(buf[:n]); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 0 || len(got.Devices) != 0 {
		t.Fatalf("decode = %+v", got)
	}
}

func TestListDevicesRecordRoundTrip(t *testing.T) {
	resp := ListDevicesResponse{
		Total: 2,
		Devices: []DeviceRecord{
			{ID: 0, Name: "type3-mem-64g"},
			{ID: 1, Name: "type3-mld-4ld"},
		},
	}
	buf := make([]byte, 256)
	n, err := resp.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var got ListDevicesResponse
	if _, err := got.Decode(buf[:n]); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != resp.Total || len(got.Devices) != 2 ||
		got.Devices[0].Name != "type3-mem-64g" || got.Devices[1].ID != 1 {
		t.Fatalf("decode = %+v", got)
	}
}

func TestDecodeFMPayloadDispatch(t *testing.T) {
	req := BindRequest{VCSID: 1, VppbID: 2, PPID: 3, LDID: LDIDNone}
	buf := make([]byte, 32)
	n, err := req.Encode(buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	v, err := DecodeFMPayload(OpVSCBind, SideRequest, buf[:n])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, ok := v.(*BindRequest)
	if !ok {
		t.Fatalf("decoded type = %T, want *BindRequest", v)
	}
	if *got != req {
		t.Fatalf("decoded = %+v, want %+v", *got, req)
	}
}

func TestDecodeFMPayloadUnknownOpcode(t *testing.T) {
	v, err := DecodeFMPayload(0xFFFF, SideRequest, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, ok := v.(*RawPayload)
	if !ok {
		t.Fatalf("decoded type = %T, want *RawPayload", v)
	}
	if !bytes.Equal(raw.Bytes, []byte{1, 2, 3}) {
		t.Fatalf("raw bytes = % x", raw.Bytes)
	}
}

func TestTruncatedHeaderRejected(t *testing.T) {
	if _, _, err := DecodeFMHeader(make([]byte, FMHeaderLen-1)); err == nil {
		t.Fatal("expected error decoding truncated FM header")
	}
	if _, _, err := DecodeEMHeader(make([]byte, EMHeaderLen-1)); err == nil {
		t.Fatal("expected error decoding truncated EM header")
	}
}
