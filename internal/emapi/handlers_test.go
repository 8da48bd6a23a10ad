package emapi

import (
	"testing"

	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/wire"
)

func newTestSwitchWithCatalog(names ...string) *cxlstate.Switch {
	sw := cxlstate.New(4, 1)
	for _, n := range names {
		sw.Catalog.Add(cxlstate.DeviceTemplate{
			Name:        n,
			DeviceType:  cxlstate.DeviceTypeType3,
			ConfigSpace: cxlstate.NewConfigSpace(256),
		})
	}
	return sw
}

func TestListDevicesEmptyCatalog(t *testing.T) {
	// With an empty catalog, start_num (0) >= num_devices (0), so this
	// rejects with InvalidInput rather than returning an empty list.
	sw := newTestSwitchWithCatalog()
	h := New(sw)

	_, code := h.listDevices(wire.EMHeader{}, &wire.ListDevicesRequest{})
	if code != cxlerr.InvalidInput {
		t.Fatalf("code = %v, want InvalidInput", code)
	}
}

func TestListDevicesTruncationQuirk(t *testing.T) {
	// 5 devices; requesting num=3 starting at 2 means 2+3=5 which is
	// ">=" num_devices, so it truncates to num_devices-start_num == 3.
	// Requesting num=3 starting at 3 (3+3=6 >= 5) truncates to 2.
	sw := newTestSwitchWithCatalog("a", "b", "c", "d", "e")
	h := New(sw)

	resp, code := h.listDevices(wire.EMHeader{}, &wire.ListDevicesRequest{StartNum: 3, NumDevices: 3})
	if code != cxlerr.Success {
		t.Fatalf("code = %v, want Success", code)
	}
	lr := resp.(*wire.ListDevicesResponse)
	if lr.Total != 5 {
		t.Fatalf("total = %d, want 5", lr.Total)
	}
	if len(lr.Devices) != 2 {
		t.Fatalf("got %d devices, want 2 (truncated), devices=%+v", len(lr.Devices), lr.Devices)
	}
	if lr.Devices[0].Name != "d" || lr.Devices[1].Name != "e" {
		t.Fatalf("unexpected devices %+v", lr.Devices)
	}
}

func TestListDevicesZeroMeansAllRemaining(t *testing.T) {
	sw := newTestSwitchWithCatalog("a", "b", "c")
	h := New(sw)

	resp, code := h.listDevices(wire.EMHeader{}, &wire.ListDevicesRequest{StartNum: 1, NumDevices: 0})
	if code != cxlerr.Success {
		t.Fatalf("code = %v, want Success", code)
	}
	lr := resp.(*wire.ListDevicesResponse)
	if len(lr.Devices) != 2 || lr.Devices[0].Name != "b" || lr.Devices[1].Name != "c" {
		t.Fatalf("got %+v, want [b c]", lr.Devices)
	}
}

func TestListDevicesStartOutOfRange(t *testing.T) {
	sw := newTestSwitchWithCatalog("a")
	h := New(sw)

	_, code := h.listDevices(wire.EMHeader{}, &wire.ListDevicesRequest{StartNum: 1, NumDevices: 0})
	if code != cxlerr.InvalidInput {
		t.Fatalf("code = %v, want InvalidInput", code)
	}
}

func TestConnectByHeaderArgs(t *testing.T) {
	sw := newTestSwitchWithCatalog("widget")
	h := New(sw)

	hdr := wire.EMHeader{ArgA: 2, ArgB: 0} // ppid=2, devid=0
	resp, code := h.connect(hdr, &wire.ConnectRequest{})
	if code != cxlerr.Success {
		t.Fatalf("code = %v, want Success", code)
	}
	if _, ok := resp.(*wire.ConnectResponse); !ok {
		t.Fatalf("got %T, want *ConnectResponse", resp)
	}
	port := sw.Port(2)
	if !port.PRSNT || port.DeviceType != cxlstate.DeviceTypeType3 {
		t.Fatalf("port not attached: %+v", port)
	}
}

func TestConnectRejectsOccupiedSlot(t *testing.T) {
	sw := newTestSwitchWithCatalog("widget")
	h := New(sw)
	hdr := wire.EMHeader{ArgA: 0, ArgB: 0}
	if _, code := h.connect(hdr, &wire.ConnectRequest{}); code != cxlerr.Success {
		t.Fatalf("first connect: code = %v", code)
	}
	if _, code := h.connect(hdr, &wire.ConnectRequest{}); code != cxlerr.InvalidInput {
		t.Fatalf("second connect code = %v, want InvalidInput (slot occupied)", code)
	}
}

func TestConnectUnknownDevice(t *testing.T) {
	sw := newTestSwitchWithCatalog()
	h := New(sw)
	hdr := wire.EMHeader{ArgA: 0, ArgB: 9}
	if _, code := h.connect(hdr, &wire.ConnectRequest{}); code != cxlerr.InvalidInput {
		t.Fatalf("code = %v, want InvalidInput", code)
	}
}

func TestDisconnectSingleAndAll(t *testing.T) {
	sw := newTestSwitchWithCatalog("widget")
	h := New(sw)

	for _, ppid := range []uint8{0, 1} {
		if _, code := h.connect(wire.EMHeader{ArgA: ppid, ArgB: 0}, &wire.ConnectRequest{}); code != cxlerr.Success {
			t.Fatalf("connect ppid %d: code = %v", ppid, code)
		}
	}

	if _, code := h.disconnect(wire.EMHeader{ArgA: 0, ArgB: 0}, &wire.DisconnectRequest{}); code != cxlerr.Success {
		t.Fatalf("disconnect single: code = %v", code)
	}
	if sw.Port(0).PRSNT {
		t.Fatal("port 0 still present after disconnect")
	}
	if !sw.Port(1).PRSNT {
		t.Fatal("port 1 should still be present")
	}

	if _, code := h.disconnect(wire.EMHeader{ArgA: 0, ArgB: 1}, &wire.DisconnectRequest{}); code != cxlerr.Success {
		t.Fatalf("disconnect all: code = %v", code)
	}
	if sw.Port(1).PRSNT {
		t.Fatal("port 1 still present after disconnect-all")
	}
}

func TestEventIsNoOp(t *testing.T) {
	sw := newTestSwitchWithCatalog()
	h := New(sw)
	resp, code := h.event(wire.EMHeader{}, &wire.EventPayload{})
	if code != cxlerr.Success {
		t.Fatalf("code = %v, want Success", code)
	}
	if _, ok := resp.(*wire.EventPayload); !ok {
		t.Fatalf("got %T, want *EventPayload", resp)
	}
}
