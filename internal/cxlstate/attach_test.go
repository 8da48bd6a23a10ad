package cxlstate

import (
	"os"
	"testing"
)

func sldTemplate() DeviceTemplate {
	return DeviceTemplate{
		Name:         "type3-sld",
		RootPort:     false,
		DeviceType:   DeviceTypeType3,
		CXLVersion:   3,
		MaxLinkWidth: 0x8,
		MaxSpeed:     4,
		ConfigSpace:  NewConfigSpace(ConfigSpaceSize),
	}
}

func TestAttachSimpleDevice(t *testing.T) {
	s := New(1, 0)
	port := &s.Ports[0]
	port.MaxLinkWidth = 0x8
	port.MaxSpeed = 4
	tmpl := sldTemplate()

	if err := Attach(port, &tmpl, ""); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if port.State != PortDownstream {
		t.Fatalf("state = %v, want downstream", port.State)
	}
	if !port.PRSNT || port.PERST {
		t.Fatalf("prsnt=%v perst=%v, want prsnt=true perst=false", port.PRSNT, port.PERST)
	}
	if port.LTSSM != LTSSML0 {
		t.Fatalf("ltssm = %v, want L0", port.LTSSM)
	}
	if port.ConfigSpace == nil || len(port.ConfigSpace.Data) != ConfigSpaceSize {
		t.Fatal("expected cloned config space")
	}
	if port.LD != 0 || port.Mld != nil {
		t.Fatal("non-MLD template must not allocate an Mld")
	}
}

func TestAttachRootPort(t *testing.T) {
	s := New(1, 0)
	port := &s.Ports[0]
	tmpl := sldTemplate()
	tmpl.RootPort = true

	if err := Attach(port, &tmpl, ""); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if port.State != PortUpstream {
		t.Fatalf("state = %v, want upstream", port.State)
	}
}

func TestAttachMldWithBackingFile(t *testing.T) {
	dir := t.TempDir()
	s := New(1, 0)
	port := &s.Ports[0]
	tmpl := sldTemplate()
	tmpl.DeviceType = DeviceTypeType3Pooled
	tmpl.Mmap = true
	tmpl.Mld = &Mld{
		MemorySize:  1 << 20,
		Num:         4,
		Granularity: Granularity256MiB,
	}

	if err := Attach(port, &tmpl, dir); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if port.LD != 4 {
		t.Fatalf("port.LD = %d, want 4", port.LD)
	}
	if port.Mld == nil || port.Mld.Backing == nil {
		t.Fatal("expected allocated Mld with backing file")
	}
	if len(port.Mld.ConfigSpaces) != 4 {
		t.Fatalf("got %d per-LD config spaces, want 4", len(port.Mld.ConfigSpaces))
	}
	if _, err := os.Stat(port.Mld.Backing.Path); err != nil {
		t.Fatalf("backing file not created: %v", err)
	}

	if err := port.Mld.Backing.WriteAt([]byte{0xde, 0xad}, 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := make([]byte, 2)
	if err := port.Mld.Backing.ReadAt(got, 0); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got[0] != 0xde || got[1] != 0xad {
		t.Fatalf("read back %x, want de ad", got)
	}

	if err := Detach(port); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if port.Mld != nil || port.State != PortDisabled || port.PRSNT {
		t.Fatalf("port not reset after detach: %+v", port)
	}
}

func TestAttachMldWithoutImageDirFails(t *testing.T) {
	s := New(1, 0)
	port := &s.Ports[0]
	tmpl := sldTemplate()
	tmpl.DeviceType = DeviceTypeType3Pooled
	tmpl.Mmap = true
	tmpl.Mld = &Mld{MemorySize: 4096, Num: 1}

	before := *port
	if err := Attach(port, &tmpl, ""); err == nil {
		t.Fatal("expected error attaching mmap'd Mld with no image directory")
	}
	if port.State != before.State || port.PRSNT != before.PRSNT {
		t.Fatal("port mutated despite rollback on failure")
	}
}

func TestDetachResetsBareDevice(t *testing.T) {
	s := New(1, 0)
	port := &s.Ports[0]
	tmpl := sldTemplate()
	if err := Attach(port, &tmpl, ""); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := Detach(port); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if port.ConfigSpace != nil || port.PRSNT {
		t.Fatalf("port not fully reset: %+v", port)
	}
}
