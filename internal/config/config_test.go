package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
emulator:
  tcp_port: 2500
  tcp_address: "0.0.0.0"
  dir: "/var/lib/cxlswitchd/images"
  verbosity: "0x3"
  mode: "emulated"
switch:
  vid: "0xb1b2"
  did: "0xc1c2"
  svid: "0xd1d2"
  ssid: "0xe1e2"
  sn: "0xa1a2a3a4a5a6a7a8"
  max_msg: "10"
  num_ports: "4"
  num_vcss: "2"
devices:
  type3-mem:
    did: "0x1"
    port: false
    pcicfg: ""
ports:
  0:
    device: "type3-mem"
    mlw: "0x8"
    mls: "4"
    state: "1"
vcss:
  0:
    state: "1"
    uspid: "0"
    num_vppb: "2"
    vppbs:
      0:
        bind_status: "0"
        ppid: "0"
        ldid: "0xffff"
`

func TestLoadParsesAllFiveSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cxlswitchd.yaml")
	if err := writeFile(path, sampleYAML); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Emulator.TCPPort != 2500 {
		t.Fatalf("tcp_port = %d, want 2500", cfg.Emulator.TCPPort)
	}
	if cfg.Switch.VendorID != 0xb1b2 || cfg.Switch.SerialNumber != 0xa1a2a3a4a5a6a7a8 {
		t.Fatalf("switch identity mismatch: %+v", cfg.Switch)
	}
	dev, ok := cfg.Devices["type3-mem"]
	if !ok {
		t.Fatal("expected device \"type3-mem\"")
	}
	if dev.DeviceID != 1 {
		t.Fatalf("device did = %d, want 1", dev.DeviceID)
	}
	port, ok := cfg.Ports[0]
	if !ok || port.Device != "type3-mem" {
		t.Fatalf("port[0] = %+v", port)
	}
	vcs, ok := cfg.VCSs[0]
	if !ok || vcs.NumVppb != 2 {
		t.Fatalf("vcss[0] = %+v", vcs)
	}
	vppb, ok := vcs.Vppbs[0]
	if !ok || vppb.LDID != 0xffff {
		t.Fatalf("vcss[0].vppbs[0] = %+v", vppb)
	}
}

func TestHexUintRejectsNonNumeric(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := writeFile(path, "switch:\n  vid: \"not-a-number\"\n"); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error parsing non-numeric HexUint")
	}
}

func TestVerbosityBits(t *testing.T) {
	v := HexUint(VerbosityCallstack | VerbosityErrors)
	if !v.Has(VerbosityCallstack) || !v.Has(VerbosityErrors) {
		t.Fatal("expected both bits set")
	}
	if v.Has(VerbositySteps) {
		t.Fatal("did not expect steps bit set")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
