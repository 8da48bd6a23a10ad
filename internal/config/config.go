// Package config loads the cxlswitchd YAML configuration file: the
// emulator's network/logging knobs, the switch's identity and sizing,
// the device-template catalog, and per-port/per-VCS overrides applied
// at startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level, five-section configuration document.
type Config struct {
	Emulator Emulator          `yaml:"emulator"`
	Switch   Switch            `yaml:"switch"`
	Devices  map[string]Device `yaml:"devices"`
	Ports    map[int]Port      `yaml:"ports"`
	VCSs     map[int]VCS       `yaml:"vcss"`
}

// Emulator holds process-wide knobs unrelated to switch topology.
type Emulator struct {
	TCPPort    int       `yaml:"tcp_port"`
	TCPAddress string    `yaml:"tcp_address"`
	Dir        string    `yaml:"dir"` // image directory for memory-backed devices
	Verbosity  HexUint   `yaml:"verbosity"`
	Mode       string    `yaml:"mode"` // "emulated" (default) or "passthrough"
}

// Switch holds the switch's identity and topology sizing.
type Switch struct {
	VendorID       HexUint `yaml:"vid"`
	DeviceID       HexUint `yaml:"did"`
	SubsysVendorID HexUint `yaml:"svid"`
	SubsysDeviceID HexUint `yaml:"ssid"`
	SerialNumber   HexUint `yaml:"sn"`
	MaxMessageSize HexUint `yaml:"max_msg"`
	NumPorts       HexUint `yaml:"num_ports"`
	NumVCSs        HexUint `yaml:"num_vcss"`
}

// Device is a named catalog template entry.
type Device struct {
	DeviceID HexUint    `yaml:"did"`
	Port     bool       `yaml:"port"` // root-port (upstream) vs. endpoint
	PCICfg   string      `yaml:"pcicfg"` // hex-encoded config-space image
	Mld      *DeviceMld `yaml:"mld,omitempty"`
}

// DeviceMld is the optional MLD prototype carried by a device template.
type DeviceMld struct {
	MemorySize  HexUint `yaml:"memory_size"`
	Num         HexUint `yaml:"num"`
	Granularity HexUint `yaml:"granularity"` // 0=256MiB 1=512MiB 2=1GiB
	Mmap        bool    `yaml:"mmap"`
}

// Port is a per-index override applied to a port at startup.
type Port struct {
	Device string  `yaml:"device"` // catalog device name to attach, or empty
	MLW    HexUint `yaml:"mlw"`
	MLS    HexUint `yaml:"mls"`
	State  HexUint `yaml:"state"`

	// Slot and ConfigPath map this port to a real PCI device's sysfs
	// slot power knob and config file, used only when emulator.mode is
	// "passthrough".
	Slot       string `yaml:"slot"`
	ConfigPath string `yaml:"config_path"`
}

// VCS is a per-index override applied to a VCS at startup.
type VCS struct {
	State   HexUint          `yaml:"state"`
	USPID   HexUint          `yaml:"uspid"`
	NumVppb HexUint          `yaml:"num_vppb"`
	Vppbs   map[int]VppbSpec `yaml:"vppbs"`
}

// VppbSpec is a per-index vPPB override nested under a VCS.
type VppbSpec struct {
	BindStatus HexUint `yaml:"bind_status"`
	PPID       HexUint `yaml:"ppid"`
	LDID       HexUint `yaml:"ldid"`
}

// Load reads and parses the YAML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
