package fmapi

import (
	"os"
	"path/filepath"

	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
)

const sysfsSlotsPath = "/sys/bus/pci/slots"

// passthroughBackend realizes PSC/MPC config-space accesses against a
// real PCI device's sysfs config file, and PERST assert/deassert
// against the slot power-control knob. Turned into pwrite-style offset
// writes since config access here is register-addressed rather than
// whole-file.
type passthroughBackend struct {
	slotsPath  string
	portSlot   map[uint16]string // ppid -> sysfs slot name (e.g. "0-1")
	portConfig map[uint16]string // ppid -> /sys/.../<bdf>/config path
}

// NewPassthroughBackend returns a ConfigBackend that maps each ppid to
// a real PCI device's sysfs config file and slot power knob.
func NewPassthroughBackend(portSlot, portConfig map[uint16]string) ConfigBackend {
	return &passthroughBackend{
		slotsPath:  sysfsSlotsPath,
		portSlot:   portSlot,
		portConfig: portConfig,
	}
}

// fdbeAccessWidth maps a byte-enable pattern to a PCI access width in
// bytes, or 0 if the pattern isn't one of the three passthrough-legal
// shapes: 0x1 = byte, 0x3 = word, 0xF = long.
func fdbeAccessWidth(fdbe uint8) int {
	switch fdbe {
	case 0x1:
		return 1
	case 0x3:
		return 2
	case 0xF:
		return 4
	default:
		return 0
	}
}

// checkAlignment enforces PCI access-width alignment: word access
// requires reg even; long access requires reg 4-byte aligned. Byte
// access has no constraint.
func checkAlignment(width int, reg uint16) bool {
	switch width {
	case 2:
		return reg&0x1 == 0
	case 4:
		return reg&0x3 == 0
	default:
		return true
	}
}

// ReadConfig checks the byte-enable pattern and alignment, then reads
// from cs (the emulated shadow copy) alone. It does no sysfs I/O,
// since the interface carries no ppid; ReadConfigForPort is the
// variant that reads through the real device's config file.
func (b *passthroughBackend) ReadConfig(cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8) (uint32, cxlerr.Code) {
	width := fdbeAccessWidth(fdbe)
	if width == 0 {
		return 0, cxlerr.InvalidInput
	}
	addr := uint16(ext)<<8 | reg
	if !checkAlignment(width, addr) {
		return 0, cxlerr.InvalidInput
	}
	return cs.ReadDWord(addr, fdbe), cxlerr.Success
}

// ReadConfigForPort is ReadConfig plus a real sysfs read-through when
// ppid has a mapped device; the shadow buffer is refreshed from the
// hardware value so later buffer-only reads (e.g. via ReadConfig) stay
// consistent with the physical device.
func (b *passthroughBackend) ReadConfigForPort(ppid uint16, cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8) (uint32, cxlerr.Code) {
	width := fdbeAccessWidth(fdbe)
	if width == 0 {
		return 0, cxlerr.InvalidInput
	}
	addr := uint16(ext)<<8 | reg
	if !checkAlignment(width, addr) {
		return 0, cxlerr.InvalidInput
	}
	if v, err := b.readRealConfig(ppid, addr, width); err == nil {
		cs.WriteDWord(addr, fdbe, v)
	}
	return cs.ReadDWord(addr, fdbe), cxlerr.Success
}

// WriteConfigForPort is WriteConfig plus a real sysfs write-through.
func (b *passthroughBackend) WriteConfigForPort(ppid uint16, cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8, data uint32) cxlerr.Code {
	width := fdbeAccessWidth(fdbe)
	if width == 0 {
		return cxlerr.InvalidInput
	}
	addr := uint16(ext)<<8 | reg
	if !checkAlignment(width, addr) {
		return cxlerr.InvalidInput
	}
	cs.WriteDWord(addr, fdbe, data)
	b.writeRealConfig(ppid, addr, width, data)
	return cxlerr.Success
}

func (b *passthroughBackend) WriteConfig(cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8, data uint32) cxlerr.Code {
	width := fdbeAccessWidth(fdbe)
	if width == 0 {
		return cxlerr.InvalidInput
	}
	addr := uint16(ext)<<8 | reg
	if !checkAlignment(width, addr) {
		return cxlerr.InvalidInput
	}
	cs.WriteDWord(addr, fdbe, data)
	return cxlerr.Success
}

// readRealConfig and writeRealConfig perform the actual sysfs I/O for
// a given ppid's mapped device, used by handlers that know which port
// they are operating on (the ConfigBackend interface itself is
// ppid-agnostic since it only sees the config-space buffer).
func (b *passthroughBackend) readRealConfig(ppid uint16, addr uint16, width int) (uint32, error) {
	path, ok := b.portConfig[ppid]
	if !ok {
		return 0, os.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	buf := make([]byte, width)
	if _, err := f.ReadAt(buf, int64(addr)); err != nil {
		return 0, err
	}
	var v uint32
	for i, b := range buf {
		v |= uint32(b) << uint(8*i)
	}
	return v, nil
}

func (b *passthroughBackend) writeRealConfig(ppid uint16, addr uint16, width int, data uint32) error {
	path, ok := b.portConfig[ppid]
	if !ok {
		return os.ErrNotExist
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	buf := make([]byte, width)
	for i := range buf {
		buf[i] = byte(data >> uint(8*i))
	}
	_, err = f.WriteAt(buf, int64(addr))
	return err
}

func (b *passthroughBackend) AssertPERST(ppid uint16) cxlerr.Code {
	return b.writeSlotPower(ppid, "0")
}

func (b *passthroughBackend) DeassertPERST(ppid uint16) cxlerr.Code {
	return b.writeSlotPower(ppid, "1")
}

func (b *passthroughBackend) writeSlotPower(ppid uint16, value string) cxlerr.Code {
	slot, ok := b.portSlot[ppid]
	if !ok {
		return cxlerr.InvalidInput
	}
	path := filepath.Join(b.slotsPath, slot, "power")
	if err := os.WriteFile(path, []byte(value), 0o200); err != nil {
		return cxlerr.InternalError
	}
	return cxlerr.Success
}
