// Package fmapi implements the FM API handler families: Information &
// Status, Physical Switch Configuration, Virtual Switch Configuration,
// MLD Port Commands and MLD Component Commands. Handlers run with the
// switch lock already held by the caller (the dispatcher) and return a
// response payload plus a cxlerr.Code rather than a Go error — a
// rejected request is still a well-formed response.
package fmapi

import (
	"github.com/jrlabs-io/cxlswitchd/internal/cxlerr"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
)

// ConfigBackend abstracts the two ways PSC/MPC config-space accesses
// can be realized: against an in-memory buffer (pure emulation) or
// against a real PCI device's config space plus sysfs power control
// (QEMU passthrough). The duplicate fmapi_psc_handler.c/state.c source
// pair this was grounded on exists specifically to encode this fork;
// here it is unified behind one interface picked once at construction.
type ConfigBackend interface {
	ReadConfig(cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8) (uint32, cxlerr.Code)
	WriteConfig(cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8, data uint32) cxlerr.Code

	// AssertPERST and DeassertPERST additionally toggle any out-of-band
	// power control the backend owns (sysfs slot power in passthrough
	// mode; a no-op in pure emulation).
	AssertPERST(ppid uint16) cxlerr.Code
	DeassertPERST(ppid uint16) cxlerr.Code
}

// emulatedBackend is the pure in-memory ConfigBackend: every access
// reads or writes the port's own ConfigSpace buffer, honoring fdbe.
type emulatedBackend struct{}

// NewEmulatedBackend returns the default, hardware-free ConfigBackend.
func NewEmulatedBackend() ConfigBackend { return emulatedBackend{} }

func configAddr(ext uint8, reg uint16) uint16 {
	return uint16(ext)<<8 | reg
}

func (emulatedBackend) ReadConfig(cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8) (uint32, cxlerr.Code) {
	if cs == nil {
		return 0, cxlerr.InvalidHandle
	}
	return cs.ReadDWord(configAddr(ext, reg), fdbe), cxlerr.Success
}

func (emulatedBackend) WriteConfig(cs *cxlstate.ConfigSpace, ext uint8, reg uint16, fdbe uint8, data uint32) cxlerr.Code {
	if cs == nil {
		return cxlerr.InvalidHandle
	}
	cs.WriteDWord(configAddr(ext, reg), fdbe, data)
	return cxlerr.Success
}

func (emulatedBackend) AssertPERST(ppid uint16) cxlerr.Code   { return cxlerr.Success }
func (emulatedBackend) DeassertPERST(ppid uint16) cxlerr.Code { return cxlerr.Success }
