package cxlstate

import "fmt"

// Attach copies tmpl's device attributes onto port, negotiates link
// parameters, clones config-space buffers, and — if the template
// carries an Mld — allocates the port's Mld state and (when requested)
// its memory-mapped backing file. imageDir names the directory holding
// backing files; it may be empty if tmpl never requests mapping.
//
// On any failure, partial state is rolled back before returning, so a
// failed Attach leaves the port exactly as it was found.
func Attach(port *Port, tmpl *DeviceTemplate, imageDir string) error {
	before := *port

	port.DeviceType = tmpl.DeviceType
	port.CXLVersion = tmpl.CXLVersion
	port.CXLVersionMask = tmpl.CXLVersionMask

	if tmpl.RootPort {
		port.State = PortUpstream
	} else {
		port.State = PortDownstream
	}

	port.NegotiatedLinkWidth = min8(tmpl.MaxLinkWidth, port.MaxLinkWidth) << 4
	port.MaxLinkWidth = tmpl.MaxLinkWidth
	port.CurrentSpeed = min8(tmpl.MaxSpeed, port.MaxSpeed)
	port.MaxSpeed = tmpl.MaxSpeed

	port.PRSNT = true
	port.PERST = false
	port.LTSSM = LTSSML0
	port.FirstLane = 0

	port.ConfigSpace = tmpl.ConfigSpace.Clone()

	if tmpl.Mld != nil {
		mld := tmpl.Mld.clone()
		mld.ConfigSpaces = make([]*ConfigSpace, mld.Num)
		for i := range mld.ConfigSpaces {
			mld.ConfigSpaces[i] = tmpl.ConfigSpace.Clone()
		}

		if tmpl.Mmap {
			if imageDir == "" {
				*port = before
				return fmt.Errorf("cxlstate: attach port %d: mmap requested but no image directory configured", port.PPID)
			}
			backing, err := OpenBackingFile(imageDir, port.PPID, mld.MemorySize)
			if err != nil {
				*port = before
				return err
			}
			mld.Backing = backing
		}

		port.Mld = mld
		port.LD = mld.Num
	}

	return nil
}

// Detach releases a port's attached device, unmapping and closing any
// backing file, freeing per-LD config spaces and the Mld itself, and
// resetting the port to its disabled, disconnected zero state.
func Detach(port *Port) error {
	if port.Mld != nil && port.Mld.Backing != nil {
		if err := port.Mld.Backing.Close(); err != nil {
			return fmt.Errorf("cxlstate: detach port %d: %w", port.PPID, err)
		}
	}
	port.reset()
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

func min8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
