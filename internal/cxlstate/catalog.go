package cxlstate

import "fmt"

// DeviceTemplate is a named catalog entry describing a device that
// can be attached to a port. Catalog entries are immutable after
// load; Attach copies their fields into the live port.
type DeviceTemplate struct {
	ID       uint16
	Name     string
	RootPort bool // upstream (true) vs. endpoint (false)

	DeviceType     DeviceType
	CXLVersion     uint8
	CXLVersionMask uint8
	MaxLinkWidth   uint8
	MaxSpeed       uint8

	ConfigSpace *ConfigSpace // owned, cloned on attach

	// Mld is non-nil for Type-3 Pooled templates.
	Mld *Mld
	// Mmap requests that Attach allocate a memory-mapped backing file
	// for the attached Mld's payload memory.
	Mmap bool
}

// Catalog is an ordered, lookup-by-id-or-name collection of device
// templates, mirroring the board registry's Find/All/ListNames shape.
type Catalog struct {
	templates []DeviceTemplate
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Add appends a template to the catalog, assigning it the next id.
func (c *Catalog) Add(t DeviceTemplate) uint16 {
	t.ID = uint16(len(c.templates))
	c.templates = append(c.templates, t)
	return t.ID
}

// Find returns the template with the given id.
func (c *Catalog) Find(id uint16) (*DeviceTemplate, error) {
	if int(id) >= len(c.templates) {
		return nil, fmt.Errorf("cxlstate: unknown device id %d, catalog holds %d entries", id, len(c.templates))
	}
	return &c.templates[id], nil
}

// FindByName returns the template with the given name, case-sensitive.
func (c *Catalog) FindByName(name string) (*DeviceTemplate, error) {
	for i := range c.templates {
		if c.templates[i].Name == name {
			return &c.templates[i], nil
		}
	}
	return nil, fmt.Errorf("cxlstate: unknown device name %q", name)
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.templates) }

// All returns the full ordered template list.
func (c *Catalog) All() []DeviceTemplate {
	return c.templates
}
