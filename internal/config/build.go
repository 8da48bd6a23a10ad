package config

import (
	"fmt"

	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/util"
)

// Build constructs a live Switch from the parsed config document: it
// allocates the port/VCS tables at the configured sizes, loads every
// named device into the catalog, then applies the per-port and per-VCS
// overrides (including attaching a named device where one is given).
func (c *Config) Build() (*cxlstate.Switch, error) {
	sw := cxlstate.New(uint16(c.Switch.NumPorts), uint16(c.Switch.NumVCSs))
	sw.VendorID = uint16(c.Switch.VendorID)
	sw.DeviceID = uint16(c.Switch.DeviceID)
	sw.SubsysVendorID = uint16(c.Switch.SubsysVendorID)
	sw.SubsysDeviceID = uint16(c.Switch.SubsysDeviceID)
	sw.SerialNumber = uint64(c.Switch.SerialNumber)
	sw.MaxMessageSize = uint8(c.Switch.MaxMessageSize)
	sw.ImageDir = c.Emulator.Dir

	names, err := c.loadCatalog(sw)
	if err != nil {
		return nil, err
	}

	for idx, p := range c.Ports {
		if idx < 0 || idx >= len(sw.Ports) {
			return nil, fmt.Errorf("config: port index %d out of range (num_ports=%d)", idx, len(sw.Ports))
		}
		port := &sw.Ports[idx]
		if p.MLW != 0 {
			port.MaxLinkWidth = uint8(p.MLW)
		}
		if p.MLS != 0 {
			port.MaxSpeed = uint8(p.MLS)
		}
		if p.Device != "" {
			tmpl, ok := names[p.Device]
			if !ok {
				return nil, fmt.Errorf("config: port %d references unknown device %q", idx, p.Device)
			}
			if err := cxlstate.Attach(port, tmpl, sw.ImageDir); err != nil {
				return nil, fmt.Errorf("config: port %d: %w", idx, err)
			}
		}
		if p.State != 0 {
			port.State = cxlstate.PortState(p.State)
		}
	}

	for idx, v := range c.VCSs {
		if idx < 0 || idx >= len(sw.VCSs) {
			return nil, fmt.Errorf("config: vcs index %d out of range (num_vcss=%d)", idx, len(sw.VCSs))
		}
		vcs := &sw.VCSs[idx]
		vcs.State = cxlstate.VCSState(v.State)
		vcs.USPID = uint16(v.USPID)
		vcs.Num = uint8(v.NumVppb)
		for vid, vp := range v.Vppbs {
			if vid < 0 || vid >= len(vcs.Vppbs) {
				return nil, fmt.Errorf("config: vcs %d vppb index %d out of range", idx, vid)
			}
			vppb := &vcs.Vppbs[vid]
			vppb.Status = cxlstate.BindStatus(vp.BindStatus)
			vppb.PPID = uint16(vp.PPID)
			vppb.LDID = uint16(vp.LDID)
		}
	}

	return sw, nil
}

// loadCatalog populates sw's device catalog from c.Devices and returns
// a name -> template lookup for the port-override pass above.
func (c *Config) loadCatalog(sw *cxlstate.Switch) (map[string]*cxlstate.DeviceTemplate, error) {
	names := make(map[string]*cxlstate.DeviceTemplate, len(c.Devices))
	for name, d := range c.Devices {
		cfgBytes, err := util.HexToBytes(d.PCICfg)
		if err != nil {
			return nil, fmt.Errorf("config: device %q: pcicfg: %w", name, err)
		}
		tmpl := cxlstate.DeviceTemplate{
			Name:        name,
			RootPort:    d.Port,
			DeviceType:  cxlstate.DeviceTypeType3,
			ConfigSpace: &cxlstate.ConfigSpace{Data: cfgBytes},
		}
		if d.Mld != nil {
			tmpl.DeviceType = cxlstate.DeviceTypeType3Pooled
			tmpl.Mmap = d.Mld.Mmap
			tmpl.Mld = &cxlstate.Mld{
				MemorySize:  uint64(d.Mld.MemorySize),
				Num:         uint8(d.Mld.Num),
				Granularity: cxlstate.Granularity(d.Mld.Granularity),
			}
		}
		id := sw.Catalog.Add(tmpl)
		added, _ := sw.Catalog.Find(id)
		names[name] = added
	}
	return names, nil
}
