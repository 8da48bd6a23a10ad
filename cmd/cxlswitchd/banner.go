package main

import (
	"fmt"

	"github.com/jrlabs-io/cxlswitchd/internal/color"
	"github.com/jrlabs-io/cxlswitchd/internal/cxlstate"
	"github.com/jrlabs-io/cxlswitchd/internal/pci"
)

// printSwitchSummary prints the loaded topology in the same terse,
// colorized style cmd/pcileechgen's check command uses for donor
// device diagnostics.
func printSwitchSummary(sw *cxlstate.Switch) {
	db := pci.LoadPCIDB()
	vendor := db.VendorName(sw.VendorID)
	device := db.DeviceName(sw.VendorID, sw.DeviceID)

	fmt.Printf("\n%s\n", color.Header("Switch identity"))
	fmt.Printf("  VID:DID   %04x:%04x (%s %s)\n", sw.VendorID, sw.DeviceID, vendor, device)
	fmt.Printf("  Serial    0x%016x\n", sw.SerialNumber)
	fmt.Printf("  Ports     %d\n", sw.NumPorts)
	fmt.Printf("  VCSs      %d\n", sw.NumVCSs)
	fmt.Printf("  Devices   %d cataloged\n", sw.Catalog.Len())

	attached := 0
	for i := range sw.Ports {
		if sw.Ports[i].PRSNT {
			attached++
		}
	}
	if attached == 0 {
		fmt.Println(color.Dim("  (no ports attached at startup)"))
		return
	}
	fmt.Printf("\n%s\n", color.Header("Attached ports"))
	for i := range sw.Ports {
		p := &sw.Ports[i]
		if !p.PRSNT {
			continue
		}
		note := ""
		if p.LD > 0 {
			note = color.Dim(fmt.Sprintf(" (MLD, %d LDs)", p.LD))
		}
		fmt.Printf("  %s\n", color.Okf("port %-3d type=%d state=%d%s", p.PPID, p.DeviceType, p.State, note))
	}
}
