package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cxlswitchd",
	Short: "CXL 2.0 switch management-plane emulator",
	Long: `cxlswitchd emulates a Compute Express Link (CXL) 2.0 switch management
plane. It accepts FM API and Emulator API requests over a framed
MCTP-over-TCP transport and answers as though it were the firmware of a
physical CXL switch: a virtual topology of physical ports, VCSs,
vPPBs, and pooled/multi-logical devices.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
