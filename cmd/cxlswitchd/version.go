package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags "-X main.version=...";
// it defaults to "dev" for a plain go build.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cxlswitchd %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
