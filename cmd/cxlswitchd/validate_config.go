package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrlabs-io/cxlswitchd/internal/color"
	"github.com/jrlabs-io/cxlswitchd/internal/config"
)

var validateConfigPath string

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Load and print a configuration file without starting the server",
	Long: `Loads a cxlswitchd YAML configuration file, builds the switch state
it describes, and prints a summary — without binding a socket or
starting the dispatcher. Useful for catching a malformed device
template or an out-of-range port/VCS override before a real run.

Example:
  cxlswitchd validate-config --config switch.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(validateConfigPath)
		if err != nil {
			return fmt.Errorf("%s", color.Failf("load %s: %v", validateConfigPath, err))
		}
		sw, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("%s", color.Failf("build switch state: %v", err))
		}
		fmt.Println(color.OK(fmt.Sprintf("config %s is valid", validateConfigPath)))
		printSwitchSummary(sw)
		return nil
	},
}

func init() {
	validateConfigCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "configuration file to validate (required)")
	_ = validateConfigCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(validateConfigCmd)
}
