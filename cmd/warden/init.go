// Init command for the warden CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration directory and a default config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			fail(exitSysError, "init", err)
		}
		if _, err := loadConfig(configDir); err != nil {
			fail(exitSysError, "init", err)
		}
		fmt.Printf("Initialized %s\n", configDir)
		return nil
	},
}
