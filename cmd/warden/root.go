// Root command for the warden CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/internal/paths"
)

// Version is the CLI version string.
const Version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagCacheDir  string
	flagBoardID   string
	flagBoard     string
	flagJSON      bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:     "warden",
	Short:   "Warden is an admission-controlled gateway to a shared board API",
	Version: Version,
	Long: `Warden lets many independent, periodically-triggered automation processes
share one rate-limited board API safely. Reads and writes pass an admission
gate backed by the platform's own quota introspection, read results are
cached with a TTL, and status updates are validated against the board's
declared lifecycle before anything is written.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagCacheDir, "cache-dir", "", "cache directory (default: $(CWD)/"+paths.DefaultCacheDirName+")")
	rootCmd.PersistentFlags().StringVar(&flagBoardID, "board-id", "", "board to operate on (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBoard, "board", "http", "board backend: http or memory (memory is a dry run)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "include debug events in the log stream")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(safeReadCmd)
	rootCmd.AddCommand(safeWriteCmd)
	rootCmd.AddCommand(batchStatusUpdateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(emergencyCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(fixStoryCmd)
	rootCmd.AddCommand(ensureLifecycleCmd)
}
