// Ensure-lifecycle command: explicit progression from a known status.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/pkg/types"
)

var ensureLifecycleCmd = &cobra.Command{
	Use:   "ensure-lifecycle <item-title> <from-status> <to-status>",
	Short: "Walk an item through the lifecycle from a known status",
	Long: `Ensure-lifecycle is for callers that already know the item's current
status: the fresh status read is skipped and the progression is walked
from the given position, every intermediate committed as its own admitted
write. The target is still validated against the board's option set.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		from, err := types.ParseStatus(args[1])
		if err != nil {
			fail(exitUserError, "ensure-lifecycle", fmt.Errorf("%w: %q", err, args[1]))
		}
		to, err := types.ParseStatus(args[2])
		if err != nil {
			fail(exitUserError, "ensure-lifecycle", fmt.Errorf("%w: %q", err, args[2]))
		}

		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "ensure-lifecycle", err)
		}
		defer c.Close()

		res, err := c.engine.EnsureLifecycle(cmd.Context(), title, from, to)
		reportTransition(title, res, err, "ensure-lifecycle")
		return nil
	},
}
