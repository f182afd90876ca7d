// Batch-status-update command: lifecycle-validated status change by title.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/internal/lifecycle"
	"github.com/mesh-intelligence/warden/pkg/types"
)

var batchStatusUpdateCmd = &cobra.Command{
	Use:   "batch-status-update <item-title> <status>",
	Short: "Move an item to a status through the lifecycle engine",
	Long: `Batch-status-update resolves the item by title from the admitted
listing, then walks it to the requested status. Skipped intermediate
statuses are committed as separate writes, each passing admission on its
own; a mid-path failure reports the last committed status so the operation
can be resumed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		target, err := types.ParseStatus(args[1])
		if err != nil {
			fail(exitUserError, "batch-status-update", fmt.Errorf("%w: %q", err, args[1]))
		}

		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "batch-status-update", err)
		}
		defer c.Close()

		res, err := c.engine.RequestTransition(cmd.Context(), title, target)
		reportTransition(title, res, err, "batch-status-update")
		return nil
	},
}

// reportTransition prints a transition outcome and exits non-zero on
// failure. Shared by the three lifecycle commands.
func reportTransition(title string, res lifecycle.Result, err error, context string) {
	if err != nil {
		var partial *types.PartialTransitionError
		if errors.As(err, &partial) {
			fmt.Printf("Partial: %s stopped at %s (resume toward %s)\n",
				title, partial.LastCommitted, partial.Target)
		}
		code := exitSysError
		if errors.Is(err, types.ErrUnknownStatus) ||
			errors.Is(err, types.ErrItemNotFound) ||
			errors.Is(err, types.ErrQuotaExhausted) ||
			errors.Is(err, types.ErrOracleUnavailable) {
			code = exitUserError
		}
		fail(code, context, err)
	}

	if flagJSON {
		_ = printJSON(res)
		return
	}
	if res.NoOp {
		fmt.Printf("%s already at %s\n", title, res.Final)
		return
	}
	fmt.Printf("%s -> %s", title, res.Final)
	if len(res.Committed) > 1 {
		fmt.Printf(" (%d writes", len(res.Committed))
		for i, s := range res.Committed {
			if i == 0 {
				fmt.Printf(": %s", s)
			} else {
				fmt.Printf(", %s", s)
			}
		}
		fmt.Print(")")
	}
	fmt.Println()
}
