// Safe-write command: one admitted field write.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/pkg/types"
)

var safeWriteCmd = &cobra.Command{
	Use:   "safe-write <item-id> <field-id> <value>",
	Short: "Apply a single admitted write to a board item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, fieldID, value := args[0], args[1], args[2]

		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "safe-write", err)
		}
		defer c.Close()

		decision, err := c.gate.AdmitClass(cmd.Context(), "safe-write", types.ClassBulkMutate)
		if err != nil {
			fail(exitUserError, "safe-write", err)
		}
		if !decision.Allowed {
			if flagJSON && decision.Signal != nil {
				_ = printJSON(decision.Signal)
			}
			fail(exitUserError, "safe-write", fmt.Errorf("%w: %d remaining in %s",
				types.ErrQuotaExhausted, decision.Snapshot.Remaining, decision.Snapshot.Class))
		}

		if err := c.client.UpdateItemField(cmd.Context(), itemID, fieldID, value); err != nil {
			code := exitSysError
			if errors.Is(err, types.ErrItemNotFound) {
				code = exitUserError
			}
			fail(code, "safe-write", err)
		}

		fmt.Printf("Wrote %s=%s on %s\n", fieldID, value, itemID)
		return nil
	},
}
