// Emergency command: explicit signal computation for a named operation.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/pkg/types"
)

var emergencyClass string

var emergencyCmd = &cobra.Command{
	Use:   "emergency <operation>",
	Short: "Compute the emergency signal for a named operation",
	Long: `Emergency forces the computation an admission denial would produce:
a structured signal with the seconds to wait until the class's quota
resets. The command itself never sleeps; the orchestrating caller owns the
backoff.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		operation := args[0]
		class, err := types.ParseQuotaClass(emergencyClass)
		if err != nil {
			fail(exitUserError, "emergency", fmt.Errorf("%w: %q", err, emergencyClass))
		}

		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "emergency", err)
		}
		defer c.Close()

		snap, err := c.oracle.Snapshot(cmd.Context(), class)
		if err != nil {
			fail(exitUserError, "emergency", err)
		}

		signal := c.emergency.OnDenied(operation, snap)
		if flagJSON {
			return printJSON(signal)
		}
		fmt.Printf("operation=%s class=%s wait_seconds=%d reset_at=%s\n",
			signal.OperationName, class, signal.WaitSeconds, signal.ResetAt)
		return nil
	},
}

func init() {
	emergencyCmd.Flags().StringVar(&emergencyClass, "class", string(types.ClassBulkMutate), "quota class the operation consumes")
}
