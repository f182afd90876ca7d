// Check command: admission preflight for one class or all of them.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/pkg/types"
)

var (
	checkOp  string
	checkMin int
)

var checkCmd = &cobra.Command{
	Use:   "check [class]",
	Short: "Check whether an operation would be admitted",
	Long: `Check takes a fresh quota snapshot and reports whether an operation
would be admitted. With a class argument only that class is checked; without
one every class is checked against its configured floor. Exits non-zero on
denial, so callers can gate their own work on the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "check", err)
		}
		defer c.Close()

		classes := types.Classes
		if len(args) == 1 {
			class, err := types.ParseQuotaClass(args[0])
			if err != nil {
				fail(exitUserError, "check", err)
			}
			classes = []types.QuotaClass{class}
		}

		type row struct {
			Snapshot types.QuotaSnapshot `json:"snapshot"`
			Min      int                 `json:"min_remaining"`
			Allowed  bool                `json:"allowed"`
		}
		rows := make([]row, 0, len(classes))
		denied := false

		for _, class := range classes {
			floor := c.cfg.Min(class)
			if checkMin >= 0 {
				floor = checkMin
			}
			decision, err := c.gate.Admit(cmd.Context(), checkOp, class, floor)
			if err != nil {
				fail(exitUserError, "check", err)
			}
			if !decision.Allowed {
				denied = true
			}
			rows = append(rows, row{Snapshot: decision.Snapshot, Min: floor, Allowed: decision.Allowed})
		}

		if flagJSON {
			if err := printJSON(rows); err != nil {
				fail(exitSysError, "check", err)
			}
		} else {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CLASS\tREMAINING\tLIMIT\tRESET_AT\tVERDICT")
			for _, r := range rows {
				verdict := "allowed"
				if !r.Allowed {
					verdict = "DENIED"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
					r.Snapshot.Class, r.Snapshot.Remaining, r.Snapshot.Limit,
					r.Snapshot.ResetAt.Format(time.RFC3339), verdict)
			}
			w.Flush()
		}

		if denied {
			os.Exit(exitUserError)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkOp, "op", "check", "operation name recorded on denial events")
	checkCmd.Flags().IntVar(&checkMin, "min", -1, "minimum remaining to require (-1 = configured floor)")
}
