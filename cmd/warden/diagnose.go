// Diagnose command: best-effort item-to-status inspection.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/pkg/types"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "List every item with its status, flagging items needing review",
	Long: `Diagnose maps every board item to its current status and flags items
sitting at Unset (never triaged) or Done (candidates for archival). It is
best effort: stale cache data is used and annotated when a fresh read is
not admitted, and the command always exits zero once a listing of any age
is available.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "diagnose", err)
		}
		defer c.Close()

		items, stale, err := c.engine.Items(cmd.Context())
		if err != nil {
			// Nothing cached and no admission: report, do not fail the
			// caller's diagnostic run.
			fmt.Fprintf(os.Stderr, "diagnose: no listing available: %s\n", err)
			return nil
		}

		type row struct {
			types.BoardItem
			Flag string `json:"flag,omitempty"`
		}
		rows := make([]row, 0, len(items))
		flagged := 0
		for _, item := range items {
			r := row{BoardItem: item}
			switch item.Status {
			case types.StatusUnset:
				r.Flag = "review: never triaged"
			case types.StatusDone:
				r.Flag = "review: terminal"
			}
			if r.Flag != "" {
				flagged++
			}
			rows = append(rows, r)
		}

		if flagJSON {
			return printJSON(rows)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tFLAG")
		for _, r := range rows {
			flag := "-"
			if r.Flag != "" {
				flag = r.Flag
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Title, r.Status, flag)
		}
		w.Flush()
		fmt.Printf("\nTotal: %d item(s), %d flagged%s\n", len(rows), flagged, staleNote(stale))
		return nil
	},
}
