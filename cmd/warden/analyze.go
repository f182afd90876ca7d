// Analyze command: inspect the board's declared status options.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the board's declared status-option set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "analyze", err)
		}
		defer c.Close()

		options, stale, err := c.engine.Options(cmd.Context())
		if err != nil {
			fail(exitUserError, "analyze", err)
		}

		if flagJSON {
			return printJSON(options)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tOPTION_ID\tLIFECYCLE")
		for _, opt := range options {
			position := "-"
			if s, err := types.ParseStatus(opt.Name); err == nil {
				position = s.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", opt.Name, opt.OptionID, position)
		}
		w.Flush()
		fmt.Printf("\nTotal: %d option(s)%s\n", len(options), staleNote(stale))
		return nil
	},
}
