// Safe-read command: cached-or-fresh board reads.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var safeReadCmd = &cobra.Command{
	Use:   "safe-read [items|options]",
	Short: "Read board data through the admission-checked cache",
	Long: `Safe-read serves the board's item listing (or its status option set)
from the response cache when fresh, and performs an admitted fetch
otherwise. When the fetch is denied and a stale entry exists, the stale
data is served and annotated instead of failing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := "items"
		if len(args) == 1 {
			key = args[0]
		}

		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "safe-read", err)
		}
		defer c.Close()

		switch key {
		case "items":
			items, stale, err := c.engine.Items(cmd.Context())
			if err != nil {
				fail(exitUserError, "safe-read", err)
			}
			if flagJSON {
				return printJSON(items)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, item.Title, item.Status)
			}
			w.Flush()
			fmt.Printf("\nTotal: %d item(s)%s\n", len(items), staleNote(stale))
		case "options":
			options, stale, err := c.engine.Options(cmd.Context())
			if err != nil {
				fail(exitUserError, "safe-read", err)
			}
			if flagJSON {
				return printJSON(options)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tOPTION_ID")
			for _, opt := range options {
				fmt.Fprintf(w, "%s\t%s\n", opt.Name, opt.OptionID)
			}
			w.Flush()
			fmt.Printf("\nTotal: %d option(s)%s\n", len(options), staleNote(stale))
		default:
			fail(exitUserError, "safe-read", fmt.Errorf("unknown key %q (want items or options)", key))
		}
		return nil
	},
}
