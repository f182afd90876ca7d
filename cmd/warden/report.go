// Report command: best-effort quota health report.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/warden/pkg/types"
)

// Report verdicts.
const (
	verdictOK       = "OK"
	verdictCritical = "CRITICAL"
)

// classReport is one class's entry in the serialized report.
type classReport struct {
	Class     types.QuotaClass `yaml:"class" json:"class"`
	Remaining int              `yaml:"remaining" json:"remaining"`
	Limit     int              `yaml:"limit" json:"limit"`
	ResetAt   time.Time        `yaml:"reset_at" json:"reset_at"`
	Floor     int              `yaml:"floor" json:"floor"`
	Verdict   string           `yaml:"verdict" json:"verdict"`
	Error     string           `yaml:"error,omitempty" json:"error,omitempty"`
}

// quotaReport is the full serialized report.
type quotaReport struct {
	GeneratedAt time.Time     `yaml:"generated_at" json:"generated_at"`
	BoardID     string        `yaml:"board_id" json:"board_id"`
	Classes     []classReport `yaml:"classes" json:"classes"`
}

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Write a per-class quota report with OK/CRITICAL verdicts",
	Long: `Report snapshots every quota class and derives a verdict per class
against its configured floor. The report is best effort: a class whose
introspection fails is marked CRITICAL with the error attached rather than
failing the whole command. Output is YAML, to the given path or stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "report", err)
		}
		defer c.Close()

		report := quotaReport{
			GeneratedAt: time.Now().UTC(),
			BoardID:     c.cfg.BoardID,
		}
		for _, class := range types.Classes {
			entry := classReport{Class: class, Floor: c.cfg.Min(class)}
			snap, err := c.oracle.Snapshot(cmd.Context(), class)
			if err != nil {
				// Fail closed: an unreadable class is reported critical.
				entry.Verdict = verdictCritical
				entry.Error = err.Error()
			} else {
				entry.Remaining = snap.Remaining
				entry.Limit = snap.Limit
				entry.ResetAt = snap.ResetAt
				entry.Verdict = verdictOK
				if snap.Depleted(entry.Floor) {
					entry.Verdict = verdictCritical
				}
			}
			report.Classes = append(report.Classes, entry)
		}

		if flagJSON {
			return printJSON(report)
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			fail(exitSysError, "report", err)
		}
		if len(args) == 1 {
			if err := os.WriteFile(args[0], out, 0o644); err != nil {
				fail(exitSysError, "report", err)
			}
			fmt.Printf("Report written to %s\n", args[0])
			return nil
		}
		fmt.Print(string(out))
		return nil
	},
}
