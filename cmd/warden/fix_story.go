// Fix-story command: manual repair of one item's lifecycle position.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/pkg/types"
)

var fixStoryCmd = &cobra.Command{
	Use:   "fix-story <item-title> [target-status]",
	Short: "Restore an item to a valid lifecycle position",
	Long: `Fix-story is the manual repair wrapper: it moves the titled item to
the target status (default Todo) through the lifecycle engine, so the
repair itself obeys the same progression and admission rules as any other
write.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		target := types.StatusTodo
		if len(args) == 2 {
			parsed, err := types.ParseStatus(args[1])
			if err != nil {
				fail(exitUserError, "fix-story", fmt.Errorf("%w: %q", err, args[1]))
			}
			target = parsed
		}

		c, err := buildCore()
		if err != nil {
			fail(exitSysError, "fix-story", err)
		}
		defer c.Close()

		res, err := c.engine.RequestTransition(cmd.Context(), title, target)
		reportTransition(title, res, err, "fix-story")
		return nil
	},
}
