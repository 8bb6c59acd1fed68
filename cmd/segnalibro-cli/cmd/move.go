package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"segnalibro/internal/application/commands"
)

var moveCmd = &cobra.Command{
	Use:   "mv <id> <dest-folder-id> [index]",
	Short: "Move a bookmark or folder",
	Long: `Move a node into another folder, or reorder it within its own.

The optional index is the target position among the destination's
children; without one the node is appended. Moving a folder into its
own subtree is rejected.

Examples:
  segnalibro-cli mv 42 7        # append node 42 to folder 7
  segnalibro-cli mv 42 7 0      # make it the first child instead`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		destID := args[1]
		index := -1
		if len(args) == 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[2], err)
			}
			index = n
		}
		ctx := context.Background()

		moveCmd := commands.NewMoveCommand(GetStore(), id, destID, index)
		result, err := moveCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
