package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a bookmark or folder",
	Long: `Delete a bookmark, or a folder together with everything inside it.

Warning: this operation cannot be undone.

Examples:
  segnalibro-cli rm 42
  segnalibro-cli rm 7     # deletes the folder and its whole subtree`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := context.Background()

		deleteCmd := commands.NewDeleteCommand(GetStore(), id)
		result, err := deleteCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
