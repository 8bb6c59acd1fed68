package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/adapters/sqlite"
	"segnalibro/internal/application/commands"
)

var pathCmd = &cobra.Command{
	Use:   "path <id>",
	Short: "Show where a node lives",
	Long: `Print the folder path of a bookmark or folder, from its top-level
folder down to the node itself.

Example:
  segnalibro-cli path 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := context.Background()

		pathCmd := commands.NewPathCommand(GetStore(), sqlite.RootID, id)
		result, err := pathCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
