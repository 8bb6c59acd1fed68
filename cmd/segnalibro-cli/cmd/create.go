package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/application/commands"
)

var createCmd = &cobra.Command{
	Use:   "create <parent-id> <title> [url]",
	Short: "Create a bookmark or folder",
	Long: `Create a new node as the last child of a folder.

With a url a bookmark is created; without one, a folder.

Examples:
  segnalibro-cli create 1 "Go blog" https://go.dev/blog
  segnalibro-cli create 1 "Reading list"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		parentID := args[0]
		title := args[1]
		ctx := context.Background()

		if len(args) == 3 {
			createCmd := commands.NewCreateBookmarkCommand(GetStore(), parentID, title, args[2])
			result, err := createCmd.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		}

		createCmd := commands.NewCreateFolderCommand(GetStore(), parentID, title)
		result, err := createCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
