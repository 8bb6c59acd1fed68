package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/application/commands"
)

var renameURL string

var renameCmd = &cobra.Command{
	Use:   "rename <id> <new-title>",
	Short: "Rename a bookmark or folder",
	Long: `Change the title of a bookmark or folder. With --url the
bookmark's address is changed instead of its title.

Examples:
  segnalibro-cli rename 42 "Go weekly"
  segnalibro-cli rename 42 --url https://golangweekly.com`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := context.Background()

		if renameURL != "" {
			urlCmd := commands.NewSetURLCommand(GetStore(), id, renameURL)
			result, err := urlCmd.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Println(result.Message)
			return nil
		}

		if len(args) != 2 {
			return fmt.Errorf("a new title is required unless --url is given")
		}
		renameCmd := commands.NewRenameCommand(GetStore(), id, args[1])
		result, err := renameCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	renameCmd.Flags().StringVar(&renameURL, "url", "", "change the bookmark's address instead of its title")
	rootCmd.AddCommand(renameCmd)
}
