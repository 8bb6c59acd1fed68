package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/adapters/sqlite"
	"segnalibro/internal/application/commands"
	"segnalibro/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [folder-id]",
	Short: "List the children of a folder",
	Long: `List the direct children of a folder in display order.
Without an argument the top-level folders are listed.

Examples:
  segnalibro-cli list
  segnalibro-cli list 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderID := sqlite.RootID
		if len(args) == 1 {
			folderID = args[0]
		}
		ctx := context.Background()

		listCmd := commands.NewListCommand(GetStore(), folderID)
		result, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		for _, e := range result.Entries {
			fmt.Println(formatEntry(e))
		}
		return nil
	},
}

// formatEntry renders one node as "id title" with a trailing slash for
// folders and the address for bookmarks.
func formatEntry(e domain.Entry) string {
	if e.IsFolder {
		return fmt.Sprintf("%s %s/", e.ID, e.Title)
	}
	return fmt.Sprintf("%s %s  %s", e.ID, e.Title, e.URL)
}

func init() {
	rootCmd.AddCommand(listCmd)
}
