package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search bookmarks and folders",
	Long: `Search bookmarks and folders by title or address.

Results are ranked by the store's full-text relevance.

Examples:
  segnalibro-cli search golang
  segnalibro-cli search "issue tracker"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		ctx := context.Background()

		searchCmd := commands.NewSearchCommand(GetStore(), query)
		result, err := searchCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if len(result.Entries) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, e := range result.Entries {
			kind := "bookmark"
			if e.IsFolder {
				kind = "folder"
			}
			fmt.Printf("[%s] %s\n", kind, formatEntry(e))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
