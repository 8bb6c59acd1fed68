package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/adapters/opener"
)

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a bookmark in the browser",
	Long: `Look up a bookmark and open its address with the system browser.

Example:
  segnalibro-cli open 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := context.Background()

		node, err := GetStore().Node(ctx, id)
		if err != nil {
			return err
		}
		if node.IsFolder() {
			return fmt.Errorf("%s is a folder, not a bookmark", id)
		}

		if err := opener.NewBrowser().OpenURL(node.URL); err != nil {
			return err
		}
		fmt.Printf("Opened %s\n", node.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
