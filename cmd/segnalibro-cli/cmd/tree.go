package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"segnalibro/internal/adapters/sqlite"
	"segnalibro/internal/application/commands"
	"segnalibro/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree [folder-id]",
	Short: "Display the bookmark tree",
	Long: `Display the bookmark tree, or the subtree below a folder.

Examples:
  segnalibro-cli tree
  segnalibro-cli tree 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderID := ""
		if len(args) == 1 {
			folderID = args[0]
		}
		ctx := context.Background()

		treeCmd := commands.NewTreeCommand(GetStore(), folderID)
		result, err := treeCmd.Execute(ctx)
		if err != nil {
			return err
		}

		// The synthetic root is plumbing, not content
		if result.Root.ID == sqlite.RootID {
			for _, child := range result.Root.Children {
				printTree(child, 0)
			}
			return nil
		}
		printTree(result.Root, 0)
		return nil
	},
}

func printTree(node *domain.Node, depth int) {
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	if node.IsFolder() {
		fmt.Printf("%s%s %s/\n", indent, node.ID, node.Title)
	} else {
		fmt.Printf("%s%s %s  %s\n", indent, node.ID, node.Title, node.URL)
	}

	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
