package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"segnalibro/internal/adapters/export"
	"segnalibro/internal/application/commands"
)

var exportFolder string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the tree as a Netscape bookmark file",
	Long: `Write the bookmark tree as a Netscape bookmark file, the HTML
format browsers import. Without a file argument a timestamped name in
the current directory is used. --folder exports just that subtree.

Examples:
  segnalibro-cli export
  segnalibro-cli export ~/backup/marks.html
  segnalibro-cli export --folder 7 dev.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := export.DefaultFilename()
		if len(args) == 1 {
			path = args[0]
		}
		ctx := context.Background()

		treeCmd := commands.NewTreeCommand(GetStore(), exportFolder)
		result, err := treeCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if err := export.NetscapeFile(path, result.Root); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFolder, "folder", "", "export only the subtree below this folder id")
	rootCmd.AddCommand(exportCmd)
}
