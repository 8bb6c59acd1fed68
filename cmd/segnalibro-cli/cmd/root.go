package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"segnalibro/internal/adapters/sqlite"
	"segnalibro/internal/config"
	"segnalibro/internal/ports"
)

var (
	dbPath string
	store  *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "segnalibro-cli",
	Short: "CLI for managing the segnalibro bookmark tree",
	Long: `segnalibro-cli is a command-line interface for the bookmark tree
kept in a segnalibro database.

It provides commands to list, search, create, move, rename, delete,
open and export bookmarks and folders.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if dbPath == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dbPath = cfg.DBPath
		}
		s, err := sqlite.Open(dbPath)
		if err != nil {
			return err
		}
		store = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to the bookmark database (default from config)")
}

// GetStore returns the store opened for this invocation
func GetStore() ports.BookmarkStore {
	return store
}
