package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-coin/scan_coin/internal/collection"
	"github.com/scan-coin/scan_coin/internal/config"
)

// NewRootCmd creates the root command for scancoin.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scancoin",
		Short: "Identify coins from photos and keep a collection",
		Long: `scancoin sends photos of a coin's obverse and reverse to a scan_coin
backend (or an offline stand-in) and prints the identification.

Results can be saved to a local collection stored under the XDG data
directory, or at the path given by --collection / SCANCOIN_COLLECTION.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("collection", "", "Path of the collection file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewIdentifyCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openCollection resolves the collection file: flag, then environment, then
// the XDG default.
func openCollection(cmd *cobra.Command, cfg config.CLI) (*collection.Service, string, error) {
	path, _ := cmd.Flags().GetString("collection")
	if path == "" {
		path = cfg.CollectionPath
	}
	if path == "" {
		var err error
		if path, err = collection.DefaultFilePath(); err != nil {
			return nil, "", fmt.Errorf("resolve collection path: %w", err)
		}
	}
	return collection.NewService(collection.NewFileRepository(path)), path, nil
}
