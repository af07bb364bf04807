package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scan-coin/scan_coin/internal/collection"
	"github.com/scan-coin/scan_coin/internal/config"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved coins, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadCLI()
			if err != nil {
				return err
			}
			svc, _, err := openCollection(cmd, cfg)
			if err != nil {
				return err
			}
			records, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No coins saved yet.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSAVED\tCOIN\tYEAR\tVALUE")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s, %s\t%s\t%.2f-%.2f %s\n",
					r.ID, r.CreatedAt, r.Country, r.Denomination, r.Year,
					r.EstimatedValueMin, r.EstimatedValueMax, r.Currency)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Bool("json", false, "Print the collection as JSON")
	return cmd
}

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved coin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadCLI()
			if err != nil {
				return err
			}
			svc, _, err := openCollection(cmd, cfg)
			if err != nil {
				return err
			}
			record, err := svc.Get(cmd.Context(), args[0])
			if errors.Is(err, collection.ErrNotFound) {
				return fmt.Errorf("no saved coin with id %s", args[0])
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if err := printResult(w, record.Result, false); err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved: %s\nImage: %s\nID: %s\n", record.CreatedAt, record.ImageURI, record.ID)
			return nil
		},
	}
}
