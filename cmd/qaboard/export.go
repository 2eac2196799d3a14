package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qaboard/internal/export"
	"qaboard/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the cached search results as CSV",
	Long: `Export the cached search results as CSV.

The export covers the records from the most recent search. Run
'qaboard search' first to refresh the cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.LastSearch()
		if err != nil {
			if errors.Is(err, store.ErrNoSearch) {
				return fmt.Errorf("no cached search to export; run 'qaboard search' first")
			}
			return err
		}

		if output == "" {
			return export.WriteCSV(os.Stdout, snap.Records)
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		if err := export.WriteCSV(f, snap.Records); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		printSuccess("Exported %d records to %s", len(snap.Records), output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write CSV to a file instead of stdout")
}
