package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go-ecommerce-dashboard/internal/analytics"
)

var boundsCmd = &cobra.Command{
	Use:   "bounds",
	Short: "Print the default date range of the dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := loadDataset(cmd.Context(), configuredSource(cmd))
		if err != nil {
			return err
		}

		r, ok := analytics.NewRecordStore(records).Bounds()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "no records")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d records)\n",
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), len(records))
		return nil
	},
}

func init() {
	addSourceFlags(boundsCmd)
	rootCmd.AddCommand(boundsCmd)
}
