package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shqio/shq/store"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print aggregate execution metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		summary, err := store.NewMetrics(db).MetricsSummary(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("total:        %d\n", summary.Total)
		fmt.Printf("avg duration: %.3fs\n", summary.AvgDuration)
		for outcome, count := range summary.ByOutcome {
			fmt.Printf("  %-10s %d\n", outcome, count)
		}
		return nil
	},
}
