package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shqio/shq/job"
	"github.com/shqio/shq/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a histogram of job counts by state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		summary, err := store.NewObserver(db).StatusSummary(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

var listState string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs, optionally filtered by state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		state := job.Unknown
		if listState != "" {
			state, err = job.ParseState(listState)
			if err != nil {
				return err
			}
		}
		jobs, err := store.NewObserver(db).ListJobs(ctx, state)
		if err != nil {
			return err
		}
		for _, j := range jobs {
			fmt.Printf("%s\t%-10s\tattempts=%d/%d\t%s\n", j.Id, j.State, j.Attempts, j.MaxRetries, j.Command)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listState, "state", "", "filter by state (scheduled, pending, processing, waiting, completed, dead)")
}
