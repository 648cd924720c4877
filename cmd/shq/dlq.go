package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shqio/shq/store"
)

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Inspect and administer dead-lettered jobs",
}

var dlqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs in the dead-letter queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		jobs, err := store.NewDeadLetterQueue(db).ListDeadJobs(ctx)
		if err != nil {
			return err
		}
		for _, j := range jobs {
			errMsg := ""
			if j.LastError != nil {
				errMsg = *j.LastError
			}
			fmt.Printf("%s\tattempts=%d/%d\t%s\t%s\n", j.Id, j.Attempts, j.MaxRetries, j.Command, errMsg)
		}
		return nil
	},
}

var dlqRetryCmd = &cobra.Command{
	Use:   "retry [jobId]",
	Short: "Retry one dead job, or every dead job if no id is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		var id *string
		if len(args) == 1 {
			id = &args[0]
		}
		n, err := store.NewDeadLetterQueue(db).RetryDeadJob(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("retried %d job(s)\n", n)
		return nil
	},
}

var dlqClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Permanently delete every dead job",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := store.NewDeadLetterQueue(db).ClearDeadJobs(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("cleared %d job(s)\n", n)
		return nil
	},
}

func init() {
	dlqCmd.AddCommand(dlqListCmd)
	dlqCmd.AddCommand(dlqRetryCmd)
	dlqCmd.AddCommand(dlqClearCmd)
}
