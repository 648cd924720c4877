package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/store"
)

var logsCmd = &cobra.Command{
	Use:   "logs JOB_ID",
	Short: "Print a job's metadata and its recorded log lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		jb, err := store.NewObserver(db).GetJob(ctx, args[0])
		if err != nil {
			return err
		}
		if jb == nil {
			return fmt.Errorf("job %s: %w", args[0], queue.ErrNotFound)
		}
		fmt.Printf("id:       %s\nstate:    %s\nattempts: %d/%d\ncommand:  %s\n", jb.Id, jb.State, jb.Attempts, jb.MaxRetries, jb.Command)
		if jb.LastError != nil {
			fmt.Printf("error:    %s\n", *jb.LastError)
		}

		lines, err := store.NewJobLogs(db).GetJobLogs(ctx, args[0])
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Printf("%s  %s\n", l.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"), l.Message)
		}
		return nil
	},
}
