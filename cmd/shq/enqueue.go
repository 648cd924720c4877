package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shqio/shq/clock"
	"github.com/shqio/shq/job"
	"github.com/shqio/shq/store"
)

// enqueueRequest is the wire shape of the JSON blob accepted by
// `enqueue <json>`: id and command plus the scheduling knobs a caller
// may override, each defaulting when omitted exactly as job.Spec
// documents.
type enqueueRequest struct {
	Id         string  `json:"id"`
	Command    string  `json:"command"`
	MaxRetries *uint32 `json:"max_retries"`
	Priority   *int    `json:"priority"`
	RunAt      *string `json:"run_at"`
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue JSON",
	Short: "Enqueue a job from a JSON payload: {id?, command, max_retries?, priority?, run_at?}",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req enqueueRequest
		if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
			return fmt.Errorf("parse job JSON: %w", err)
		}

		spec := job.Spec{
			Id:         req.Id,
			Command:    req.Command,
			MaxRetries: req.MaxRetries,
			Priority:   req.Priority,
		}
		if req.RunAt != nil {
			at, err := clock.ParseRunAt(*req.RunAt)
			if err != nil {
				return fmt.Errorf("parse run_at: %w", err)
			}
			spec.RunAt = &at
		}

		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		config := store.NewConfig(db)
		id, err := store.NewEnqueuer(db, config).Enqueue(ctx, spec)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}
