package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shqio/shq/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or write queue configuration values",
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the value of a configuration key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		value, err := store.NewConfig(db).Get(ctx, args[0], "")
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		return store.NewConfig(db).Set(ctx, args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
