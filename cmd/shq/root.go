// Command shq runs and administers a persistent, single-node
// shell-command job queue.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/shqio/shq/store"

	_ "modernc.org/sqlite"
)

var (
	flagDBPath    string
	flagAPIAddr   string
	flagLogFormat string
)

func init() {
	// A .env file in the working directory is optional; a missing file
	// is not an error, it simply means flags and the process environment
	// are authoritative.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", envOr("SHQ_DB", "shq.db"), "path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&flagAPIAddr, "api-addr", envOr("SHQ_API_ADDR", ""), "address to serve the read-only HTTP/WebSocket status API on (disabled if empty)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", envOr("SHQ_LOG_FORMAT", "text"), "log output format: text or json")

	rootCmd.AddCommand(enqueueCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dlqCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(configCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var rootCmd = &cobra.Command{
	Use:   "shq",
	Short: "A persistent, single-node shell-command job queue",
	Long: `shq enqueues shell commands as durable jobs, dispatches them to a
pool of worker processes with bounded exponential-backoff retry, and
keeps execution history and metrics that survive restarts.`,
	SilenceUsage: true,
}

func newLogger() *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if flagLogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// openDB opens the configured SQLite database and runs migrations,
// returning a ready-to-use bun.DB.
func openDB(ctx context.Context) (*bun.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", flagDBPath)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// WAL mode with a single writer connection avoids SQLITE_BUSY under
	// concurrent worker writes, matching package store's documented
	// concurrency expectations.
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := store.InitDB(ctx, db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	return db, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
