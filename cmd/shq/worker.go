package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/internal/api"
	"github.com/shqio/shq/store"
)

var workerCount int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run worker processes against the queue",
}

var workerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start worker processes, retention sweeps, and (optionally) the status API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := newLogger()
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		dispatcher := store.NewDispatcher(db)
		logs := store.NewJobLogs(db)
		metrics := store.NewMetrics(db)
		config := store.NewConfig(db)
		registry := store.NewWorkers(db)
		cleaner := store.NewCleaner(db)

		manager := queue.NewWorkerManager(dispatcher, logs, metrics, config, registry, queue.DefaultWorkerManagerConfig(), log)
		if err := manager.Start(ctx, workerCount); err != nil {
			return err
		}

		retention := queue.NewRetentionScheduler(cleaner, config, log)
		if err := retention.Start(ctx); err != nil {
			return err
		}

		var httpServer *http.Server
		if flagAPIAddr != "" {
			router := api.NewRouter(ctx, api.Dependencies{
				Observer: store.NewObserver(db),
				Logs:     logs,
				Metrics:  metrics,
				DLQ:      store.NewDeadLetterQueue(db),
			}, log)
			httpServer = &http.Server{Addr: flagAPIAddr, Handler: router}
			go func() {
				log.Info("status API listening", "addr", flagAPIAddr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("status API server failed", "err", err)
				}
			}()
		}

		log.Info("shq worker started", "count", workerCount)
		<-ctx.Done()
		log.Info("shutting down")

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}
		if err := retention.Stop(10 * time.Second); err != nil {
			log.Error("retention scheduler did not stop cleanly", "err", err)
		}
		if err := manager.Stop(30 * time.Second); err != nil {
			log.Error("worker manager did not stop cleanly", "err", err)
			return err
		}
		return nil
	},
}

func init() {
	workerStartCmd.Flags().IntVarP(&workerCount, "count", "c", 4, "number of concurrent worker processes")
	workerCmd.AddCommand(workerStartCmd)
}
