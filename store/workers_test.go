package store_test

import (
	"context"
	"testing"

	queue "github.com/shqio/shq"
	shqstore "github.com/shqio/shq/store"
)

func TestWorkersRegisterHeartbeatDeregister(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	workers := shqstore.NewWorkers(db)

	if err := workers.RegisterWorker(ctx, "worker-1"); err != nil {
		t.Fatal(err)
	}

	list, err := workers.ListWorkers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Id != "worker-1" {
		t.Fatalf("expected worker-1 registered, got %+v", list)
	}
	first := list[0].LastHeartbeat

	if err := workers.Heartbeat(ctx, "worker-1"); err != nil {
		t.Fatal(err)
	}
	list, _ = workers.ListWorkers(ctx)
	if list[0].LastHeartbeat.Before(first) {
		t.Fatal("expected heartbeat to not move backwards")
	}

	if err := workers.DeregisterWorker(ctx, "worker-1"); err != nil {
		t.Fatal(err)
	}
	list, _ = workers.ListWorkers(ctx)
	if len(list) != 0 {
		t.Fatalf("expected no workers registered, got %+v", list)
	}
}

func TestWorkersHeartbeatUnknown(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	workers := shqstore.NewWorkers(db)

	if err := workers.Heartbeat(ctx, "missing"); err != queue.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
