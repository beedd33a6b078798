package main

import (
	"io"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"

	workerPkg "community-feed/internal/infra/worker"
	"community-feed/internal/usecase/sweep"
)

// Registered once: worker metrics live on the default prometheus
// registry and a second registration panics.
var testMetrics = workerPkg.NewWorkerMetrics()

func TestStartCronWorker_StopsOnSignal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := workerPkg.DefaultConfig()
	healthServer := workerPkg.NewHealthServer(":0", logger)
	stop := make(chan os.Signal, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		startCronWorker(logger, &sweep.Service{}, &cfg, testMetrics, healthServer, stop)
	}()

	// The scheduler flips readiness on once it is running.
	deadline := time.Now().Add(2 * time.Second)
	for !healthServer.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("worker never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}

	stop <- syscall.SIGTERM

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("startCronWorker did not return after SIGTERM")
	}

	if healthServer.Ready() {
		t.Error("worker still reports ready after shutdown")
	}
}
