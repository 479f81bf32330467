package workers_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/filedock/filedock/internal/app/system/tasks"
	"github.com/filedock/filedock/internal/app/system/workers"
	"go.uber.org/zap"
)

func TestRunner_RunsAndStops(t *testing.T) {
	var runs atomic.Int64
	job := tasks.Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	r := workers.NewRunner(zap.NewNop(), job)
	r.Start()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	r.Stop()

	if runs.Load() < 2 {
		t.Fatalf("expected at least 2 runs, got %d", runs.Load())
	}

	// No further runs after Stop returns.
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != after {
		t.Error("job ran after Stop")
	}
}

func TestRunner_StopWithoutJobs(t *testing.T) {
	r := workers.NewRunner(zap.NewNop())
	r.Start()
	r.Stop()
}
