package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunVisitsEveryIndex(t *testing.T) {
	pool := NewPool(4, zap.NewNop())

	const jobs = 100
	var mu sync.Mutex
	seen := make(map[int]int)

	err := pool.Run(context.Background(), jobs, func(_ context.Context, i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(seen) != jobs {
		t.Fatalf("visited %d distinct indices, want %d", len(seen), jobs)
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("index %d visited %d times, want 1", i, n)
		}
	}
}

func TestRunZeroJobs(t *testing.T) {
	pool := NewPool(4, zap.NewNop())
	called := false
	err := pool.Run(context.Background(), 0, func(_ context.Context, _ int) { called = true })
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if called {
		t.Error("fn called for an empty batch")
	}
}

func TestRunDefaultsWorkerCount(t *testing.T) {
	pool := NewPool(0, zap.NewNop())
	var count atomic.Int64
	if err := pool.Run(context.Background(), 8, func(_ context.Context, _ int) {
		count.Add(1)
	}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if count.Load() != 8 {
		t.Errorf("ran %d jobs, want 8", count.Load())
	}
}

func TestRunCanceledBeforeStart(t *testing.T) {
	pool := NewPool(2, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var count atomic.Int64
	err := pool.Run(ctx, 50, func(_ context.Context, _ int) { count.Add(1) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if count.Load() != 0 {
		t.Errorf("ran %d jobs after cancellation, want 0", count.Load())
	}
}

func TestRunCanceledMidBatch(t *testing.T) {
	pool := NewPool(2, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var count atomic.Int64

	err := pool.Run(ctx, 1000, func(_ context.Context, _ int) {
		if count.Add(1) == 10 {
			cancel()
		}
		time.Sleep(time.Millisecond)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if n := count.Load(); n >= 1000 {
		t.Errorf("all %d jobs ran despite cancellation", n)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := NewPool(workers, zap.NewNop())

	var active, peak atomic.Int64
	err := pool.Run(context.Background(), 60, func(_ context.Context, _ int) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if p := peak.Load(); p > workers {
		t.Errorf("peak concurrency %d exceeds %d workers", p, workers)
	}
}
