package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func counting(n int, counter *atomic.Int64) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			counter.Add(1)
			return nil
		}
	}
	return tasks
}

// =============================================================================
// Creation
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := NewWorkerPool(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want GOMAXPROCS", n, pool.Workers())
		}
		pool.Close()
	}
}

// =============================================================================
// Run
// =============================================================================

func TestWorkerPool_Run(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	if err := pool.Run(context.Background(), counting(100, &counter)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_RunEmpty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	if err := pool.Run(context.Background(), nil); err != nil {
		t.Errorf("Run(nil) = %v, want nil", err)
	}
}

func TestWorkerPool_RunMoreTasksThanQueue(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	var counter atomic.Int64
	if err := pool.Run(context.Background(), counting(1000, &counter)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if counter.Load() != 1000 {
		t.Errorf("counter = %d, want 1000", counter.Load())
	}
}

func TestWorkerPool_RunFirstError(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	errBoom := errors.New("boom")
	var ran atomic.Int64
	tasks := make([]Task, 50)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			ran.Add(1)
			if i == 0 {
				return errBoom
			}
			time.Sleep(time.Millisecond)
			return nil
		}
	}

	err := pool.Run(context.Background(), tasks)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Run() = %v, want %v", err, errBoom)
	}
	if ran.Load() == 50 {
		t.Log("all tasks ran before cancellation was observed")
	}
}

func TestWorkerPool_RunCanceled(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var counter atomic.Int64
	err := pool.Run(ctx, counting(20, &counter))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	if counter.Load() != 0 {
		t.Errorf("%d tasks ran on a canceled context", counter.Load())
	}
}

func TestWorkerPool_TaskSeesCancellation(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	errStop := errors.New("stop")
	started := make(chan struct{})
	observed := make(chan struct{})
	tasks := []Task{
		func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			close(observed)
			return nil
		},
		func(context.Context) error {
			<-started
			return errStop
		},
	}

	if err := pool.Run(context.Background(), tasks); !errors.Is(err, errStop) {
		t.Fatalf("Run() = %v, want %v", err, errStop)
	}
	select {
	case <-observed:
	default:
		t.Error("running task did not observe cancellation")
	}
}

func TestWorkerPool_RunAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var counter atomic.Int64
	if err := pool.Run(context.Background(), counting(5, &counter)); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Close = %v, want ErrClosed", err)
	}
	if counter.Load() != 0 {
		t.Errorf("counter = %d after closed Run, want 0", counter.Load())
	}
}

// =============================================================================
// Close
// =============================================================================

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool should not be running after Close")
	}
}

// =============================================================================
// Concurrency
// =============================================================================

func TestWorkerPool_ConcurrentRuns(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.Run(context.Background(), counting(50, &counter)); err != nil {
				t.Errorf("Run() = %v", err)
			}
		}()
	}
	wg.Wait()

	if counter.Load() != 400 {
		t.Errorf("counter = %d, want 400", counter.Load())
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Every slow task lands on worker 0; the others must steal.
	var slow, fast atomic.Int64
	tasks := make([]Task, 40)
	for i := range tasks {
		if i%4 == 0 {
			tasks[i] = func(context.Context) error {
				time.Sleep(5 * time.Millisecond)
				slow.Add(1)
				return nil
			}
		} else {
			tasks[i] = func(context.Context) error {
				fast.Add(1)
				return nil
			}
		}
	}

	start := time.Now()
	if err := pool.Run(context.Background(), tasks); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	t.Logf("elapsed: %v", time.Since(start))

	if slow.Load() != 10 || fast.Load() != 30 {
		t.Errorf("slow=%d fast=%d, want 10 and 30", slow.Load(), fast.Load())
	}
}

func TestWorkerPool_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for range 5 {
		pool := NewWorkerPool(4)
		var counter atomic.Int64
		_ = pool.Run(context.Background(), counting(100, &counter))
		pool.Close()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)

	if final := runtime.NumGoroutine(); final > baseline+2 {
		t.Errorf("goroutine count: baseline=%d, final=%d (leak detected)", baseline, final)
	}
}

func TestWorkerPool_Queued(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	if q := pool.Queued(); q != 0 {
		t.Errorf("Queued() on idle pool = %d, want 0", q)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkWorkerPool_Run(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	var counter atomic.Int64
	tasks := counting(256, &counter)
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		_ = pool.Run(ctx, tasks)
	}
}

func BenchmarkWorkerPool_vs_Goroutines(b *testing.B) {
	const n = 256

	b.Run("pool", func(b *testing.B) {
		pool := NewWorkerPool(0)
		defer pool.Close()
		var counter atomic.Int64
		tasks := counting(n, &counter)
		for b.Loop() {
			_ = pool.Run(context.Background(), tasks)
		}
	})

	b.Run("goroutines", func(b *testing.B) {
		var counter atomic.Int64
		for b.Loop() {
			var wg sync.WaitGroup
			wg.Add(n)
			for range n {
				go func() {
					defer wg.Done()
					counter.Add(1)
				}()
			}
			wg.Wait()
		}
	})
}
