package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestPool_Create(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := NewPool(n)
		want := runtime.GOMAXPROCS(0)
		if pool.Workers() != want {
			t.Errorf("NewPool(%d).Workers() = %d, want %d", n, pool.Workers(), want)
		}
		pool.Close()
	}
}

func TestPool_Run(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var counter atomic.Int64
	tasks := make([]func(), 100)
	for i := range tasks {
		tasks[i] = func() { counter.Add(1) }
	}

	if !pool.Run(tasks) {
		t.Fatal("Run() = false on a running pool")
	}
	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestPool_RunCoversEveryIndex(t *testing.T) {
	pool := NewPool(3)
	defer pool.Close()

	var mu sync.Mutex
	seen := make(map[int]bool)
	tasks := make([]func(), 10)
	for i := range tasks {
		tasks[i] = func() {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}
	}
	pool.Run(tasks)

	for i := range 10 {
		if !seen[i] {
			t.Errorf("task %d was not executed", i)
		}
	}
}

func TestPool_RunEmpty(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	if !pool.Run(nil) {
		t.Error("Run(nil) = false, want true")
	}
}

func TestPool_RunAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()

	ran := false
	if pool.Run([]func(){func() { ran = true }}) {
		t.Error("Run() after Close = true, want false")
	}
	if ran {
		t.Error("task executed on a closed pool")
	}
	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
}

func TestPool_CloseIdempotent(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()
}
