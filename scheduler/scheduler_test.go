package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	task := Every(context.Background(), "immediate", time.Hour, func(context.Context) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	defer task.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run before the first tick")
	}
}

func TestStopIsDeterministic(t *testing.T) {
	var runs int32
	task := Every(context.Background(), "ticker", 5*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&runs, 1)
	})

	time.Sleep(30 * time.Millisecond)
	task.Stop()
	after := atomic.LoadInt32(&runs)
	if after == 0 {
		t.Fatal("job never ran")
	}

	time.Sleep(20 * time.Millisecond)
	if atomic.LoadInt32(&runs) != after {
		t.Error("job ran after Stop returned")
	}

	task.Stop()
}

func TestPanicDoesNotKillTask(t *testing.T) {
	var runs int32
	task := Every(context.Background(), "panics", 2*time.Millisecond, func(context.Context) {
		atomic.AddInt32(&runs, 1)
		panic("boom")
	})

	time.Sleep(20 * time.Millisecond)
	task.Stop()
	if n := atomic.LoadInt32(&runs); n < 2 {
		t.Errorf("runs = %d", n)
	}
}

func TestGroupStop(t *testing.T) {
	g := NewGroup(context.Background())
	var a, b int32
	ta := g.Every("a", time.Millisecond, func(context.Context) { atomic.AddInt32(&a, 1) })
	tb := g.Every("b", time.Millisecond, func(context.Context) { atomic.AddInt32(&b, 1) })

	time.Sleep(10 * time.Millisecond)
	g.Stop()

	for _, task := range []*Task{ta, tb} {
		select {
		case <-task.Done():
		default:
			t.Errorf("task %s still running", task.Name())
		}
	}
}

func TestParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Every(ctx, "parent", time.Hour, func(context.Context) {})
	cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task ignored parent cancellation")
	}
}
