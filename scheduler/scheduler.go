package scheduler

import (
	"context"
	"sync"
	"time"

	logger "github.com/ElrondNetwork/elrond-go-logger"
)

var log = logger.GetOrCreate("scheduler")

// Job is one run of a periodic task
type Job func(ctx context.Context)

// Task runs a job immediately and then on every tick until stopped
type Task struct {
	name     string
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

// Every starts job on its own goroutine. The task ends when ctx is done or
// Stop is called.
func Every(ctx context.Context, name string, interval time.Duration, job Job) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		name:     name,
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go t.run(ctx, job)

	return t
}

func (t *Task) run(ctx context.Context, job Job) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	log.Debug("task started", "name", t.name, "interval", t.interval)
	for {
		t.runOnce(ctx, job)

		select {
		case <-ctx.Done():
			log.Debug("task stopped", "name", t.name)
			return
		case <-ticker.C:
		}
	}
}

func (t *Task) runOnce(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("task panicked", "name", t.name, "panic", r)
		}
	}()

	if ctx.Err() != nil {
		return
	}
	job(ctx)
}

func (t *Task) Name() string {
	return t.name
}

// Stop cancels the task and waits for a running job to return
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task has exited
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Group owns a set of tasks sharing one parent context
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	tasks []*Task
}

func NewGroup(ctx context.Context) *Group {
	ctx, cancel := context.WithCancel(ctx)
	return &Group{ctx: ctx, cancel: cancel}
}

// Every starts a task owned by the group
func (g *Group) Every(name string, interval time.Duration, job Job) *Task {
	t := Every(g.ctx, name, interval, job)

	g.mu.Lock()
	g.tasks = append(g.tasks, t)
	g.mu.Unlock()

	return t
}

// Stop cancels every task and waits for all of them
func (g *Group) Stop() {
	g.cancel()

	g.mu.Lock()
	tasks := g.tasks
	g.tasks = nil
	g.mu.Unlock()

	var wg sync.WaitGroup
	for _, t := range tasks {
		wg.Add(1)
		go func(t *Task) {
			defer wg.Done()
			t.Stop()
		}(t)
	}
	wg.Wait()
}
