package video

import (
	"context"
	"time"
)

// BurnResult describes a finished burn.
type BurnResult struct {
	OutputPath string
	Size       int64
	Elapsed    time.Duration
}

// Task is a running burn. Progress reports whole percentages that never
// decrease; the channel is closed when the burn ends, successfully or not.
type Task struct {
	progress chan int
	done     chan struct{}
	cancel   context.CancelFunc

	last   int
	result *BurnResult
	err    error
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{
		progress: make(chan int, 1),
		done:     make(chan struct{}),
		cancel:   cancel,
		last:     -1,
	}
}

// StartTask runs fn on its own goroutine. fn may call report from that
// goroutine only; a nil error from fn completes the task at 100.
func StartTask(
	ctx context.Context,
	fn func(ctx context.Context, report func(int)) (*BurnResult, error),
) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := newTask(cancel)

	go func() {
		result, err := fn(ctx, task.report)
		if err != nil {
			result = nil
		}
		task.finish(result, err)
	}()

	return task
}

func (t *Task) Progress() <-chan int {
	return t.progress
}

// Wait blocks until the burn has ended.
func (t *Task) Wait() (*BurnResult, error) {
	<-t.done
	return t.result, t.err
}

// Done is closed once Wait would return.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Cancel() {
	t.cancel()
}

// report publishes p if it advances the last value. Only the task's own
// goroutine calls it, so replacing a stale buffered value cannot block.
func (t *Task) report(p int) {
	p = min(max(p, 0), 100)
	if p <= t.last {
		return
	}
	t.last = p

	select {
	case t.progress <- p:
	default:
		select {
		case <-t.progress:
		default:
		}
		t.progress <- p
	}
}

func (t *Task) finish(result *BurnResult, err error) {
	if err == nil {
		t.report(100)
	}
	t.result = result
	t.err = err
	close(t.progress)
	t.cancel()
	close(t.done)
}
