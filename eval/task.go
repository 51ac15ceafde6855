package eval

import (
	"context"
	"sync"
)

var _ Value = new(Task)

// Task is a cooperative suspension point: an await on a pending Task
// blocks the evaluation until an external party delivers a value with
// Resolve or a failure with Reject. Completion is one-shot; later calls
// are ignored.
type Task struct {
	once  sync.Once
	done  chan struct{}
	value Value
	err   error
}

// NewTask returns a pending Task.
func NewTask() *Task {
	return &Task{done: make(chan struct{})}
}

// Completed returns a Task already resolved with v.
func Completed(v Value) *Task {
	t := NewTask()
	t.Resolve(v)

	return t
}

// Failed returns a Task already rejected with err.
func Failed(err error) *Task {
	t := NewTask()
	t.Reject(err)

	return t
}

func (*Task) Type() string { return "task" }

func (t *Task) String() string {
	select {
	case <-t.done:
		if t.err != nil {
			return "[task rejected]"
		}

		return "[task " + t.value.String() + "]"
	default:
		return "[task pending]"
	}
}

// Resolve completes the task with v.
func (t *Task) Resolve(v Value) {
	t.once.Do(func() {
		t.value = v
		close(t.done)
	})
}

// Reject completes the task with err.
func (t *Task) Reject(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Await blocks until the task completes or ctx is cancelled. A rejection
// is returned as-is so it propagates to the awaiting computation's own
// failure handling unchanged.
func (t *Task) Await(ctx context.Context) (Value, error) {
	select {
	case <-ctx.Done():
		return NullValue, ctx.Err()
	case <-t.done:
		if t.err != nil {
			return NullValue, t.err
		}

		return t.value, nil
	}
}
