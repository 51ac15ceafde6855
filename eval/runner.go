package eval

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pipelang/pipelang/ast"
)

var ErrRunnerStopped = errors.New("script runner is stopped")

// Runner evaluates programs asynchronously against a shared environment.
type Runner interface {
	// Asynchronously evaluates a program and returns an error if the
	// Runner is stopped.
	Handle(*ast.Program) error
	// Returns false if the Runner was stopped.
	IsRunning() bool
}

// NewRunner returns a Runner bound to env. Each outcome is delivered to
// sink. The Runner stops when ctx is cancelled.
func NewRunner(ctx context.Context, sink func(Value, error), env *Env) Runner {
	r := &runner{
		ctx:  ctx,
		sink: sink,
		env:  env,
	}

	r.start()

	return r
}

type runner struct {
	ctx      context.Context
	env      *Env
	programs chan *ast.Program
	sink     func(Value, error)
	started  atomic.Bool
}

func (r *runner) Handle(p *ast.Program) error {
	if !r.started.Load() {
		return ErrRunnerStopped
	}

	// shutdown can win the race after the started check; ctx.Done
	// unblocks the lost send.
	select {
	case r.programs <- p:
		return nil
	case <-r.ctx.Done():
		return ErrRunnerStopped
	}
}

func (r *runner) IsRunning() bool {
	return r.started.Load()
}

func (r *runner) start() {
	if r.started.Load() {
		return
	}

	r.programs = make(chan *ast.Program)
	r.started.Store(true)

	go func() {
		var wg sync.WaitGroup
		// programs is never closed; a Handle racing shutdown exits
		// through ctx.Done.
		shutdown := func() {
			wg.Wait()

			r.started.Store(false)
		}

		for {
			select {
			case <-r.ctx.Done():
				shutdown()

				return
			default:
			}

			select {
			case <-r.ctx.Done():
				shutdown()

				return
			case p := <-r.programs:
				wg.Add(1)
				go func() {
					defer wg.Done()

					ctx, cancel := context.WithCancel(r.ctx)

					r.sink(Program(ctx, r.env, p))

					cancel()
				}()
			}
		}
	}()
}
