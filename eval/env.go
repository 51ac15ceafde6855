package eval

import "sync"

// Env is a lexically scoped name environment. It is safe for concurrent
// use, so a Runner can evaluate programs against a shared environment.
type Env struct {
	mu     sync.RWMutex
	parent *Env
	vars   map[string]Value
}

// NewEnv returns an empty top-level environment.
func NewEnv() *Env {
	return &Env{vars: map[string]Value{}}
}

// Child returns a new scope nested in e.
func (e *Env) Child() *Env {
	return &Env{parent: e, vars: map[string]Value{}}
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.vars[name] = v
}

// Lookup resolves name through the scope chain.
func (e *Env) Lookup(name string) (Value, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		scope.mu.RLock()
		v, ok := scope.vars[name]
		scope.mu.RUnlock()

		if ok {
			return v, true
		}
	}

	return nil, false
}
