package eval

import (
	"context"
	"strconv"
	"sync"

	"github.com/pipelang/pipelang/ast"
)

var (
	_ Value    = String("")
	_ Value    = Number(0)
	_ Value    = Bool(false)
	_ Value    = Null{}
	_ Value    = new(Object)
	_ Callable = new(Builtin)
	_ Callable = new(Closure)
)

// Value is a runtime value.
type Value interface {
	// Type returns the value's type name for error messages.
	Type() string
	// String renders the value for display.
	String() string
}

// Callable is a value that can be invoked. recv carries the receiver for
// method calls and is Null for plain calls.
type Callable interface {
	Value
	Call(ctx context.Context, recv Value, args []Value) (Value, error)
}

// String is a string value.
type String string

func (String) Type() string     { return "string" }
func (v String) String() string { return string(v) }

// Number is a numeric value.
type Number float64

func (Number) Type() string { return "number" }

func (v Number) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

// Bool is a boolean value.
type Bool bool

func (Bool) Type() string     { return "bool" }
func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

// Null is the null value.
type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "null" }

// NullValue is the canonical null.
var NullValue = Null{}

// Object is a mutable property bag. Properties holding callables act as
// methods: calling obj.m(...) passes obj as the receiver.
type Object struct {
	mu     sync.RWMutex
	fields map[string]Value
}

// NewObject returns an Object with the given properties.
func NewObject(fields map[string]Value) *Object {
	if fields == nil {
		fields = map[string]Value{}
	}

	return &Object{fields: fields}
}

func (*Object) Type() string     { return "object" }
func (o *Object) String() string { return "[object]" }

// Get returns the named property.
func (o *Object) Get(name string) (Value, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	v, ok := o.fields[name]

	return v, ok
}

// Set stores the named property.
func (o *Object) Set(name string, v Value) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.fields[name] = v
}

// BuiltinFunc is the signature of a host-provided callable.
type BuiltinFunc func(ctx context.Context, recv Value, args []Value) (Value, error)

// Builtin is a host-provided callable.
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

// NewBuiltin wraps fn as a callable value.
func NewBuiltin(name string, fn BuiltinFunc) *Builtin {
	return &Builtin{Name: name, Fn: fn}
}

func (*Builtin) Type() string { return "function" }

func (b *Builtin) String() string { return "[function " + b.Name + "]" }

// Implementation of Callable.
func (b *Builtin) Call(ctx context.Context, recv Value, args []Value) (Value, error) {
	return b.Fn(ctx, recv, args)
}

// Closure is a single-parameter function value produced by an arrow
// literal. It captures the environment it was created in and introduces
// its own scope per call. Closures have no receiver of their own.
type Closure struct {
	Param string
	Body  ast.Expr
	Env   *Env
}

func (*Closure) Type() string { return "function" }

func (c *Closure) String() string { return c.Param + " => ..." }

// Implementation of Callable.
func (c *Closure) Call(ctx context.Context, _ Value, args []Value) (Value, error) {
	arg := Value(NullValue)
	if len(args) > 0 {
		arg = args[0]
	}

	scope := c.Env.Child()
	scope.Define(c.Param, arg)

	return Expression(ctx, scope, c.Body)
}
