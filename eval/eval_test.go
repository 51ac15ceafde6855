package eval_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pipelang/pipelang/ast"
	"github.com/pipelang/pipelang/desugar"
	"github.com/pipelang/pipelang/eval"
	"github.com/pipelang/pipelang/parser"
)

// desugared parses src and eliminates its pipeline nodes.
func desugared(src string) *ast.Program {
	p, err := parser.Parse(src)
	Expect(err).ShouldNot(HaveOccurred())

	out, err := desugar.Program(p)
	Expect(err).ShouldNot(HaveOccurred())

	return out
}

var _ = Describe("Evaluator", func() {
	ctx := context.TODO()

	It("evaluates literals, lets and closures", func() {
		env := eval.NewEnv()

		v, err := eval.Program(ctx, env, desugared(`let add = x => x + 2; add(40);`))

		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.Number(42)))
	})

	It("refuses trees that still contain pipeline nodes", func() {
		p, err := parser.Parse(`1 |> f;`)
		Expect(err).ShouldNot(HaveOccurred())

		env := eval.NewEnv()
		env.Define("f", identity())

		_, err = eval.Program(ctx, env, p)

		Expect(err).Should(HaveOccurred())
		Expect(errors.Is(err, eval.ErrPipelineNode)).To(BeTrue())
	})

	It("preserves the receiver of a method stage", func() {
		obj := eval.NewObject(map[string]eval.Value{"prefix": eval.String("Dr. ")})
		obj.Set("greet", eval.NewBuiltin("greet", func(_ context.Context, recv eval.Value, args []eval.Value) (eval.Value, error) {
			prefix, _ := recv.(*eval.Object).Get("prefix")

			return eval.String(prefix.String() + args[0].String()), nil
		}))

		env := eval.NewEnv()
		env.Define("obj", obj)
		env.Define("v", eval.String("Jones"))

		v, err := eval.Program(ctx, env, desugared(`v |> obj.greet;`))

		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.String("Dr. Jones")),
			"the method must read state from obj, not from the piped value")
	})

	It("evaluates each stage expression exactly once", func() {
		var fTicks, gTicks atomic.Int32

		env := eval.NewEnv()
		env.Define("v", eval.Number(1))
		env.Define("tickF", counting(&fTicks))
		env.Define("tickG", counting(&gTicks))

		v, err := eval.Program(ctx, env, desugared(`v |> (tickF()) |> (tickG());`))

		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.Number(1)))
		Expect(fTicks.Load()).To(Equal(int32(1)))
		Expect(gTicks.Load()).To(Equal(int32(1)))
	})

	Context("suspension", func() {
		It("runs later stages only after resumption", func() {
			task := eval.NewTask()

			var called atomic.Bool

			env := eval.NewEnv()
			env.Define("p", task)
			env.Define("f", eval.NewBuiltin("f", func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
				called.Store(true)

				return args[0], nil
			}))

			program := desugared(`p |> await |> f;`)

			type outcome struct {
				value eval.Value
				err   error
			}

			results := make(chan outcome, 1)

			go func() {
				v, err := eval.Program(ctx, env, program)
				results <- outcome{v, err}
			}()

			Consistently(called.Load).Should(BeFalse(),
				"no stage after the suspension point may start before resumption")

			task.Resolve(eval.String("resumed"))

			var got outcome
			Eventually(results).Should(Receive(&got))
			Expect(got.err).ShouldNot(HaveOccurred())
			Expect(got.value).To(Equal(eval.String("resumed")))
			Expect(called.Load()).To(BeTrue())
		})

		It("propagates a rejection and skips later stages", func() {
			task := eval.NewTask()
			boom := errors.New("boom")

			var called atomic.Bool

			env := eval.NewEnv()
			env.Define("p", task)
			env.Define("f", eval.NewBuiltin("f", func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
				called.Store(true)

				return args[0], nil
			}))

			errs := make(chan error, 1)

			go func() {
				_, err := eval.Program(ctx, env, desugared(`p |> await |> f;`))
				errs <- err
			}()

			task.Reject(boom)

			var err error
			Eventually(errs).Should(Receive(&err))
			Expect(err).To(MatchError(boom))
			Expect(called.Load()).To(BeFalse())
		})

		It("never runs remaining stages after cancellation", func() {
			task := eval.NewTask()

			var called atomic.Bool

			env := eval.NewEnv()
			env.Define("p", task)
			env.Define("f", eval.NewBuiltin("f", func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
				called.Store(true)

				return args[0], nil
			}))

			cancelCtx, cancel := context.WithCancel(ctx)
			errs := make(chan error, 1)

			go func() {
				_, err := eval.Program(cancelCtx, env, desugared(`p |> await |> f;`))
				errs <- err
			}()

			cancel()

			var err error
			Eventually(errs).Should(Receive(&err))
			Expect(err).To(MatchError(context.Canceled))
			Expect(called.Load()).To(BeFalse())
		})

		It("passes settled values through await", func() {
			env := eval.NewEnv()
			env.Define("v", eval.Number(7))
			env.Define("f", identity())

			v, err := eval.Program(ctx, env, desugared(`v |> await |> f;`))

			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).To(Equal(eval.Number(7)))
		})
	})

	It("orders calls per the arrow-termination rule", func() {
		var (
			mu    sync.Mutex
			trace []string
		)

		record := func(name string) *eval.Builtin {
			return eval.NewBuiltin(name, func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
				mu.Lock()
				trace = append(trace, name+"("+args[0].String()+")")
				mu.Unlock()

				return eval.String(args[0].String() + "." + name), nil
			})
		}

		env := eval.NewEnv()
		env.Define("a", record("a"))
		env.Define("b", record("b"))

		// A top-level arrow captures the whole chain as its body: nothing
		// runs until the arrow is called.
		_, err := eval.Program(ctx, env, desugared(`let h = x => x |> a |> b;`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(trace).To(BeEmpty())

		v, err := eval.Program(ctx, env, desugared(`h("v");`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.String("v.a.b")))
		Expect(trace).To(Equal([]string{"a(v)", "b(v.a)"}))

		// A parenthesized arrow stage keeps its own chain; the outer |> b
		// applies to the inner pipeline's result.
		trace = nil

		v, err = eval.Program(ctx, env, desugared(`"w" |> (x => x |> a) |> b;`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.String("w.a.b")))
		Expect(trace).To(Equal([]string{"a(w)", "b(w.a)"}))

		// An unparenthesized stage arrow terminates at the next separator,
		// so b belongs to the outer chain and sees the arrow's result.
		trace = nil

		v, err = eval.Program(ctx, env, desugared(`"u" |> x => x + x |> b;`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.String("uu.b")))
		Expect(trace).To(Equal([]string{"b(uu)"}))
	})

	It("pipes end to end", func() {
		env := eval.NewEnv()
		env.Define("doubleSay", mustClosure(env, `s => s + ", " + s`))
		env.Define("capitalize", eval.NewBuiltin("capitalize", func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
			s := args[0].String()
			if s == "" {
				return args[0], nil
			}

			return eval.String(string(s[0]-'a'+'A') + s[1:]), nil
		}))
		env.Define("exclaim", mustClosure(env, `s => s + "!"`))

		v, err := eval.Program(ctx, env, desugared(`"hello" |> doubleSay |> capitalize |> exclaim;`))

		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.String("Hello, hello!")))
	})
})

func identity() *eval.Builtin {
	return eval.NewBuiltin("identity", func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
		return args[0], nil
	})
}

// counting returns a builtin that bumps counter and yields an identity
// function, so using it as a stage expression observes how many times the
// stage was evaluated.
func counting(counter *atomic.Int32) *eval.Builtin {
	return eval.NewBuiltin("tick", func(_ context.Context, _ eval.Value, _ []eval.Value) (eval.Value, error) {
		counter.Add(1)

		return identity(), nil
	})
}

func mustClosure(env *eval.Env, src string) eval.Value {
	e, err := parser.ParseExpr(src)
	Expect(err).ShouldNot(HaveOccurred())

	arrow := e.(*ast.ArrowFunc)

	return &eval.Closure{Param: arrow.Param.Name, Body: arrow.Body, Env: env}
}
