package eval_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"

	"github.com/pipelang/pipelang/eval"
)

var _ = Describe("Runner", func() {
	It("should evaluate programs and deliver outcomes", func() {
		ctx, cancel := context.WithCancel(context.TODO())
		defer cancel()

		env := eval.NewEnv()

		var (
			mu      sync.Mutex
			results []eval.Value
		)

		sink := func(v eval.Value, err error) {
			Expect(err).ShouldNot(HaveOccurred())

			mu.Lock()
			results = append(results, v)
			mu.Unlock()
		}

		r := eval.NewRunner(ctx, sink, env)

		Expect(r.Handle(desugared(`let base = 40;`))).To(Succeed())
		Expect(r.Handle(desugared(`1 + 2;`))).To(Succeed())

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()

			return len(results)
		}).Should(Equal(2))
	})

	It("should share the environment across programs", func() {
		ctx, cancel := context.WithCancel(context.TODO())
		defer cancel()

		env := eval.NewEnv()

		done := make(chan eval.Value, 1)
		sink := func(v eval.Value, err error) {
			Expect(err).ShouldNot(HaveOccurred())

			if _, isNull := v.(eval.Null); !isNull {
				done <- v
			}
		}

		r := eval.NewRunner(ctx, sink, env)

		Expect(r.Handle(desugared(`let shout = s => s + "!";`))).To(Succeed())

		Eventually(func() bool {
			_, ok := env.Lookup("shout")

			return ok
		}).Should(BeTrue())

		Expect(r.Handle(desugared(`"hey" |> shout;`))).To(Succeed())

		var v eval.Value
		Eventually(done).Should(Receive(&v))
		Expect(v).To(Equal(eval.String("hey!")))
	})

	It("should reject handles racing cancellation instead of panicking", func() {
		ctx, cancel := context.WithCancel(context.TODO())

		env := eval.NewEnv()
		r := eval.NewRunner(ctx, func(eval.Value, error) {}, env)

		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()

				err := r.Handle(desugared(`1 + 1;`))
				if err != nil {
					Expect(err).To(MatchError(eval.ErrRunnerStopped))
				}
			}()
		}

		cancel()
		wg.Wait()

		Eventually(r.IsRunning).Should(BeFalse())
	})

	It("should stop after context cancellation without leaking goroutines", func() {
		ctx, cancel := context.WithCancel(context.TODO())

		env := eval.NewEnv()
		r := eval.NewRunner(ctx, func(eval.Value, error) {}, env)

		Expect(r.Handle(desugared(`1;`))).To(Succeed())

		cancel()
		time.Sleep(time.Millisecond * 250)
		Eventually(r.IsRunning).Should(BeFalse())

		Expect(r.Handle(desugared(`2;`))).To(MatchError(eval.ErrRunnerStopped))

		err := goleak.Find(
			goleak.
				IgnoreTopFunction(
					"github.com/onsi/ginkgo/v2/internal.(*Suite).runNode",
				),
			goleak.
				IgnoreTopFunction(
					"github.com/onsi/ginkgo/v2/internal/interrupt_handler.(*InterruptHandler).registerForInterrupts.func2",
				),
			goleak.
				IgnoreAnyFunction(
					"github.com/onsi/ginkgo/v2/internal.RegisterForProgressSignal.func1",
				),
		)

		Expect(err).ShouldNot(HaveOccurred())
	})
})
