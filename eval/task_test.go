package eval_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/pipelang/pipelang/eval"
)

var _ = Describe("Task", func() {
	ctx := context.TODO()

	It("completes once; later completions are ignored", func() {
		task := eval.NewTask()
		task.Resolve(eval.Number(1))
		task.Resolve(eval.Number(2))
		task.Reject(errors.New("late"))

		v, err := task.Await(ctx)

		Expect(err).ShouldNot(HaveOccurred())
		Expect(v).To(Equal(eval.Number(1)))
	})

	It("returns the same outcome for every await", func() {
		task := eval.Completed(eval.String("done"))

		for i := 0; i < 3; i++ {
			v, err := task.Await(ctx)

			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).To(Equal(eval.String("done")))
		}
	})

	It("delivers rejection as an error", func() {
		boom := errors.New("boom")

		_, err := eval.Failed(boom).Await(ctx)

		Expect(err).To(MatchError(boom))
	})

	It("unblocks on context cancellation", func() {
		cancelCtx, cancel := context.WithCancel(ctx)

		pending := eval.NewTask()
		errs := make(chan error, 1)

		go func() {
			_, err := pending.Await(cancelCtx)
			errs <- err
		}()

		cancel()

		var err error
		Eventually(errs).Should(Receive(&err))
		Expect(err).To(MatchError(context.Canceled))
	})
})
