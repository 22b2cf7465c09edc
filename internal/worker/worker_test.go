package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"moodline.app/pulse/internal/queue"
	"moodline.app/pulse/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		consumer  *mockConsumer
		processor *mockProcessor
		w         *worker.Worker
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		processor = &mockProcessor{}
		w = worker.New(consumer, processor, worker.Config{MaxAttempts: 3})
	})

	// deliverOnce hands the loop a single batch, then an idle stream.
	deliverOnce := func(msgs ...queue.Message) {
		delivered := false
		consumer.readFn = func(_ context.Context) ([]queue.Message, error) {
			if delivered {
				time.Sleep(time.Millisecond)
				return []queue.Message{}, nil
			}
			delivered = true
			return msgs, nil
		}
	}

	runUntil := func(condition func() int, expected int) {
		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			defer close(done)
			_ = w.Run(ctx)
		}()

		Eventually(condition).Should(Equal(expected))

		w.Stop()
		Eventually(done).Should(BeClosed())
	}

	Describe("ProcessMessage", func() {
		It("should ack the message after successful processing", func() {
			msg := queue.Message{ID: "1-0", UserID: 7, MessageID: 42, Attempt: 1}

			err := w.ProcessMessage(ctx, msg)

			Expect(err).NotTo(HaveOccurred())
			Expect(processor.processedCount()).To(Equal(1))
			Expect(consumer.ackCount()).To(Equal(1))
		})

		It("should not ack when processing fails", func() {
			processor.processFn = func(_ context.Context, _ queue.Message) error {
				return errors.New("boom")
			}

			err := w.ProcessMessage(ctx, queue.Message{ID: "1-0", Attempt: 1})

			Expect(err).To(HaveOccurred())
			Expect(consumer.ackCount()).To(BeZero())
		})

		It("should succeed even when the ack fails", func() {
			// Processing is idempotent, so a lost ack only means a replay.
			consumer.ackFn = func(_ context.Context, _ queue.Message) error {
				return errors.New("connection reset")
			}

			err := w.ProcessMessage(ctx, queue.Message{ID: "1-0", Attempt: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(consumer.ackCount()).To(Equal(1))
		})
	})

	Describe("Run", func() {
		It("should process and ack a delivered message", func() {
			deliverOnce(queue.Message{ID: "1-0", UserID: 7, MessageID: 42, Attempt: 1})

			runUntil(consumer.ackCount, 1)

			Expect(processor.processedCount()).To(Equal(1))
			Expect(consumer.requeueCount()).To(BeZero())
		})

		It("should requeue a failed message below the attempt limit", func() {
			deliverOnce(queue.Message{ID: "1-0", Attempt: 1})
			processor.processFn = func(_ context.Context, _ queue.Message) error {
				return errors.New("transient failure")
			}

			runUntil(consumer.requeueCount, 1)

			Expect(consumer.dlqCount()).To(BeZero())
			Expect(consumer.ackCount()).To(BeZero())
		})

		It("should dead-letter a message at the attempt limit", func() {
			deliverOnce(queue.Message{ID: "1-0", Attempt: 3})
			processor.processFn = func(_ context.Context, _ queue.Message) error {
				return errors.New("permanent failure")
			}

			runUntil(consumer.dlqCount, 1)

			Expect(consumer.requeueCount()).To(BeZero())
		})

		It("should recover from a processor panic and requeue", func() {
			deliverOnce(queue.Message{ID: "1-0", Attempt: 1})
			processor.processFn = func(_ context.Context, _ queue.Message) error {
				panic("unexpected state")
			}

			runUntil(consumer.requeueCount, 1)

			Expect(consumer.dlqCount()).To(BeZero())
		})

		It("should stop when the context is cancelled", func() {
			cancelCtx, cancel := context.WithCancel(ctx)

			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				_ = w.Run(cancelCtx)
			}()

			cancel()
			Eventually(done).Should(BeClosed())
		})
	})
})
