package worker

import (
	"context"

	"moodline.app/pulse/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// Processor abstracts what happens to one analyzed-message task, so the
// queue mechanics can be tested apart from the alerting logic.
type Processor interface {
	Process(ctx context.Context, msg queue.Message) error
}
