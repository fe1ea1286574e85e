package reconcile

import (
	"context"
	"time"
)

// Enqueuer is the producer side of the queue
type Enqueuer interface {
	Enqueue(ctx context.Context, job *Job) error
}

type Queue interface {
	Enqueuer

	// Dequeue blocks up to timeout; it returns (nil, nil) when nothing arrived
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)

	// EnqueueDelayed makes job visible to Dequeue after delay
	EnqueueDelayed(ctx context.Context, job *Job, delay time.Duration) error

	// MoveDelayedToReady promotes due delayed jobs and returns how many moved
	MoveDelayedToReady(ctx context.Context) (int, error)

	// Size is the number of ready jobs
	Size(ctx context.Context) (int64, error)

	// DelayedSize is the number of jobs waiting for their retry time
	DelayedSize(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}
