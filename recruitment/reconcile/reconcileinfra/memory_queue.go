package reconcileinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/prointern/recruitment/reconcile"
)

type delayedJob struct {
	job *reconcile.Job
	due time.Time
}

// MemoryQueue is an in-process queue for the memory storage driver. Jobs
// are lost on restart.
type MemoryQueue struct {
	ready chan *reconcile.Job

	mu      sync.Mutex
	delayed []delayedJob
	now     func() time.Time
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity < 1 {
		capacity = 1024
	}
	return &MemoryQueue{
		ready: make(chan *reconcile.Job, capacity),
		now:   time.Now,
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job *reconcile.Job) error {
	copied := *job
	select {
	case q.ready <- &copied:
		return nil
	default:
		return reconcile.ErrQueueFull().WithDetail("job_id", job.ID)
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (*reconcile.Job, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case job := <-q.ready:
		return job, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) EnqueueDelayed(ctx context.Context, job *reconcile.Job, delay time.Duration) error {
	copied := *job
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delayed = append(q.delayed, delayedJob{job: &copied, due: q.now().Add(delay)})
	return nil
}

func (q *MemoryQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	moved := 0
	pending := q.delayed[:0]
	for _, d := range q.delayed {
		if d.due.After(now) {
			pending = append(pending, d)
			continue
		}
		select {
		case q.ready <- d.job:
			moved++
		default:
			pending = append(pending, d)
		}
	}
	q.delayed = pending
	return moved, nil
}

func (q *MemoryQueue) Size(ctx context.Context) (int64, error) {
	return int64(len(q.ready)), nil
}

func (q *MemoryQueue) DelayedSize(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.delayed)), nil
}

func (q *MemoryQueue) Ping(ctx context.Context) error { return nil }
