package reconcileinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
	"github.com/redis/go-redis/v9"
)

// RedisQueue keeps ready jobs in a list and retries in a sorted set scored
// by due time
type RedisQueue struct {
	client    *redis.Client
	queueName string
	now       func() time.Time
}

func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
		now:       time.Now,
	}
}

func (q *RedisQueue) delayedQueue() string {
	return q.queueName + ":delayed"
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *reconcile.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return errx.Wrap(err, "marshal reconcile job", errx.TypeInternal).WithDetail("job_id", job.ID)
	}

	if err := q.client.LPush(ctx, q.queueName, data).Err(); err != nil {
		return reconcile.ErrQueueUnavailable().WithDetail("job_id", job.ID).WithDetail("error", err.Error())
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*reconcile.Job, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, reconcile.ErrQueueUnavailable().WithDetail("error", err.Error())
	}

	if len(result) < 2 {
		return nil, fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	var job reconcile.Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, reconcile.ErrInvalidJob().WithDetail("error", err.Error())
	}
	return &job, nil
}

func (q *RedisQueue) EnqueueDelayed(ctx context.Context, job *reconcile.Job, delay time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return errx.Wrap(err, "marshal reconcile job", errx.TypeInternal).WithDetail("job_id", job.ID)
	}

	score := float64(q.now().Add(delay).Unix())
	if err := q.client.ZAdd(ctx, q.delayedQueue(), redis.Z{Score: score, Member: data}).Err(); err != nil {
		return reconcile.ErrQueueUnavailable().WithDetail("job_id", job.ID).WithDetail("error", err.Error())
	}
	return nil
}

func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := float64(q.now().Unix())

	jobs, err := q.client.ZRangeByScore(ctx, q.delayedQueue(), &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return 0, reconcile.ErrQueueUnavailable().WithDetail("error", err.Error())
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	pipe := q.client.TxPipeline()
	for _, job := range jobs {
		pipe.LPush(ctx, q.queueName, job)
		pipe.ZRem(ctx, q.delayedQueue(), job)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, reconcile.ErrQueueUnavailable().WithDetail("error", err.Error())
	}
	return len(jobs), nil
}

func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return 0, reconcile.ErrQueueUnavailable().WithDetail("error", err.Error())
	}
	return size, nil
}

func (q *RedisQueue) DelayedSize(ctx context.Context) (int64, error) {
	size, err := q.client.ZCard(ctx, q.delayedQueue()).Result()
	if err != nil {
		return 0, reconcile.ErrQueueUnavailable().WithDetail("error", err.Error())
	}
	return size, nil
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	if err := q.client.Ping(ctx).Err(); err != nil {
		return reconcile.ErrQueueUnavailable().WithDetail("error", err.Error())
	}
	return nil
}
