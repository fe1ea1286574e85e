package worker

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
)

// Processor runs one reconcile job
type Processor interface {
	Process(ctx context.Context, job *reconcile.Job) error
}

type Config struct {
	Workers       int
	PollTimeout   time.Duration
	DelayedTicker time.Duration
}

type ReconcileWorker struct {
	processor Processor
	queue     reconcile.Queue
	cfg       Config
	wg        sync.WaitGroup
}

func NewReconcileWorker(processor Processor, queue reconcile.Queue, cfg Config) *ReconcileWorker {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	if cfg.DelayedTicker <= 0 {
		cfg.DelayedTicker = 30 * time.Second
	}
	return &ReconcileWorker{
		processor: processor,
		queue:     queue,
		cfg:       cfg,
	}
}

// Start launches the consumers and the delayed job mover. They stop when
// ctx is cancelled; Wait blocks until they have.
func (w *ReconcileWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d reconcile workers", w.cfg.Workers)

	w.wg.Add(1)
	go w.moveDelayedJobs(ctx)

	for i := 0; i < w.cfg.Workers; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i)
	}
}

func (w *ReconcileWorker) Wait() {
	w.wg.Wait()
}

func (w *ReconcileWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	logx.Debugf("Reconcile worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Debugf("Reconcile worker %d stopping", workerID)
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx, w.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logx.Errorf("Reconcile worker %d dequeue error: %v", workerID, err)
			w.backoff(ctx)
			continue
		}
		if job == nil {
			continue
		}

		logx.Debugf("Reconcile worker %d processing %s job %s", workerID, job.Kind, job.ID)
		if err := w.processor.Process(ctx, job); err != nil {
			logx.Warnf("Reconcile worker %d: job %s failed: %v", workerID, job.ID, err)
		}
	}
}

func (w *ReconcileWorker) backoff(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
	}
}

func (w *ReconcileWorker) moveDelayedJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.cfg.DelayedTicker)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed reconcile jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed reconcile jobs to ready queue", count)
			}
		}
	}
}
