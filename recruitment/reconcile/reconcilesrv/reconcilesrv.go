// Package reconcilesrv regenerates the advisory mirror sets and interview
// links from the authoritative application records.
package reconcilesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/metrics"
	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
)

type Config struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{MaxAttempts: 5, RetryDelay: 30 * time.Second}
}

type Service struct {
	applicationRepo application.Repository
	internshipRepo  internship.Repository
	internRepo      intern.Repository
	interviewRepo   interview.Repository
	queue           reconcile.Queue
	cfg             Config
	now             func() time.Time
}

func NewService(
	applicationRepo application.Repository,
	internshipRepo internship.Repository,
	internRepo intern.Repository,
	interviewRepo interview.Repository,
	queue reconcile.Queue,
	cfg Config,
) *Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &Service{
		applicationRepo: applicationRepo,
		internshipRepo:  internshipRepo,
		internRepo:      internRepo,
		interviewRepo:   interviewRepo,
		queue:           queue,
		cfg:             cfg,
		now:             time.Now,
	}
}

// RepairApplication puts the application back into both mirror sets.
// Records that no longer exist are skipped.
func (s *Service) RepairApplication(ctx context.Context, applicationID kernel.ApplicationID) error {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}

	if err := s.internRepo.AddAppliedInternship(ctx, app.InternID, app.InternshipID); err != nil && !errx.IsType(err, errx.TypeNotFound) {
		return err
	}
	if err := s.internshipRepo.AddApplicant(ctx, app.InternshipID, app.InternID); err != nil && !errx.IsType(err, errx.TypeNotFound) {
		return err
	}

	logx.Infof("Mirrors repaired for application %s", applicationID)
	return nil
}

// LinkInterview attaches interviewID to an Applied application that has no
// interview yet. Anything else is left as it is.
func (s *Service) LinkInterview(ctx context.Context, applicationID kernel.ApplicationID, interviewID kernel.InterviewID) error {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.CanAttachInterview() != nil {
		logx.Debugf("Application %s no longer accepts interview %s, skipping", applicationID, interviewID)
		return nil
	}

	iv, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil
		}
		return err
	}
	if !iv.BelongsTo(applicationID) {
		logx.Warnf("Interview %s belongs to application %s, not %s", interviewID, iv.ApplicationID, applicationID)
		return nil
	}

	err = s.applicationRepo.AttachInterview(ctx, applicationID, interviewID, s.now())
	switch {
	case err == nil:
		logx.Infof("Interview %s linked to application %s", interviewID, applicationID)
		return nil
	case errx.IsCode(err, application.CodeInvalidTransition), errx.IsCode(err, interview.CodeAlreadyScheduled):
		return nil
	default:
		return err
	}
}

// RebuildInternMirror regenerates the intern's applied-internship set
func (s *Service) RebuildInternMirror(ctx context.Context, internID kernel.InternID) error {
	apps, err := s.applicationRepo.ListByIntern(ctx, internID)
	if err != nil {
		return err
	}
	ids := make([]kernel.InternshipID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.InternshipID)
	}
	if err := s.internRepo.SetAppliedInternships(ctx, internID, ids); err != nil {
		return err
	}
	logx.Infof("Rebuilt mirror for intern %s with %d internships", internID, len(ids))
	return nil
}

// RebuildInternshipMirror regenerates the internship's applicant set
func (s *Service) RebuildInternshipMirror(ctx context.Context, internshipID kernel.InternshipID) error {
	apps, err := s.applicationRepo.ListByInternship(ctx, internshipID)
	if err != nil {
		return err
	}
	ids := make([]kernel.InternID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.InternID)
	}
	if err := s.internshipRepo.SetApplicants(ctx, internshipID, ids); err != nil {
		return err
	}
	logx.Infof("Rebuilt mirror for internship %s with %d applicants", internshipID, len(ids))
	return nil
}

// RebuildApplicationMirrors regenerates the intern mirror and the internship
// mirror that the application contributes to
func (s *Service) RebuildApplicationMirrors(ctx context.Context, applicationID kernel.ApplicationID) error {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.RebuildInternMirror(ctx, app.InternID); err != nil && !errx.IsType(err, errx.TypeNotFound) {
		return err
	}
	if err := s.RebuildInternshipMirror(ctx, app.InternshipID); err != nil && !errx.IsType(err, errx.TypeNotFound) {
		return err
	}
	return nil
}

// Process runs one job. A failed job is put back with a growing delay until
// it runs out of attempts, then dropped.
func (s *Service) Process(ctx context.Context, job *reconcile.Job) error {
	if err := job.Validate(); err != nil {
		metrics.ReconcileJobs.WithLabelValues(string(job.Kind), "invalid").Inc()
		logx.With(map[string]any{"job_id": job.ID}).WithError(err).Error("dropping invalid reconcile job")
		return err
	}

	start := s.now()
	err := s.dispatch(ctx, job)
	metrics.ReconcileJobDuration.WithLabelValues(string(job.Kind)).Observe(s.now().Sub(start).Seconds())

	if err == nil {
		metrics.ReconcileJobs.WithLabelValues(string(job.Kind), "succeeded").Inc()
		return nil
	}

	log := logx.With(map[string]any{
		"job_id":         job.ID,
		"kind":           job.Kind,
		"application_id": job.ApplicationID,
	}).WithError(err)

	if errx.IsCode(err, application.CodeApplicationNotFound) {
		metrics.ReconcileJobs.WithLabelValues(string(job.Kind), "dropped").Inc()
		log.Warn("application is gone, dropping reconcile job")
		return err
	}

	if !job.RecordFailure(err, s.cfg.MaxAttempts) {
		metrics.ReconcileJobs.WithLabelValues(string(job.Kind), "dropped").Inc()
		log.Error("reconcile job exhausted its attempts")
		return err
	}

	delay := s.cfg.RetryDelay * time.Duration(job.Attempt)
	if qerr := s.queue.EnqueueDelayed(context.WithoutCancel(ctx), job, delay); qerr != nil {
		metrics.ReconcileJobs.WithLabelValues(string(job.Kind), "dropped").Inc()
		log.Errorf("failed to requeue reconcile job: %v", qerr)
		return err
	}

	metrics.ReconcileJobs.WithLabelValues(string(job.Kind), "retried").Inc()
	log.Warnf("reconcile job failed, retry %d/%d in %s", job.Attempt, job.MaxAttempts, delay)
	return err
}

func (s *Service) dispatch(ctx context.Context, job *reconcile.Job) error {
	switch job.Kind {
	case reconcile.KindMirrors:
		return s.RepairApplication(ctx, job.ApplicationID)
	case reconcile.KindInterviewLink:
		return s.LinkInterview(ctx, job.ApplicationID, *job.InterviewID)
	case reconcile.KindRebuildMirrors:
		return s.RebuildApplicationMirrors(ctx, job.ApplicationID)
	default:
		return reconcile.ErrUnknownKind().WithDetail("kind", job.Kind)
	}
}

// RequestRepair queues a MIRRORS job for an application the recruiter reviews
func (s *Service) RequestRepair(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID) (*reconcile.Job, error) {
	return s.request(ctx, recruiterID, applicationID, reconcile.NewMirrorsJob)
}

// RequestRebuild queues a REBUILD_MIRRORS job for an application the recruiter reviews
func (s *Service) RequestRebuild(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID) (*reconcile.Job, error) {
	return s.request(ctx, recruiterID, applicationID, reconcile.NewRebuildMirrorsJob)
}

func (s *Service) request(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID, newJob func(kernel.ApplicationID) *reconcile.Job) (*reconcile.Job, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsReviewedBy(recruiterID) {
		return nil, application.ErrUnauthorized().WithDetail("application_id", applicationID)
	}
	job := newJob(applicationID)
	job.MaxAttempts = s.cfg.MaxAttempts
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// QueueStats reports the ready and delayed queue depths
type QueueStats struct {
	Ready   int64 `json:"ready"`
	Delayed int64 `json:"delayed"`
}

func (s *Service) Stats(ctx context.Context) (*QueueStats, error) {
	ready, err := s.queue.Size(ctx)
	if err != nil {
		return nil, err
	}
	delayed, err := s.queue.DelayedSize(ctx)
	if err != nil {
		return nil, err
	}
	return &QueueStats{Ready: ready, Delayed: delayed}, nil
}
