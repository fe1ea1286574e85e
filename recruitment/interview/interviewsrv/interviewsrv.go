package interviewsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/metrics"
	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
	"github.com/google/uuid"
)

// InterviewService schedules interviews for applications and lets both
// sides read the schedule
type InterviewService struct {
	interviewRepo   interview.Repository
	applicationRepo application.Repository
	repairs         reconcile.Enqueuer
	now             func() time.Time
}

func NewInterviewService(
	interviewRepo interview.Repository,
	applicationRepo application.Repository,
	repairs reconcile.Enqueuer,
) *InterviewService {
	return &InterviewService{
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		repairs:         repairs,
		now:             time.Now,
	}
}

// Schedule creates the interview for an Applied application and moves it to
// In Review. An interview left behind by an earlier failed attempt is reused.
func (s *InterviewService) Schedule(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID, req interview.ScheduleInterviewRequest) (*interview.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsReviewedBy(recruiterID) {
		return nil, application.ErrUnauthorized().
			WithDetail("application_id", applicationID).
			WithDetail("recruiter_id", recruiterID)
	}
	if err := app.CanAttachInterview(); err != nil {
		return nil, err
	}

	iv, reused, err := s.createOrReuse(ctx, recruiterID, app.ID, req)
	if err != nil {
		return nil, err
	}

	if err := s.applicationRepo.AttachInterview(ctx, app.ID, iv.ID, s.now()); err != nil {
		if errx.IsType(err, errx.TypeUnavailable) || !isTyped(err) {
			s.queueLink(ctx, app.ID, iv.ID, err)
			return nil, errx.Wrap(err, "interview saved but application not updated, repair queued", errx.TypeUnavailable).
				WithDetail("interview_id", iv.ID)
		}
		return nil, err
	}

	action := "created"
	if reused {
		action = "reused"
	}
	metrics.InterviewsScheduled.WithLabelValues(action).Inc()
	logx.Infof("Interview %s scheduled for application %s by recruiter %s", iv.ID, app.ID, recruiterID)
	return iv, nil
}

func (s *InterviewService) createOrReuse(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID, req interview.ScheduleInterviewRequest) (*interview.Interview, bool, error) {
	now := s.now()

	existing, err := s.interviewRepo.FindByApplication(ctx, applicationID)
	switch {
	case err == nil:
		existing.Reschedule(interview.UpdateInterviewRequest{
			Date:        &req.Date,
			Time:        &req.Time,
			MeetingLink: &req.MeetingLink,
		})
		existing.UpdatedAt = now
		if err := s.interviewRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, true, nil
	case !errx.IsType(err, errx.TypeNotFound):
		return nil, false, err
	}

	iv := &interview.Interview{
		ID:            kernel.NewInterviewID(uuid.NewString()),
		ApplicationID: applicationID,
		RecruiterID:   recruiterID,
		Date:          req.Date,
		Time:          req.Time,
		MeetingLink:   req.MeetingLink,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.interviewRepo.Create(ctx, iv); err != nil {
		return nil, false, err
	}
	return iv, false, nil
}

func (s *InterviewService) queueLink(ctx context.Context, applicationID kernel.ApplicationID, interviewID kernel.InterviewID, cause error) {
	log := logx.With(map[string]any{
		"application_id": applicationID,
		"interview_id":   interviewID,
	})
	log.WithError(cause).Warn("application update failed after interview was created")
	metrics.PartialWriteFailures.WithLabelValues("attach_interview").Inc()

	if err := s.repairs.Enqueue(context.WithoutCancel(ctx), reconcile.NewInterviewLinkJob(applicationID, interviewID)); err != nil {
		log.WithError(err).Error("failed to enqueue interview link repair")
	}
}

// Update reschedules an interview. The application status is not touched.
// An interview left over from a failed attach is refused until Schedule links it.
func (s *InterviewService) Update(ctx context.Context, recruiterID kernel.RecruiterID, interviewID kernel.InterviewID, req interview.UpdateInterviewRequest) (*interview.Interview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	iv, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !iv.IsOwnedBy(recruiterID) {
		return nil, interview.ErrUnauthorized().
			WithDetail("interview_id", interviewID).
			WithDetail("recruiter_id", recruiterID)
	}

	app, err := s.applicationRepo.GetByID(ctx, iv.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.IsTerminal() {
		return nil, application.ErrInvalidTransition().
			WithDetail("current_status", app.Status).
			WithDetail("target_status", application.StatusInReview)
	}
	if !app.HasInterview() || *app.InterviewID != iv.ID {
		return nil, interview.ErrNotAttached().
			WithDetail("interview_id", interviewID).
			WithDetail("application_id", app.ID)
	}

	iv.Reschedule(req)
	iv.UpdatedAt = s.now()
	if err := s.interviewRepo.Update(ctx, iv); err != nil {
		return nil, err
	}

	metrics.InterviewsScheduled.WithLabelValues("updated").Inc()
	logx.Infof("Interview %s rescheduled by recruiter %s", interviewID, recruiterID)
	return iv, nil
}

// FetchForApplicant returns the schedule attached to the application, or nil
// when none is. Only the applying intern and the reviewing recruiter may read it.
func (s *InterviewService) FetchForApplicant(ctx context.Context, caller kernel.UserID, applicationID kernel.ApplicationID) (*interview.Schedule, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.BelongsTo(kernel.InternID(caller)) && !app.IsReviewedBy(kernel.RecruiterID(caller)) {
		return nil, application.ErrUnauthorized().WithDetail("application_id", applicationID)
	}
	if !app.HasInterview() {
		return nil, nil
	}

	iv, err := s.interviewRepo.GetByID(ctx, *app.InterviewID)
	if err != nil {
		return nil, err
	}
	schedule := iv.Schedule()
	return &schedule, nil
}

func isTyped(err error) bool {
	_, ok := errx.As(err)
	return ok
}
