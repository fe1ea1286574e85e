// Package reviewsrv moves applications through the review state machine.
package reviewsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/metrics"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application"
)

type ReviewService struct {
	applicationRepo application.Repository
	now             func() time.Time
}

func NewReviewService(applicationRepo application.Repository) *ReviewService {
	return &ReviewService{
		applicationRepo: applicationRepo,
		now:             time.Now,
	}
}

// Accept closes the application as Accepted. An attached interview is kept.
func (s *ReviewService) Accept(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID) (*application.Application, error) {
	return s.decide(ctx, recruiterID, applicationID, application.StatusAccepted)
}

// Reject closes the application as Rejected. An attached interview is kept.
func (s *ReviewService) Reject(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID) (*application.Application, error) {
	return s.decide(ctx, recruiterID, applicationID, application.StatusRejected)
}

func (s *ReviewService) decide(ctx context.Context, recruiterID kernel.RecruiterID, applicationID kernel.ApplicationID, target application.Status) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !app.IsReviewedBy(recruiterID) {
		return nil, application.ErrUnauthorized().
			WithDetail("application_id", applicationID).
			WithDetail("recruiter_id", recruiterID)
	}

	from := app.Status
	if err := app.UpdateStatus(target); err != nil {
		return nil, err
	}

	at := s.now()
	// Guarded on the status read above so a concurrent decision cannot be
	// overwritten
	if err := s.applicationRepo.TransitionStatus(ctx, applicationID, from, target, at); err != nil {
		return nil, err
	}
	app.StatusChangedAt = &at
	app.UpdatedAt = at

	metrics.ApplicationTransitions.WithLabelValues(string(from), string(target)).Inc()
	logx.Infof("Application %s moved from %s to %s by recruiter %s", applicationID, from, target, recruiterID)
	return app, nil
}
