package applicationsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/internal/metrics"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/intern"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	"github.com/Abraxas-365/prointern/recruitment/reconcile"
	"github.com/google/uuid"
)

const defaultFanOut = 8

// ApplicationService submits applications and assembles the list views
// recruiters and interns see
type ApplicationService struct {
	applicationRepo application.Repository
	internshipRepo  internship.Repository
	internRepo      intern.Repository
	interviewRepo   interview.Repository
	repairs         reconcile.Enqueuer
	fanOut          int
	now             func() time.Time
}

func NewApplicationService(
	applicationRepo application.Repository,
	internshipRepo internship.Repository,
	internRepo intern.Repository,
	interviewRepo interview.Repository,
	repairs reconcile.Enqueuer,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		internshipRepo:  internshipRepo,
		internRepo:      internRepo,
		interviewRepo:   interviewRepo,
		repairs:         repairs,
		fanOut:          defaultFanOut,
		now:             time.Now,
	}
}

// CreateApplication submits internID's application to req.InternshipID.
// The intern and internship mirror writes that follow the application write
// are not fatal: a failure queues a MIRRORS repair and the call still succeeds.
func (s *ApplicationService) CreateApplication(ctx context.Context, internID kernel.InternID, req application.CreateApplicationRequest) (*application.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	posting, err := s.internshipRepo.GetByID(ctx, req.InternshipID)
	if err != nil {
		return nil, err
	}

	applicant, err := s.internRepo.GetByID(ctx, internID)
	if err != nil {
		return nil, err
	}

	// The mirror set is a cache; the pair lookup and the store's unique key
	// are what make the rule hold
	if applicant.HasAppliedTo(req.InternshipID) {
		return nil, application.ErrAlreadyApplied().WithDetail("internship_id", req.InternshipID)
	}
	exists, err := s.applicationRepo.ExistsByInternAndInternship(ctx, internID, req.InternshipID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, application.ErrAlreadyApplied().WithDetail("internship_id", req.InternshipID)
	}

	now := s.now()
	app := &application.Application{
		ID:           kernel.NewApplicationID(uuid.NewString()),
		InternshipID: posting.ID,
		InternID:     internID,
		RecruiterID:  posting.OwnerRecruiterID,
		JobTitle:     posting.Title,
		CompanyName:  posting.CompanyName,
		LogoRef:      posting.LogoRef,
		Status:       application.StatusApplied,
		CoverLetter:  req.CoverLetter,
		AppliedOn:    now,
		UpdatedAt:    now,
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	metrics.ApplicationsCreated.Inc()

	s.writeMirrors(context.WithoutCancel(ctx), app)

	logx.Infof("Application %s created: intern %s applied to internship %s", app.ID, internID, posting.ID)
	return app, nil
}

func (s *ApplicationService) writeMirrors(ctx context.Context, app *application.Application) {
	log := logx.With(map[string]any{
		"application_id": app.ID,
		"intern_id":      app.InternID,
		"internship_id":  app.InternshipID,
	})

	failed := false
	if err := s.internRepo.AddAppliedInternship(ctx, app.InternID, app.InternshipID); err != nil {
		log.WithError(err).Warn("intern mirror write failed")
		metrics.PartialWriteFailures.WithLabelValues("intern_mirror").Inc()
		failed = true
	}
	if err := s.internshipRepo.AddApplicant(ctx, app.InternshipID, app.InternID); err != nil {
		log.WithError(err).Warn("internship mirror write failed")
		metrics.PartialWriteFailures.WithLabelValues("internship_mirror").Inc()
		failed = true
	}
	if failed {
		s.enqueueRepair(ctx, reconcile.NewMirrorsJob(app.ID))
	}
}

func (s *ApplicationService) enqueueRepair(ctx context.Context, job *reconcile.Job) {
	if err := s.repairs.Enqueue(ctx, job); err != nil {
		logx.With(map[string]any{
			"application_id": job.ApplicationID,
			"kind":           job.Kind,
		}).WithError(err).Error("failed to enqueue repair job")
		return
	}
	logx.Infof("Queued %s repair for application %s", job.Kind, job.ApplicationID)
}

// ListApplicationsForRecruiter returns every application to the recruiter's
// postings that passes filter
func (s *ApplicationService) ListApplicationsForRecruiter(ctx context.Context, recruiterID kernel.RecruiterID, filter application.RecruiterListFilter) ([]application.ApplicationView, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	apps, err := s.applicationRepo.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}

	views, err := s.assemble(ctx, apps, false)
	if err != nil {
		return nil, err
	}

	filtered := make([]application.ApplicationView, 0, len(views))
	for _, v := range views {
		if filter.Matches(v) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// ListApplicationsForIntern returns the intern's applications with the
// interview schedule resolved for those In Review
func (s *ApplicationService) ListApplicationsForIntern(ctx context.Context, internID kernel.InternID) ([]application.ApplicationView, error) {
	apps, err := s.applicationRepo.ListByIntern(ctx, internID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, apps, true)
}
