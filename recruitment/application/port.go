package application

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
)

type Repository interface {
	// Create stores a new application. A second application for the same
	// (intern, internship) pair fails with ErrAlreadyApplied.
	Create(ctx context.Context, application *Application) error

	// GetByID returns ErrApplicationNotFound when missing
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// ExistsByInternAndInternship checks the authoritative pair
	ExistsByInternAndInternship(ctx context.Context, internID kernel.InternID, internshipID kernel.InternshipID) (bool, error)

	// ListByRecruiter returns the recruiter's applications, newest first
	ListByRecruiter(ctx context.Context, recruiterID kernel.RecruiterID) ([]Application, error)

	// ListByIntern returns the intern's applications, newest first
	ListByIntern(ctx context.Context, internID kernel.InternID) ([]Application, error)

	// ListByInternship returns every application made to the internship
	ListByInternship(ctx context.Context, internshipID kernel.InternshipID) ([]Application, error)

	// CountByInternship counts applications referencing the internship
	CountByInternship(ctx context.Context, internshipID kernel.InternshipID) (int64, error)

	// TransitionStatus sets status to `to` only while it is still `from`.
	// A moved status fails with ErrInvalidTransition.
	TransitionStatus(ctx context.Context, id kernel.ApplicationID, from, to Status, at time.Time) error

	// AttachInterview sets interviewID and moves status to In Review, only
	// while the application is Applied with no interview
	AttachInterview(ctx context.Context, id kernel.ApplicationID, interviewID kernel.InterviewID, at time.Time) error
}
