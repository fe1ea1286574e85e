package internship

import (
	"context"

	"github.com/Abraxas-365/prointern/pkg/kernel"
)

type Repository interface {
	// Create stores a new internship
	Create(ctx context.Context, internship *Internship) error

	// GetByID returns ErrInternshipNotFound when missing
	GetByID(ctx context.Context, id kernel.InternshipID) (*Internship, error)

	// Update overwrites the posting fields; the applicant mirror is left alone
	Update(ctx context.Context, internship *Internship) error

	Delete(ctx context.Context, id kernel.InternshipID) error

	// ListByRecruiter returns the recruiter's postings, newest first
	ListByRecruiter(ctx context.Context, recruiterID kernel.RecruiterID, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[Internship], error)

	// AddApplicant adds internID to the applicant mirror if absent
	AddApplicant(ctx context.Context, id kernel.InternshipID, internID kernel.InternID) error

	// SetApplicants replaces the applicant mirror
	SetApplicants(ctx context.Context, id kernel.InternshipID, internIDs []kernel.InternID) error
}
