package intern

import (
	"context"

	"github.com/Abraxas-365/prointern/pkg/kernel"
)

type Repository interface {
	// Create stores a new profile
	Create(ctx context.Context, intern *Intern) error

	// GetByID returns ErrInternNotFound when missing
	GetByID(ctx context.Context, id kernel.InternID) (*Intern, error)

	// UpdateProfile writes the name, email, mobile number and picture
	UpdateProfile(ctx context.Context, intern *Intern) error

	SetCVRef(ctx context.Context, id kernel.InternID, ref kernel.FileRef) error

	// AddAppliedInternship adds internshipID to the mirror if absent
	AddAppliedInternship(ctx context.Context, id kernel.InternID, internshipID kernel.InternshipID) error

	// SetAppliedInternships replaces the mirror
	SetAppliedInternships(ctx context.Context, id kernel.InternID, internshipIDs []kernel.InternshipID) error
}
