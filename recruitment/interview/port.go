package interview

import (
	"context"

	"github.com/Abraxas-365/prointern/pkg/kernel"
)

type Repository interface {
	Create(ctx context.Context, interview *Interview) error

	// GetByID returns ErrInterviewNotFound when missing
	GetByID(ctx context.Context, id kernel.InterviewID) (*Interview, error)

	// Update overwrites date, time and meeting link
	Update(ctx context.Context, interview *Interview) error

	// FindByApplication returns the latest interview created for the
	// application, or ErrInterviewNotFound
	FindByApplication(ctx context.Context, applicationID kernel.ApplicationID) (*Interview, error)
}
