package internshipsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/Abraxas-365/prointern/recruitment/application"
	"github.com/Abraxas-365/prointern/recruitment/internship"
	"github.com/google/uuid"
)

// InternshipService manages a recruiter's postings
type InternshipService struct {
	internshipRepo  internship.Repository
	applicationRepo application.Repository
}

func NewInternshipService(internshipRepo internship.Repository, applicationRepo application.Repository) *InternshipService {
	return &InternshipService{
		internshipRepo:  internshipRepo,
		applicationRepo: applicationRepo,
	}
}

// CreateInternship publishes a posting owned by recruiterID
func (s *InternshipService) CreateInternship(ctx context.Context, recruiterID kernel.RecruiterID, req internship.CreateInternshipRequest) (*internship.Internship, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	posting := req.ToEntity(recruiterID)
	posting.ID = kernel.NewInternshipID(uuid.NewString())
	posting.CreatedAt = now
	posting.UpdatedAt = now

	if err := s.internshipRepo.Create(ctx, posting); err != nil {
		return nil, err
	}

	logx.Infof("Internship %s created by recruiter %s", posting.ID, recruiterID)
	return posting, nil
}

func (s *InternshipService) GetInternship(ctx context.Context, id kernel.InternshipID) (*internship.Internship, error) {
	return s.internshipRepo.GetByID(ctx, id)
}

// UpdateInternship changes posting fields. Existing applications keep the
// title, company and logo they were submitted with.
func (s *InternshipService) UpdateInternship(ctx context.Context, recruiterID kernel.RecruiterID, id kernel.InternshipID, req internship.UpdateInternshipRequest) (*internship.Internship, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	posting, err := s.ownedInternship(ctx, recruiterID, id)
	if err != nil {
		return nil, err
	}

	posting.ApplyUpdate(req)
	if err := s.internshipRepo.Update(ctx, posting); err != nil {
		return nil, err
	}

	logx.Infof("Internship %s updated by recruiter %s", id, recruiterID)
	return posting, nil
}

// DeleteInternship removes a posting nobody has applied to yet
func (s *InternshipService) DeleteInternship(ctx context.Context, recruiterID kernel.RecruiterID, id kernel.InternshipID) error {
	if _, err := s.ownedInternship(ctx, recruiterID, id); err != nil {
		return err
	}

	count, err := s.applicationRepo.CountByInternship(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return internship.ErrHasApplications().
			WithDetail("internship_id", id).
			WithDetail("applications", count)
	}

	if err := s.internshipRepo.Delete(ctx, id); err != nil {
		return err
	}

	logx.Infof("Internship %s deleted by recruiter %s", id, recruiterID)
	return nil
}

func (s *InternshipService) ListInternshipsForRecruiter(ctx context.Context, recruiterID kernel.RecruiterID, req internship.ListInternshipsRequest) (*kernel.Paginated[internship.Internship], error) {
	return s.internshipRepo.ListByRecruiter(ctx, recruiterID, req.Query, req.Pagination.Normalize())
}

func (s *InternshipService) ownedInternship(ctx context.Context, recruiterID kernel.RecruiterID, id kernel.InternshipID) (*internship.Internship, error) {
	posting, err := s.internshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !posting.IsOwnedBy(recruiterID) {
		return nil, internship.ErrUnauthorized().
			WithDetail("internship_id", id).
			WithDetail("recruiter_id", recruiterID)
	}
	return posting, nil
}
