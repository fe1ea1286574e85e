package internship

import (
	"slices"
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
)

// Internship is a posting owned by one recruiter
type Internship struct {
	ID               kernel.InternshipID `db:"id" json:"id"`
	Title            kernel.JobTitle     `db:"title" json:"title"`
	CompanyName      kernel.CompanyName  `db:"company_name" json:"company_name"`
	JobType          kernel.JobType      `db:"job_type" json:"job_type"`
	Location         string              `db:"location" json:"location"`
	Category         string              `db:"category" json:"category"`
	Qualifications   string              `db:"qualifications" json:"qualifications"`
	Salary           string              `db:"salary" json:"salary"`
	Description      string              `db:"description" json:"description"`
	LogoRef          kernel.FileRef      `db:"logo_ref" json:"logo_ref"`
	OwnerRecruiterID kernel.RecruiterID  `db:"owner_recruiter_id" json:"owner_recruiter_id"`

	// AppliedInternIDs is an advisory mirror of the applications made to
	// this posting. The applications themselves are authoritative.
	AppliedInternIDs []kernel.InternID `db:"applied_intern_ids" json:"applied_intern_ids"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (i *Internship) IsOwnedBy(recruiterID kernel.RecruiterID) bool {
	return !recruiterID.IsEmpty() && i.OwnerRecruiterID == recruiterID
}

func (i *Internship) HasApplicant(internID kernel.InternID) bool {
	return slices.Contains(i.AppliedInternIDs, internID)
}

// AddApplicant appends internID to the mirror set, reporting whether it changed
func (i *Internship) AddApplicant(internID kernel.InternID) bool {
	if i.HasApplicant(internID) {
		return false
	}
	i.AppliedInternIDs = append(i.AppliedInternIDs, internID)
	return true
}

// ApplyUpdate overwrites every field set in req
func (i *Internship) ApplyUpdate(req UpdateInternshipRequest) {
	if req.Title != nil {
		i.Title = *req.Title
	}
	if req.CompanyName != nil {
		i.CompanyName = *req.CompanyName
	}
	if req.JobType != nil {
		i.JobType = *req.JobType
	}
	if req.Location != nil {
		i.Location = *req.Location
	}
	if req.Category != nil {
		i.Category = *req.Category
	}
	if req.Qualifications != nil {
		i.Qualifications = *req.Qualifications
	}
	if req.Salary != nil {
		i.Salary = *req.Salary
	}
	if req.Description != nil {
		i.Description = *req.Description
	}
	if req.LogoRef != nil {
		i.LogoRef = *req.LogoRef
	}
	i.UpdatedAt = time.Now()
}
