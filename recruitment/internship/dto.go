package internship

import (
	"strings"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateInternshipRequest struct {
	Title          kernel.JobTitle    `json:"title"`
	CompanyName    kernel.CompanyName `json:"company_name"`
	JobType        kernel.JobType     `json:"job_type"`
	Location       string             `json:"location"`
	Category       string             `json:"category"`
	Qualifications string             `json:"qualifications"`
	Salary         string             `json:"salary"`
	Description    string             `json:"description"`
	LogoRef        kernel.FileRef     `json:"logo_ref"`
}

func jobTypeRule() validation.Rule {
	types := make([]any, 0, len(kernel.JobTypes))
	for _, t := range kernel.JobTypes {
		types = append(types, t)
	}
	return validation.In(types...).Error("must be one of Full-time, Part-time, Remote, On-site, Hybrid")
}

func (r CreateInternshipRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.CompanyName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.JobType, validation.Required, jobTypeRule()),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.Category, validation.Required),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
	return validationError(err)
}

// ToEntity builds a new posting. Identifiers and timestamps are assigned by the caller.
func (r CreateInternshipRequest) ToEntity(owner kernel.RecruiterID) *Internship {
	return &Internship{
		Title:            kernel.JobTitle(strings.TrimSpace(string(r.Title))),
		CompanyName:      kernel.CompanyName(strings.TrimSpace(string(r.CompanyName))),
		JobType:          r.JobType,
		Location:         r.Location,
		Category:         r.Category,
		Qualifications:   r.Qualifications,
		Salary:           r.Salary,
		Description:      r.Description,
		LogoRef:          r.LogoRef,
		OwnerRecruiterID: owner,
		AppliedInternIDs: []kernel.InternID{},
	}
}

// UpdateInternshipRequest only changes the fields that are set
type UpdateInternshipRequest struct {
	Title          *kernel.JobTitle    `json:"title,omitempty"`
	CompanyName    *kernel.CompanyName `json:"company_name,omitempty"`
	JobType        *kernel.JobType     `json:"job_type,omitempty"`
	Location       *string             `json:"location,omitempty"`
	Category       *string             `json:"category,omitempty"`
	Qualifications *string             `json:"qualifications,omitempty"`
	Salary         *string             `json:"salary,omitempty"`
	Description    *string             `json:"description,omitempty"`
	LogoRef        *kernel.FileRef     `json:"logo_ref,omitempty"`
}

func (r UpdateInternshipRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.CompanyName, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.JobType, validation.NilOrNotEmpty, jobTypeRule()),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
	return validationError(err)
}

// ListInternshipsRequest filters a recruiter's postings by a case-insensitive title match
type ListInternshipsRequest struct {
	Query      string                   `query:"q"`
	Pagination kernel.PaginationOptions `query:"-"`
}

type InternshipListResponse struct {
	Internships kernel.Paginated[Internship] `json:"internships"`
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	e := ErrValidationFailed()
	if errs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range errs {
			e.WithDetail(field, fieldErr.Error())
		}
		return e
	}
	return e.WithDetail("error", err.Error())
}
