package application

import (
	"strings"
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/interview"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateApplicationRequest is submitted by the applying intern
type CreateApplicationRequest struct {
	InternshipID kernel.InternshipID `json:"internship_id"`
	CoverLetter  string              `json:"cover_letter"`
}

func (r CreateApplicationRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.InternshipID, validation.Required),
		validation.Field(&r.CoverLetter, validation.Length(0, 10000)),
	)
	return validationError(err)
}

// RecruiterListFilter narrows a recruiter's applicant list. Query matches
// the intern name or the internship title, case-insensitively.
type RecruiterListFilter struct {
	Status Status `query:"status"`
	Query  string `query:"q"`
}

func (f RecruiterListFilter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return ErrInvalidStatus().WithDetail("status", f.Status)
	}
	return nil
}

// Matches reports whether v passes the filter
func (f RecruiterListFilter) Matches(v ApplicationView) bool {
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(v.InternName), q) ||
		strings.Contains(strings.ToLower(string(v.InternshipTitle)), q)
}

// ApplicationView is the read-only merge of an application with its
// internship, intern and interview. Fields from a missing record stay empty.
type ApplicationView struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	InternshipID  kernel.InternshipID  `json:"internship_id"`
	InternID      kernel.InternID      `json:"intern_id"`
	Status        Status               `json:"status"`

	InternshipTitle kernel.JobTitle    `json:"internship_title"`
	CompanyName     kernel.CompanyName `json:"company_name"`
	LogoRef         kernel.FileRef     `json:"logo_ref"`
	JobType         kernel.JobType     `json:"job_type,omitempty"`

	InternName              string         `json:"intern_name,omitempty"`
	InternProfilePictureRef kernel.FileRef `json:"intern_profile_picture_ref,omitempty"`
	InternCVRef             kernel.FileRef `json:"intern_cv_ref,omitempty"`

	AppliedOn   time.Time           `json:"applied_on"`
	InterviewID *kernel.InterviewID `json:"interview_id,omitempty"`
	Interview   *interview.Schedule `json:"interview"`
}

type ApplicationListResponse struct {
	Applications []ApplicationView `json:"applications"`
	Total        int               `json:"total"`
}

func NewApplicationListResponse(views []ApplicationView) ApplicationListResponse {
	if views == nil {
		views = []ApplicationView{}
	}
	return ApplicationListResponse{Applications: views, Total: len(views)}
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
