package application

import (
	"slices"
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/recruitment/interview"
)

// Status is the review state of an application
type Status string

const (
	StatusApplied  Status = "Applied"   // Submitted, not yet reviewed
	StatusInReview Status = "In Review" // Interview attached
	StatusAccepted Status = "Accepted"  // Terminal
	StatusRejected Status = "Rejected"  // Terminal
)

var Statuses = []Status{StatusApplied, StatusInReview, StatusAccepted, StatusRejected}

func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

func (s Status) String() string { return string(s) }

// validTransitions is the review state machine. The In Review self-loop is
// an interview update and leaves the status unchanged.
var validTransitions = map[Status][]Status{
	StatusApplied: {
		StatusInReview,
		StatusAccepted,
		StatusRejected,
	},
	StatusInReview: {
		StatusInReview,
		StatusAccepted,
		StatusRejected,
	},
}

// CanTransition reports whether from → to is an edge of the state machine
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	return slices.Contains(allowed, to)
}

type Application struct {
	ID           kernel.ApplicationID `db:"id" json:"id"`
	InternshipID kernel.InternshipID  `db:"internship_id" json:"internship_id"`
	InternID     kernel.InternID      `db:"intern_id" json:"intern_id"`

	// Snapshot of the internship at apply time. Later edits to the
	// internship do not change it.
	RecruiterID kernel.RecruiterID `db:"recruiter_id" json:"recruiter_id"`
	JobTitle    kernel.JobTitle    `db:"job_title" json:"job_title"`
	CompanyName kernel.CompanyName `db:"company_name" json:"company_name"`
	LogoRef     kernel.FileRef     `db:"logo_ref" json:"logo_ref"`

	Status          Status              `db:"status" json:"status"`
	InterviewID     *kernel.InterviewID `db:"interview_id" json:"interview_id,omitempty"`
	CoverLetter     string              `db:"cover_letter" json:"cover_letter"`
	AppliedOn       time.Time           `db:"applied_on" json:"applied_on"`
	StatusChangedAt *time.Time          `db:"status_changed_at" json:"status_changed_at,omitempty"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (a *Application) IsTerminal() bool {
	return a.Status.IsTerminal()
}

func (a *Application) HasInterview() bool {
	return a.InterviewID != nil && !a.InterviewID.IsEmpty()
}

func (a *Application) IsReviewedBy(recruiterID kernel.RecruiterID) bool {
	return !recruiterID.IsEmpty() && a.RecruiterID == recruiterID
}

func (a *Application) BelongsTo(internID kernel.InternID) bool {
	return !internID.IsEmpty() && a.InternID == internID
}

func (a *Application) CanUpdateStatus(newStatus Status) bool {
	return CanTransition(a.Status, newStatus)
}

// UpdateStatus moves the application along the state machine
func (a *Application) UpdateStatus(newStatus Status) error {
	if !a.CanUpdateStatus(newStatus) {
		return ErrInvalidTransition().
			WithDetail("current_status", a.Status).
			WithDetail("target_status", newStatus)
	}

	now := time.Now()
	if newStatus != a.Status {
		a.StatusChangedAt = &now
	}
	a.Status = newStatus
	a.UpdatedAt = now
	return nil
}

func (a *Application) Accept() error {
	return a.UpdateStatus(StatusAccepted)
}

func (a *Application) Reject() error {
	return a.UpdateStatus(StatusRejected)
}

// CanAttachInterview checks the scheduling precondition and returns the
// error Schedule should surface when it does not hold
func (a *Application) CanAttachInterview() error {
	if a.IsTerminal() {
		return ErrInvalidTransition().
			WithDetail("current_status", a.Status).
			WithDetail("target_status", StatusInReview)
	}
	if a.HasInterview() {
		return interview.ErrAlreadyScheduled().WithDetail("interview_id", *a.InterviewID)
	}
	if a.Status != StatusApplied {
		return ErrInvalidTransition().
			WithDetail("current_status", a.Status).
			WithDetail("target_status", StatusInReview)
	}
	return nil
}

// AttachInterview links interviewID and moves the application to In Review
func (a *Application) AttachInterview(interviewID kernel.InterviewID) error {
	if err := a.CanAttachInterview(); err != nil {
		return err
	}
	if err := a.UpdateStatus(StatusInReview); err != nil {
		return err
	}
	a.InterviewID = &interviewID
	return nil
}
