package interview

import (
	"time"

	"github.com/Abraxas-365/prointern/pkg/kernel"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Interview is the single scheduling slot of an application. Rescheduling
// overwrites it in place.
type Interview struct {
	ID            kernel.InterviewID   `db:"id" json:"id"`
	ApplicationID kernel.ApplicationID `db:"application_id" json:"application_id"`
	RecruiterID   kernel.RecruiterID   `db:"recruiter_id" json:"recruiter_id"`
	Date          string               `db:"date" json:"date"`
	Time          string               `db:"time" json:"time"`
	MeetingLink   string               `db:"meeting_link" json:"meeting_link"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `db:"updated_at" json:"updated_at"`
}

// Schedule is the part of an interview shown to the applicant
type Schedule struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	MeetingLink string `json:"meeting_link"`
}

func (i *Interview) IsOwnedBy(recruiterID kernel.RecruiterID) bool {
	return !recruiterID.IsEmpty() && i.RecruiterID == recruiterID
}

func (i *Interview) BelongsTo(applicationID kernel.ApplicationID) bool {
	return i.ApplicationID == applicationID
}

func (i *Interview) Schedule() Schedule {
	return Schedule{Date: i.Date, Time: i.Time, MeetingLink: i.MeetingLink}
}

// Reschedule overwrites the fields set in req
func (i *Interview) Reschedule(req UpdateInterviewRequest) {
	if req.Date != nil {
		i.Date = *req.Date
	}
	if req.Time != nil {
		i.Time = *req.Time
	}
	if req.MeetingLink != nil {
		i.MeetingLink = *req.MeetingLink
	}
	i.UpdatedAt = time.Now()
}
