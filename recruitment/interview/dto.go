package interview

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type ScheduleInterviewRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	MeetingLink string `json:"meeting_link"`
}

func (r ScheduleInterviewRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date(DateLayout)),
		validation.Field(&r.Time, validation.Required, validation.Date(TimeLayout)),
		validation.Field(&r.MeetingLink, validation.Required, is.URL),
	)
	return validationError(err)
}

// UpdateInterviewRequest only changes the fields that are set
type UpdateInterviewRequest struct {
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	MeetingLink *string `json:"meeting_link,omitempty"`
}

func (r UpdateInterviewRequest) Validate() error {
	if r.Date == nil && r.Time == nil && r.MeetingLink == nil {
		return ErrInvalidRequest().WithDetail("error", "nothing to update")
	}
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.NilOrNotEmpty, validation.Date(DateLayout)),
		validation.Field(&r.Time, validation.NilOrNotEmpty, validation.Date(TimeLayout)),
		validation.Field(&r.MeetingLink, validation.NilOrNotEmpty, is.URL),
	)
	return validationError(err)
}

// ScheduleResponse wraps the applicant-facing schedule. Interview is null
// while nothing is scheduled.
type ScheduleResponse struct {
	Interview *Schedule `json:"interview"`
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
