package interview

import (
	"net/http"

	"github.com/Abraxas-365/prointern/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("INTERVIEW")

var (
	CodeInterviewNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Interview not found")
	CodeAlreadyScheduled  = ErrRegistry.Register("ALREADY_SCHEDULED", errx.TypeConflict, http.StatusConflict, "An interview is already attached to this application; update it instead")
	CodeNotAttached       = ErrRegistry.Register("NOT_ATTACHED", errx.TypeConflict, http.StatusConflict, "Interview is not attached to its application; schedule it again")
	CodeUnauthorized      = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusForbidden, "Only the scheduling recruiter may change this interview")
	CodeInvalidRequest    = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeValidationFailed  = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
)

func ErrInterviewNotFound() *errx.Error {
	return ErrRegistry.New(CodeInterviewNotFound)
}

func ErrAlreadyScheduled() *errx.Error {
	return ErrRegistry.New(CodeAlreadyScheduled)
}

func ErrNotAttached() *errx.Error {
	return ErrRegistry.New(CodeNotAttached)
}

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeValidationFailed)
}
