package internship

import (
	"net/http"

	"github.com/Abraxas-365/prointern/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("INTERNSHIP")

var (
	CodeInternshipNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Internship not found")
	CodeUnauthorized       = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusForbidden, "Only the owning recruiter may change this internship")
	CodeHasApplications    = ErrRegistry.Register("HAS_APPLICATIONS", errx.TypeBusiness, http.StatusConflict, "Cannot delete an internship that has applications")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeValidationFailed   = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
)

func ErrInternshipNotFound() *errx.Error {
	return ErrRegistry.New(CodeInternshipNotFound)
}

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrHasApplications() *errx.Error {
	return ErrRegistry.New(CodeHasApplications)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeValidationFailed)
}
