package intern

import (
	"net/http"

	"github.com/Abraxas-365/prointern/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("INTERN")

var (
	CodeInternNotFound   = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Intern profile not found")
	CodeUnauthorized     = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusForbidden, "Caller may not access this profile")
	CodeNoCVUploaded     = ErrRegistry.Register("NO_CV_UPLOADED", errx.TypeNotFound, http.StatusNotFound, "No CV uploaded")
	CodeInvalidFileType  = ErrRegistry.Register("INVALID_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Only PDF files are accepted")
	CodeFileSizeTooLarge = ErrRegistry.Register("FILE_SIZE_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "File size exceeds maximum allowed")
	CodeInvalidRequest   = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeValidationFailed = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
)

func ErrInternNotFound() *errx.Error {
	return ErrRegistry.New(CodeInternNotFound)
}

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrNoCVUploaded() *errx.Error {
	return ErrRegistry.New(CodeNoCVUploaded)
}

func ErrInvalidFileType() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileType)
}

func ErrFileSizeTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileSizeTooLarge)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeValidationFailed)
}
