package reconcile

import (
	"net/http"

	"github.com/Abraxas-365/prointern/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RECONCILE")

var (
	CodeQueueUnavailable = ErrRegistry.Register("QUEUE_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Reconcile queue unavailable")
	CodeQueueFull        = ErrRegistry.Register("QUEUE_FULL", errx.TypeUnavailable, http.StatusServiceUnavailable, "Reconcile queue is full")
	CodeInvalidJob       = ErrRegistry.Register("INVALID_JOB", errx.TypeValidation, http.StatusBadRequest, "Invalid reconcile job")
	CodeUnknownKind      = ErrRegistry.Register("UNKNOWN_KIND", errx.TypeValidation, http.StatusBadRequest, "Unknown reconcile job kind")
)

func ErrQueueUnavailable() *errx.Error {
	return ErrRegistry.New(CodeQueueUnavailable)
}

func ErrQueueFull() *errx.Error {
	return ErrRegistry.New(CodeQueueFull)
}

func ErrInvalidJob() *errx.Error {
	return ErrRegistry.New(CodeInvalidJob)
}

func ErrUnknownKind() *errx.Error {
	return ErrRegistry.New(CodeUnknownKind)
}
