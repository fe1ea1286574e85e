package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error independently of the module that raised it
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
	TypeUnavailable   Type = "UNAVAILABLE"
)

// Code is a fully qualified error code, e.g. "APPLICATION.NOT_FOUND"
type Code string

func (c Code) String() string { return string(c) }

type definition struct {
	typ        Type
	httpStatus int
	message    string
}

// Registry holds the error codes of one module under a common prefix
type Registry struct {
	prefix string
	mu     sync.RWMutex
	codes  map[Code]definition
}

// NewRegistry creates a registry whose codes are prefixed with prefix
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[Code]definition),
	}
}

// Register declares a code and returns its qualified form
func (r *Registry) Register(code string, typ Type, httpStatus int, message string) Code {
	qualified := Code(r.prefix + "." + code)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[qualified]; exists {
		panic(fmt.Sprintf("errx: code %s registered twice", qualified))
	}
	r.codes[qualified] = definition{typ: typ, httpStatus: httpStatus, message: message}
	return qualified
}

// New builds a fresh error for a registered code
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.codes[code]
	r.mu.RUnlock()
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unregistered error code",
		}
	}

	return &Error{
		Code:       code,
		Type:       def.typ,
		HTTPStatus: def.httpStatus,
		Message:    def.message,
	}
}

// NewWithCause builds an error for code carrying cause
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	e := r.New(code)
	e.Cause = cause
	return e
}

// Error is the typed error returned across module boundaries
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code, so errors.Is(err, application.ErrApplicationNotFound()) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail attaches a key/value to the error
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails attaches every entry of details
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// Retryable reports whether re-invoking the same operation may succeed
func (e *Error) Retryable() bool {
	return e.Type == TypeUnavailable
}

// ToHTTPResponse renders the error body sent to clients
func (e *Error) ToHTTPResponse() map[string]any {
	body := map[string]any{
		"error":     e.Message,
		"code":      e.Code,
		"type":      e.Type,
		"retryable": e.Retryable(),
	}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	return body
}

// New creates an unregistered error of the given type
func New(message string, typ Type) *Error {
	return &Error{
		Code:       Code(typ),
		Type:       typ,
		HTTPStatus: statusForType(typ),
		Message:    message,
	}
}

// Wrap wraps err with message and typ. A nil err yields nil.
func Wrap(err error, message string, typ Type) *Error {
	if err == nil {
		return nil
	}
	e := New(message, typ)
	e.Cause = err
	return e
}

// As extracts the outermost *Error from err
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether any *Error in err's chain carries code
func IsCode(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsType reports whether the outermost *Error in err's chain has typ
func IsType(err error, typ Type) bool {
	e, ok := As(err)
	return ok && e.Type == typ
}

func statusForType(typ Type) int {
	switch typ {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
