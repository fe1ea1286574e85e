package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NewCarriesDefinition(t *testing.T) {
	reg := NewRegistry("WIDGET")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "Widget not found")

	err := reg.New(code).WithDetail("widget_id", "w-1")

	assert.Equal(t, Code("WIDGET.NOT_FOUND"), err.Code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "w-1", err.Details["widget_id"])
	assert.False(t, err.Retryable())
}

func TestRegistry_RegisterTwicePanics(t *testing.T) {
	reg := NewRegistry("DUP")
	reg.Register("X", TypeBusiness, http.StatusConflict, "x")

	assert.Panics(t, func() {
		reg.Register("X", TypeBusiness, http.StatusConflict, "x")
	})
}

func TestError_IsMatchesByCode(t *testing.T) {
	reg := NewRegistry("GADGET")
	missing := reg.Register("MISSING", TypeNotFound, http.StatusNotFound, "missing")
	other := reg.Register("OTHER", TypeConflict, http.StatusConflict, "other")

	wrapped := fmt.Errorf("lookup: %w", reg.New(missing).WithDetail("id", 1))

	assert.True(t, errors.Is(wrapped, reg.New(missing)))
	assert.False(t, errors.Is(wrapped, reg.New(other)))
	assert.True(t, IsCode(wrapped, missing))
	assert.False(t, IsCode(wrapped, other))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing", TypeInternal))

	cause := errors.New("connection refused")
	err := Wrap(cause, "store unavailable", TypeUnavailable)

	require.NotNil(t, err)
	assert.True(t, err.Retryable())
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, TypeUnavailable))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestToHTTPResponse(t *testing.T) {
	reg := NewRegistry("BODY")
	code := reg.Register("BAD", TypeValidation, http.StatusBadRequest, "Bad input")

	body := reg.New(code).WithDetails(map[string]any{"field": "date"}).ToHTTPResponse()

	assert.Equal(t, "Bad input", body["error"])
	assert.Equal(t, code, body["code"])
	assert.Equal(t, false, body["retryable"])
	assert.Equal(t, map[string]any{"field": "date"}, body["details"])
}
