package auth

import (
	"testing"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *JWTService {
	return NewJWTService(Config{JWTSecret: "test-secret", Issuer: "prointern", AccessTokenTTL: time.Hour})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateAccessToken(kernel.UserID("rec-1"), RoleRecruiter)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, kernel.UserID("rec-1"), claims.UserID)
	assert.Equal(t, RoleRecruiter, claims.Role)
	assert.True(t, HasScope(claims.Scopes, ScopeInterviewsSchedule))
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestTokenService()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateAccessToken(kernel.UserID("in-1"), RoleIntern)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, CodeInvalidToken))
	e, _ := errx.As(err)
	assert.Equal(t, "expired", e.Details["reason"])
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := newTestTokenService().GenerateAccessToken(kernel.UserID("in-1"), RoleIntern)
	require.NoError(t, err)

	other := NewJWTService(Config{JWTSecret: "other", Issuer: "prointern"})
	_, err = other.ValidateAccessToken(token)
	assert.True(t, errx.IsCode(err, CodeInvalidToken))
}

func TestJWTService_UnknownRole(t *testing.T) {
	_, err := newTestTokenService().GenerateAccessToken(kernel.UserID("x"), Role("admin"))
	assert.True(t, errx.IsCode(err, CodeInvalidRole))
}

func TestHasScope(t *testing.T) {
	granted := RoleScopes[RoleRecruiter]
	assert.True(t, HasScope(granted, ScopeInternshipsDelete))
	assert.True(t, HasScope(granted, ScopeApplicationsReview))
	assert.False(t, HasScope(granted, ScopeApplicationsApply))
	assert.False(t, HasScope(RoleScopes[RoleIntern], ScopeInterviewsSchedule))
}
