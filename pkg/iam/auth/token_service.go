package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	JWTSecret      string
	Issuer         string
	AccessTokenTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		Issuer:         "prointern",
		AccessTokenTTL: 24 * time.Hour,
	}
}

// TokenClaims is what a validated access token says about its bearer
type TokenClaims struct {
	UserID    kernel.UserID
	Role      Role
	Scopes    []string
	ExpiresAt time.Time
}

type TokenService interface {
	GenerateAccessToken(userID kernel.UserID, role Role) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

type jwtClaims struct {
	Role   Role     `json:"role"`
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// JWTService signs and validates HS256 access tokens
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(cfg Config) *JWTService {
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = DefaultConfig().AccessTokenTTL
	}
	return &JWTService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *JWTService) GenerateAccessToken(userID kernel.UserID, role Role) (string, error) {
	if !role.IsValid() {
		return "", ErrInvalidRole().WithDetail("role", role)
	}

	now := s.now()
	claims := jwtClaims{
		Role:   role,
		Scopes: RoleScopes[role],
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errx.Wrap(err, "failed to sign access token", errx.TypeInternal)
	}
	return token, nil
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	var claims jwtClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		return nil, ErrInvalidToken().WithDetail("reason", reason)
	}

	if claims.Subject == "" || !claims.Role.IsValid() {
		return nil, ErrInvalidToken().WithDetail("reason", "missing subject or role")
	}

	return &TokenClaims{
		UserID:    kernel.UserID(claims.Subject),
		Role:      claims.Role,
		Scopes:    claims.Scopes,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
