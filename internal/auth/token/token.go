// Package token issues and verifies the signed bearer tokens that carry a
// principal's email and role.
package token

import (
	"errors"
	"strings"
	"time"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/httpkit"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpired      = errors.New("token expired")
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
)

// Claims is the identity a token asserts.
type Claims struct {
	Email string
	Role  domain.Role
}

type jwtClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer from the JWT configuration.
func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{
		secret: []byte(cfg.GetJWTSecret()),
		ttl:    cfg.GetTokenTTL(),
		now:    time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// TTL reports how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for c that expires after the configured TTL.
func (i *Issuer) Issue(c Claims) (string, error) {
	now := i.now()
	claims := jwtClaims{
		Email: c.Email,
		Role:  string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks the signature and expiry of raw and returns its claims.
func (i *Issuer) Verify(raw string) (Claims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Claims{}, classify(err)
	}
	if !parsed.Valid || claims.Email == "" {
		return Claims{}, ErrMalformed
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok {
		return Claims{}, ErrMalformed
	}
	return Claims{Email: claims.Email, Role: role}, nil
}

// Resolve implements httpkit.PrincipalResolver.
func (i *Issuer) Resolve(raw string) (httpkit.Principal, error) {
	c, err := i.Verify(raw)
	if err != nil {
		return httpkit.Principal{}, err
	}
	return httpkit.Principal{Email: c.Email, Role: string(c.Role)}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, ErrBadSignature):
		return ErrBadSignature
	default:
		return ErrMalformed
	}
}
