package jwtutil

import (
	"errors"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/models"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the lifetime of tokens issued by Login.
const DefaultTTL = 45 * time.Minute

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Identity is what a validated token asserts.
type Identity struct {
	Username string
	Role     models.Role
}

// Signer issues and validates HS256 tokens. It is immutable after NewSigner.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret []byte, issuer string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Signer{secret: key, issuer: issuer, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of s that reads the time from now.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	c := *s
	c.now = now
	return &c
}

func (s *Signer) TTL() time.Duration { return s.ttl }

// Issue signs a token for username/role expiring ttl from now. A
// non-positive ttl selects the signer's default. The absolute expiry is
// returned alongside the token.
func (s *Signer) Issue(username string, role models.Role, ttl time.Duration) (string, time.Time, error) {
	if username == "" || !role.Valid() {
		return "", time.Time{}, apperr.Validation("username and role are required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	// NumericDate holds whole seconds; round up so the token never expires early.
	exp := jwt.NewNumericDate(now.Add(ttl).Add(time.Second - 1).Truncate(time.Second))
	claims := Claims{
		Username: username,
		Role:     role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperr.Internal("sign token", err)
	}
	return signed, exp.Time, nil
}

// Validate checks signature, algorithm, expiry and payload. Expired tokens
// fail with TOKEN_EXPIRED; every other rejection is UNAUTHORIZED.
func (s *Signer) Validate(tokenStr string) (Identity, error) {
	if tokenStr == "" {
		return Identity{}, apperr.Unauthorized(nil)
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) { return s.secret, nil }, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperr.TokenExpired(err)
		}
		return Identity{}, apperr.Unauthorized(err)
	}
	if claims.Username == "" || claims.Role == "" {
		return Identity{}, apperr.Unauthorized(errors.New("token payload missing username or role"))
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, apperr.Unauthorized(err)
	}
	return Identity{Username: claims.Username, Role: role}, nil
}
