package services

import (
	"context"
	"errors"
	"gradebook/backend/app/apperr"
	jwtutil "gradebook/backend/app/jwt"
	"gradebook/backend/app/models"
	"gradebook/backend/app/repo"
	"time"

	"github.com/rs/zerolog"
)

type TokenResult struct {
	AccessToken string
	TokenType   string
	Role        models.Role
	ExpiresAt   time.Time
}

type AuthService struct {
	accounts AccountStore
	hasher   PasswordHasher
	signer   *jwtutil.Signer
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(accounts AccountStore, hasher PasswordHasher, signer *jwtutil.Signer, throttle LoginThrottle, log zerolog.Logger) *AuthService {
	if throttle == nil {
		throttle = NoopThrottle{}
	}
	return &AuthService{accounts: accounts, hasher: hasher, signer: signer, throttle: throttle, log: log}
}

// Login exchanges credentials for a token. The account is looked up in the
// partition of role; unknown usernames and wrong passwords fail identically.
// The token carries the role stored on the account.
func (s *AuthService) Login(ctx context.Context, username, password string, role models.Role) (*TokenResult, error) {
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}
	if username == "" || password == "" {
		return nil, apperr.InvalidCredentials()
	}

	allowed, err := s.throttle.Allow(ctx, role, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("login throttle unavailable")
	}
	if !allowed {
		return nil, apperr.TooManyAttempts()
	}

	acct, err := s.accounts.FindByUsername(ctx, role, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.Internal("find account", err)
	}
	if acct == nil {
		s.hasher.VerifyDummy(password)
		s.recordFailure(ctx, role, username)
		return nil, apperr.InvalidCredentials()
	}
	if !s.hasher.Verify(password, acct.PasswordHash) {
		s.recordFailure(ctx, role, username)
		return nil, apperr.InvalidCredentials()
	}
	if err := s.throttle.Reset(ctx, role, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("reset login failures")
	}

	token, exp, err := s.signer.Issue(acct.Username, acct.Role, 0)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token, TokenType: "Bearer", Role: acct.Role, ExpiresAt: exp}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, role models.Role, username string) {
	if err := s.throttle.Fail(ctx, role, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("record login failure")
	}
}
