package services

import (
	"context"
	"errors"
	"gradebook/backend/app/apperr"
	jwtutil "gradebook/backend/app/jwt"
	"gradebook/backend/app/models"
	"gradebook/backend/app/repo"
)

// Principal is a validated token whose subject resolved in the store.
type Principal struct {
	jwtutil.Identity
	AccountID uint
}

// Gate decides whether a bearer token may perform an operation. Every
// rejection happens before the caller touches the store for writing.
type Gate struct {
	signer   *jwtutil.Signer
	accounts AccountStore
}

func NewGate(signer *jwtutil.Signer, accounts AccountStore) *Gate {
	return &Gate{signer: signer, accounts: accounts}
}

// AuthorizeInstructor admits instructor tokens whose subject still exists
// in the instructor partition.
func (g *Gate) AuthorizeInstructor(ctx context.Context, token string) (Principal, error) {
	id, err := g.signer.Validate(token)
	if err != nil {
		return Principal{}, err
	}
	if id.Role != models.RoleInstructor {
		return Principal{}, apperr.Forbidden("Instructor access required")
	}
	return g.resolve(ctx, id)
}

// AuthorizeStudent admits student tokens whose subject is exactly owner and
// still exists in the student partition.
func (g *Gate) AuthorizeStudent(ctx context.Context, token, owner string) (Principal, error) {
	id, err := g.signer.Validate(token)
	if err != nil {
		return Principal{}, err
	}
	if id.Role != models.RoleStudent || id.Username != owner {
		return Principal{}, apperr.Forbidden("You are not authorized to access this student's grade")
	}
	return g.resolve(ctx, id)
}

func (g *Gate) resolve(ctx context.Context, id jwtutil.Identity) (Principal, error) {
	acct, err := g.accounts.FindByUsername(ctx, id.Role, id.Username)
	if errors.Is(err, repo.ErrNotFound) {
		return Principal{}, apperr.Unauthorized(err)
	}
	if err != nil {
		return Principal{}, apperr.Internal("resolve token subject", err)
	}
	return Principal{Identity: id, AccountID: acct.ID}, nil
}
