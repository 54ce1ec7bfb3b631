package services

import (
	"errors"
	"gradebook/backend/app/apperr"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A malformed hash is a mismatch.
	Verify(plain, hash string) bool
	// VerifyDummy spends the same time as a real Verify and always fails.
	VerifyDummy(plain string)
}

type BcryptHasher struct {
	cost  int
	dummy []byte
}

func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, apperr.Validation("bcrypt cost out of range")
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("gradebook-dummy-password"), cost)
	if err != nil {
		return nil, apperr.Internal("generate dummy hash", err)
	}
	return &BcryptHasher{cost: cost, dummy: dummy}, nil
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", apperr.Validation("password cannot be empty")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Validation("password is longer than 72 bytes")
	}
	if err != nil {
		return "", apperr.Internal("hash password", err)
	}
	return string(out), nil
}

func (h *BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (h *BcryptHasher) VerifyDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}
