package services

import (
	"context"
	"errors"
	"fmt"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/models"
	"gradebook/backend/app/repo"
	"net/mail"
	"strings"
	"time"
)

// AccountInput is a full account description. Updates replace every mutable
// field, so Password is always required and always re-hashed.
type AccountInput struct {
	Username    string
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
	Role        models.Role
	Password    string
}

func (in AccountInput) validate() error {
	switch {
	case strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "":
		return apperr.Validation("firstName and lastName are required")
	case in.DateOfBirth.IsZero():
		return apperr.Validation("dateOfBirth is required")
	case in.Password == "":
		return apperr.Validation("password is required")
	}
	// Only a bare address is stored, so uniqueness compares like with like.
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return apperr.Validation("email is not a valid address")
	}
	return nil
}

type AccountService struct {
	accounts AccountStore
	hasher   PasswordHasher
}

func NewAccountService(accounts AccountStore, hasher PasswordHasher) *AccountService {
	return &AccountService{accounts: accounts, hasher: hasher}
}

func (s *AccountService) Create(ctx context.Context, in AccountInput) (*models.Account, error) {
	if !in.Role.Valid() {
		return nil, apperr.Validation("user_role must be student or instructor")
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, apperr.Validation("userName is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a := &models.Account{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		DateOfBirth:  in.DateOfBirth,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if err := s.accounts.Insert(ctx, a); err != nil {
		return nil, s.storeErr(in.Role, "insert account", err)
	}
	return a, nil
}

// EnsureAccount creates the account unless its username is already taken.
func (s *AccountService) EnsureAccount(ctx context.Context, in AccountInput) (bool, error) {
	count, err := s.accounts.CountByUsername(ctx, in.Role, in.Username)
	if err != nil {
		return false, apperr.Internal("count accounts", err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AccountService) Get(ctx context.Context, role models.Role, id uint) (*models.Account, error) {
	a, err := s.accounts.FindByID(ctx, role, id)
	if err != nil {
		return nil, s.storeErr(role, "get account", err)
	}
	return a, nil
}

// Update replaces the mutable fields of an account. The username cannot
// change and the role must match the partition.
func (s *AccountService) Update(ctx context.Context, role models.Role, id uint, in AccountInput) (*models.Account, error) {
	if in.Role != "" && in.Role != role {
		return nil, apperr.Validation("user_role cannot be changed")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Username != "" {
		current, err := s.accounts.FindByID(ctx, role, id)
		if err != nil {
			return nil, s.storeErr(role, "get account", err)
		}
		if current.Username != in.Username {
			return nil, apperr.Validation("userName cannot be changed")
		}
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	a, err := s.accounts.Update(ctx, role, id, repo.AccountFields{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		DateOfBirth:  in.DateOfBirth,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, s.storeErr(role, "update account", err)
	}
	return a, nil
}

func (s *AccountService) Delete(ctx context.Context, role models.Role, id uint) (*models.Account, error) {
	a, err := s.accounts.Delete(ctx, role, id)
	if err != nil {
		return nil, s.storeErr(role, "delete account", err)
	}
	return a, nil
}

func (s *AccountService) List(ctx context.Context, role models.Role) ([]models.Account, error) {
	out, err := s.accounts.ListAll(ctx, role)
	if err != nil {
		return nil, apperr.Internal("list accounts", err)
	}
	return out, nil
}

func (s *AccountService) storeErr(role models.Role, op string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return apperr.NotFound(roleLabel(role) + " not found")
	case errors.Is(err, repo.ErrDuplicate):
		return apperr.UniqueViolation(fmt.Sprintf("A %s with this username or email already exists", role), err)
	default:
		return apperr.Internal(op, err)
	}
}
