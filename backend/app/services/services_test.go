package services

import (
	"context"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/db/dbtest"
	jwtutil "gradebook/backend/app/jwt"
	"gradebook/backend/app/models"
	"gradebook/backend/app/repo"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	accounts *repo.AccountRepository
	grades   *repo.GradeRepository
	hasher   *BcryptHasher
	signer   *jwtutil.Signer
	auth     *AuthService
	gate     *Gate
	accts    *AccountService
	gradeSvc *GradeService
}

func newFixture(t *testing.T, throttle LoginThrottle) *fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	f := &fixture{
		db:       gdb,
		accounts: repo.NewAccountRepository(gdb),
		grades:   repo.NewGradeRepository(gdb),
		hasher:   hasher,
		signer:   jwtutil.NewSigner([]byte("services-secret"), "gradebook", 0).WithClock(func() time.Time { return testNow }),
	}
	f.auth = NewAuthService(f.accounts, hasher, f.signer, throttle, zerolog.Nop())
	f.gate = NewGate(f.signer, f.accounts)
	f.accts = NewAccountService(f.accounts, hasher)
	f.gradeSvc = NewGradeService(f.accounts, f.grades)
	return f
}

func input(role models.Role, username, password string) AccountInput {
	return AccountInput{
		Username:    username,
		FirstName:   "First",
		LastName:    "Last",
		Email:       username + "@example.com",
		DateOfBirth: time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC),
		Role:        role,
		Password:    password,
	}
}

func (f *fixture) create(t *testing.T, role models.Role, username, password string) *models.Account {
	t.Helper()
	a, err := f.accts.Create(context.Background(), input(role, username, password))
	require.NoError(t, err)
	return a
}

func (f *fixture) token(t *testing.T, username string, role models.Role) string {
	t.Helper()
	tok, _, err := f.signer.Issue(username, role, 0)
	require.NoError(t, err)
	return tok
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, apperr.CodeOf(err), "error: %v", err)
}
