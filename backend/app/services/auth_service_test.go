package services

import (
	"context"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/models"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.create(t, models.RoleStudent, "ada", "s3cret")
	f.create(t, models.RoleInstructor, "turing", "enigma")

	t.Run("student succeeds", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "ada", "s3cret", models.RoleStudent)
		require.NoError(t, err)
		assert.Equal(t, "Bearer", res.TokenType)
		assert.Equal(t, models.RoleStudent, res.Role)
		assert.Equal(t, testNow.Add(f.signer.TTL()), res.ExpiresAt)

		id, err := f.signer.Validate(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "ada", id.Username)
		assert.Equal(t, models.RoleStudent, id.Role)
	})

	t.Run("instructor succeeds", func(t *testing.T) {
		res, err := f.auth.Login(ctx, "turing", "enigma", models.RoleInstructor)
		require.NoError(t, err)
		assert.Equal(t, models.RoleInstructor, res.Role)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, wrongPass := f.auth.Login(ctx, "ada", "nope", models.RoleStudent)
		_, unknown := f.auth.Login(ctx, "nobody", "s3cret", models.RoleStudent)
		requireCode(t, wrongPass, apperr.CodeInvalidCredentials)
		requireCode(t, unknown, apperr.CodeInvalidCredentials)
		assert.Equal(t, apperr.Message(wrongPass), apperr.Message(unknown))
	})

	t.Run("lookup uses the requested partition", func(t *testing.T) {
		_, err := f.auth.Login(ctx, "ada", "s3cret", models.RoleInstructor)
		requireCode(t, err, apperr.CodeInvalidCredentials)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := f.auth.Login(ctx, "", "", models.RoleStudent)
		requireCode(t, err, apperr.CodeInvalidCredentials)
	})
}

func TestLoginEmbedsStoredRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	hash, err := f.hasher.Hash("pw")
	require.NoError(t, err)
	// A record in the instructor partition whose stored role says student.
	require.NoError(t, f.db.Table(models.RoleInstructor.Table()).Create(&models.Account{
		Username: "mixed", FirstName: "M", LastName: "X", Email: "mixed@example.com",
		DateOfBirth: testNow, Role: models.RoleStudent, PasswordHash: hash,
	}).Error)

	res, err := f.auth.Login(ctx, "mixed", "pw", models.RoleInstructor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.Role)

	id, err := f.signer.Validate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, id.Role)
}

func TestLoginThrottle(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	throttle := NewRedisThrottle(rdb, 3, time.Minute)
	f := newFixture(t, throttle)
	f.create(t, models.RoleStudent, "ada", "s3cret")

	for i := 0; i < 3; i++ {
		_, err := f.auth.Login(ctx, "ada", "wrong", models.RoleStudent)
		requireCode(t, err, apperr.CodeInvalidCredentials)
	}

	_, err := f.auth.Login(ctx, "ada", "s3cret", models.RoleStudent)
	requireCode(t, err, apperr.CodeTooManyAttempts)

	t.Run("unknown usernames are counted too", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := f.auth.Login(ctx, "ghost", "x", models.RoleStudent)
			requireCode(t, err, apperr.CodeInvalidCredentials)
		}
		_, err := f.auth.Login(ctx, "ghost", "x", models.RoleStudent)
		requireCode(t, err, apperr.CodeTooManyAttempts)
	})

	t.Run("usernames differing in case have separate counters", func(t *testing.T) {
		f.create(t, models.RoleStudent, "Ada", "upper")
		_, err := f.auth.Login(ctx, "Ada", "upper", models.RoleStudent)
		require.NoError(t, err)
		assert.NotEqual(t, failureKey(models.RoleStudent, "ada"), failureKey(models.RoleStudent, "Ada"))
	})

	t.Run("lockout ends with the window", func(t *testing.T) {
		mr.FastForward(time.Minute + time.Second)
		_, err := f.auth.Login(ctx, "ada", "s3cret", models.RoleStudent)
		require.NoError(t, err)
	})

	t.Run("success resets the counter", func(t *testing.T) {
		_, _ = f.auth.Login(ctx, "ada", "wrong", models.RoleStudent)
		_, _ = f.auth.Login(ctx, "ada", "wrong", models.RoleStudent)
		_, err := f.auth.Login(ctx, "ada", "s3cret", models.RoleStudent)
		require.NoError(t, err)
		assert.False(t, mr.Exists(failureKey(models.RoleStudent, "ada")))
	})
}

func TestLoginThrottleFailsOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	f := newFixture(t, NewRedisThrottle(rdb, 1, time.Minute))
	f.create(t, models.RoleStudent, "ada", "s3cret")

	mr.Close()
	_, err := f.auth.Login(ctx, "ada", "s3cret", models.RoleStudent)
	assert.NoError(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	again, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")

	assert.True(t, h.Verify("correct horse", hash))
	assert.False(t, h.Verify("battery staple", hash))
	assert.False(t, h.Verify("correct horse", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("correct horse", ""))

	_, err = h.Hash("")
	requireCode(t, err, apperr.CodeValidation)

	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
