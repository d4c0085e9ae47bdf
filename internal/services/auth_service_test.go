package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *memory.Store, *auth.TokenManager) {
	t.Helper()
	store := memory.New()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(store, tokens, cache.NewLRUCache[core.User](16, time.Minute)), store, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthService(t)

	res, err := svc.Register(ctx, RegisterInput{FullName: "Ada Lovelace", Email: "  Ada@Example.com ", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.NotEqual(t, "s3cret", res.User.PasswordHash)

	id, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id)

	login, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{FullName: "Ada", Email: "ada@example.com"})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, core.MsgMissingFields, core.PublicMessage(err, ""))

	_, err = store.GetUserByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound, "no user may be created on validation failure")

	_, err = svc.Register(ctx, RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: strings.Repeat("x", 80)})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, MsgPasswordTooLong, core.PublicMessage(err, ""))
	_, err = store.GetUserByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Register(ctx, RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: strings.Repeat("x", 72)})
	assert.NoError(t, err, "72 bytes is the longest accepted password")
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	_, err := svc.Register(ctx, RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{FullName: "Other", Email: "ADA@example.com", Password: "y"})
	require.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, MsgUserExists, core.PublicMessage(err, ""))
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)
	_, err := svc.Register(ctx, RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: "right"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	_, unknownUser := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "right"})

	for _, err := range []error{wrongPassword, unknownUser} {
		require.ErrorIs(t, err, core.ErrUnauthorized)
		assert.Equal(t, MsgInvalidCredentials, core.PublicMessage(err, ""))
	}

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

type countingUsers struct {
	*memory.Store
	byID int
}

func (c *countingUsers) GetUserByID(ctx context.Context, id string) (core.User, error) {
	c.byID++
	return c.Store.GetUserByID(ctx, id)
}

func TestGetUserUsesCache(t *testing.T) {
	ctx := context.Background()
	users := &countingUsers{Store: memory.New()}
	svc := NewAuthService(users, auth.NewTokenManager("k", time.Hour), cache.NewLRUCache[core.User](4, time.Minute))

	res, err := svc.Register(ctx, RegisterInput{FullName: "Ada", Email: "ada@example.com", Password: "x"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		u, err := svc.GetUser(ctx, res.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", u.FullName)
	}
	assert.Equal(t, 1, users.byID)

	_, err = svc.GetUser(ctx, "missing")
	require.True(t, errors.Is(err, core.ErrNotFound))
	assert.Equal(t, MsgUserNotFound, core.PublicMessage(err, ""))
}
