package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/metrics"

	"github.com/google/uuid"
)

const (
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserNotFound       = "User not found"
	MsgLoginFields        = "Please provide email and password"
	MsgPasswordTooLong    = "Password must be at most 72 bytes"
)

type RegisterInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileImageURL string `json:"profileImageURL"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  core.User
	Token string
}

type AuthService struct {
	users  UserStore
	tokens *auth.TokenManager
	cache  cache.Cache[core.User]
	now    func() time.Time
}

// NewAuthService wires the auth flow. userCache may be nil.
func NewAuthService(users UserStore, tokens *auth.TokenManager, userCache cache.Cache[core.User]) *AuthService {
	return &AuthService{users: users, tokens: tokens, cache: userCache, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := core.NormalizeEmail(in.Email)
	if fullName == "" || email == "" || in.Password == "" {
		return AuthResult{}, core.Validation(core.MsgMissingFields)
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return AuthResult{}, core.Validation(MsgPasswordTooLong)
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, core.Conflict(MsgUserExists)
	case !errors.Is(err, core.ErrNotFound):
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.now().UTC()
	user := core.User{
		ID:              uuid.NewString(),
		FullName:        fullName,
		Email:           email,
		PasswordHash:    hash,
		ProfileImageURL: strings.TrimSpace(in.ProfileImageURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return AuthResult{}, core.Conflict(MsgUserExists)
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, err
	}

	slog.InfoContext(ctx, "User registered", log.NewFields().WithUser(user.ID).ToSlice()...)
	return AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	email := core.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return AuthResult{}, core.Validation(MsgLoginFields)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return AuthResult{}, core.Unauthorized(MsgInvalidCredentials)
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return AuthResult{}, core.Unauthorized(MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

// GetUser returns the profile of userID. Users never change after
// registration, so cached profiles are served until they expire.
func (s *AuthService) GetUser(ctx context.Context, userID string) (core.User, error) {
	if s.cache != nil {
		if u, ok := s.cache.Get(userID); ok {
			metrics.RecordCacheLookup("users", true)
			return u, nil
		}
		metrics.RecordCacheLookup("users", false)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return core.User{}, core.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(userID, user)
	}
	return user, nil
}
