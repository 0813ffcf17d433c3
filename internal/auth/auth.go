// Package auth registers users, verifies credentials and tracks the current session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lokeshvpanchal/expense.ai/internal/model"
	"github.com/lokeshvpanchal/expense.ai/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (model.User, error)
	UserByUsername(ctx context.Context, username string) (model.User, error)
}

// Options tunes hashing and password rules.
type Options struct {
	BcryptCost        int
	MinPasswordLength int
}

// DefaultOptions returns production defaults.
func DefaultOptions() Options {
	return Options{
		BcryptCost:        12,
		MinPasswordLength: 8,
	}
}

const (
	maxUsernameLen   = 64
	maxPasswordBytes = 72 // bcrypt input limit
)

// Service is the Auth Service. It holds at most one session.
type Service struct {
	users   UserStore
	opts    Options
	now     func() time.Time
	current *model.Session
}

// NewService creates an auth service over users.
func NewService(users UserStore, opts Options) *Service {
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.MinPasswordLength < 1 {
		opts.MinPasswordLength = 1
	}
	return &Service{users: users, opts: opts, now: time.Now}
}

// Register creates a user and returns its id.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLen {
		return 0, model.ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < s.opts.MinPasswordLength {
		return 0, fmt.Errorf("%w: need at least %d characters", model.ErrWeakPassword, s.opts.MinPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return 0, fmt.Errorf("%w: at most %d bytes", model.ErrWeakPassword, maxPasswordBytes)
	}

	if _, err := s.users.UserByUsername(ctx, username); err == nil {
		return 0, model.ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.CreateUser(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return 0, model.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return u.ID, nil
}

// Login verifies credentials and makes the user the current session.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	u, err := s.users.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	sess := &model.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Username:  u.Username,
		StartedAt: s.now(),
	}
	s.current = sess
	return sess, nil
}

// Logout clears the current session.
func (s *Service) Logout() {
	s.current = nil
}

// Current returns the active session, if any.
func (s *Service) Current() (*model.Session, bool) {
	return s.current, s.current != nil
}
