// Package auth resolves transport credentials to caller identities. The
// domain layer never sees credentials; it receives only the resolved user
// id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/matslogic/matslogic/pkg/graph"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordHashFailed = errors.New("failed to hash password")
)

const (
	MinPasswordLength = 8
	MaxNameLength     = 100
	BcryptCost        = 12 // Cost factor for bcrypt
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service registers users and verifies credentials against the shared store.
type Service struct {
	store graph.Store
}

// NewService creates an auth service over the storage boundary.
func NewService(store graph.Store) *Service {
	return &Service{store: store}
}

// Register creates a user with a bcrypt-hashed password. Email addresses are
// unique; a duplicate registration fails rather than overwriting.
func (s *Service) Register(ctx context.Context, name, email, password string) (*graph.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || len(name) > MaxNameLength {
		return nil, ErrEmptyName
	}
	if !emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	user, err := s.store.CreateUser(ctx, name, email, string(hash))
	if err != nil {
		if graph.IsConflict(err) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and returns the user. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*graph.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if graph.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser returns the user for a resolved caller id. Used by middleware to
// confirm a token's subject still exists.
func (s *Service) GetUser(ctx context.Context, id int64) (*graph.User, error) {
	return s.store.GetUser(ctx, id)
}

func validatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
