package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/matslogic/matslogic/pkg/store/memory"
)

func TestRegister(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid registration",
			username: "alice",
			email:    "alice@example.com",
			password: "correct-horse-battery",
		},
		{
			name:     "empty name",
			username: "",
			email:    "noname@example.com",
			password: "correct-horse-battery",
			wantErr:  ErrEmptyName,
		},
		{
			name:     "invalid email",
			username: "bob",
			email:    "not-an-email",
			password: "correct-horse-battery",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "empty password",
			username: "bob",
			email:    "bob@example.com",
			password: "",
			wantErr:  ErrEmptyPassword,
		},
		{
			name:     "short password",
			username: "bob",
			email:    "bob@example.com",
			password: "short",
			wantErr:  ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Register(ctx, tt.username, tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID == 0 {
				t.Error("expected non-zero user id")
			}
			if user.PasswordHash == tt.password {
				t.Error("password stored in the clear")
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse-battery"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(ctx, "alice2", "alice@example.com", "correct-horse-battery"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, "alice@example.com", "correct-horse-battery")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("expected user %d, got %d", registered.ID, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		// Same error as a wrong password, so probes can't tell accounts apart.
		if _, err := svc.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
