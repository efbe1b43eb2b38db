package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Password string
}

type LoginResult struct {
	User  User
	Token string
}

type Service interface {
	// Login authenticates the administrator with the shared secret and
	// opens a session.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// Logout revokes the session token. Unknown tokens are a no-op.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*User, error)
	// StartSession issues a token for an already-created user (used after
	// invitation redemption).
	StartSession(ctx context.Context, userID snowflake.ID) (string, error)
	// GetUser loads a user by id.
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	// RegisterCustomer inserts a new customer identity inside the given
	// transaction.
	RegisterCustomer(ctx context.Context, tx *gorm.DB, name, invitationCode string) (*User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrNotFound           = errors.New("not_found")
)
