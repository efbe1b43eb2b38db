package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type AppendRequest struct {
	CustomerID   snowflake.ID
	CustomerName string
	SenderID     snowflake.ID
	SenderName   string
	Text         string
	ImageURL     string
}

type Service interface {
	// GetOrCreate returns the customer's session, or an empty one that is
	// not persisted until a message is appended. Idempotent.
	GetOrCreate(ctx context.Context, customerID snowflake.ID, customerName string) (ChatSession, error)
	// Append validates and appends one message, bumping lastUpdated. The
	// transcript is untouched on failure.
	Append(ctx context.Context, req AppendRequest) (ChatSession, error)
	// Upsert replaces the session for its customer, or inserts it.
	Upsert(ctx context.Context, session ChatSession) error
	// ListByRecency returns all sessions ordered by lastUpdated descending.
	ListByRecency(ctx context.Context) ([]ChatSession, error)
	// Get returns the session for a customer, or ErrNotFound.
	Get(ctx context.Context, customerID snowflake.ID) (ChatSession, error)
}

var (
	ErrEmptyMessage = errors.New("empty_message")
	ErrNotFound     = errors.New("not_found")
)
