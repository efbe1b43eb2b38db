package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByCustomer loads a session with its transcript in insertion
	// order, or nil when the customer has none.
	FindByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*ChatSession, error)
	// List returns all sessions with transcripts, most recently updated
	// first.
	List(ctx context.Context, db *gorm.DB) ([]*ChatSession, error)
	// UpsertSession writes the session row (not its messages).
	UpsertSession(ctx context.Context, db *gorm.DB, session *ChatSession) error
	InsertMessage(ctx context.Context, db *gorm.DB, message *Message) error
	// ReplaceMessages swaps the whole transcript for a session.
	ReplaceMessages(ctx context.Context, db *gorm.DB, customerID snowflake.ID, messages []Message) error
}
