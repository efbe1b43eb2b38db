package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invitation *Invitation) error
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Invitation, error)
	List(ctx context.Context, db *gorm.DB, unusedOnly bool) ([]*Invitation, error)
	// MarkUsed flips is_used on an unused code and records the assignee.
	// Returns the number of rows changed: 0 means the code was unknown or
	// already used.
	MarkUsed(ctx context.Context, db *gorm.DB, code, assignedTo string, at time.Time) (int64, error)
}
