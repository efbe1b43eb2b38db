package repository

import (
	"context"
	"time"

	"github.com/connectplus/connectplus/internal/invitation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invitation *domain.Invitation) error {
	return db.WithContext(ctx).Create(invitation).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, is_used, assigned_to, created_at, updated_at
		 FROM invitations WHERE code = ?`,
		code,
	).Scan(&invitation).Error
	if err != nil {
		return nil, err
	}
	if invitation.ID == 0 {
		return nil, nil
	}
	return &invitation, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, unusedOnly bool) ([]*domain.Invitation, error) {
	var invitations []*domain.Invitation
	stmt := db.WithContext(ctx).Model(&domain.Invitation{})
	if unusedOnly {
		stmt = stmt.Where("is_used = ?", false)
	}
	err := stmt.Order("created_at asc, id asc").Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *repo) MarkUsed(ctx context.Context, db *gorm.DB, code, assignedTo string, at time.Time) (int64, error) {
	// Single check-and-set statement so two racing redemptions of the same
	// code cannot both observe is_used = false.
	res := db.WithContext(ctx).Exec(
		`UPDATE invitations SET is_used = ?, assigned_to = ?, updated_at = ?
		 WHERE code = ? AND is_used = ?`,
		true, assignedTo, at, code, false,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
