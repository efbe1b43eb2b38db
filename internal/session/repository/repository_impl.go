package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/connectplus/connectplus/internal/session/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func orderedMessages(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func (r *repo) FindByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) (*domain.ChatSession, error) {
	var sessions []*domain.ChatSession
	err := db.WithContext(ctx).
		Preload("Messages", orderedMessages).
		Where("customer_id = ?", customerID).
		Limit(1).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.ChatSession, error) {
	var sessions []*domain.ChatSession
	err := db.WithContext(ctx).
		Preload("Messages", orderedMessages).
		Order("last_updated desc, customer_id asc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repo) UpsertSession(ctx context.Context, db *gorm.DB, session *domain.ChatSession) error {
	return db.WithContext(ctx).
		Omit("Messages").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"customer_name", "last_updated"}),
		}).
		Create(session).Error
}

func (r *repo) InsertMessage(ctx context.Context, db *gorm.DB, message *domain.Message) error {
	return db.WithContext(ctx).Create(message).Error
}

func (r *repo) ReplaceMessages(ctx context.Context, db *gorm.DB, customerID snowflake.ID, messages []domain.Message) error {
	if err := db.WithContext(ctx).
		Where("session_id = ?", customerID).
		Delete(&domain.Message{}).Error; err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}
	for i := range messages {
		messages[i].SessionID = customerID
	}
	return db.WithContext(ctx).Create(&messages).Error
}
