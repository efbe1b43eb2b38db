package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/connectplus/connectplus/internal/clock"
	"github.com/connectplus/connectplus/internal/session/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("session.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) GetOrCreate(ctx context.Context, customerID snowflake.ID, customerName string) (domain.ChatSession, error) {
	existing, err := s.repo.FindByCustomer(ctx, s.db, customerID)
	if err != nil {
		return domain.ChatSession{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	// Not persisted until the first append.
	return domain.ChatSession{
		CustomerID:   customerID,
		CustomerName: customerName,
		Messages:     []domain.Message{},
		LastUpdated:  s.clock.Now(),
	}, nil
}

func (s *Service) Append(ctx context.Context, req domain.AppendRequest) (domain.ChatSession, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && req.ImageURL == "" {
		return domain.ChatSession{}, domain.ErrEmptyMessage
	}

	now := s.clock.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByCustomer(ctx, tx, req.CustomerID)
		if err != nil {
			return err
		}

		name := req.CustomerName
		if existing != nil && name == "" {
			name = existing.CustomerName
		}
		if name == "" && req.SenderID == req.CustomerID {
			name = req.SenderName
		}

		if err := s.repo.UpsertSession(ctx, tx, &domain.ChatSession{
			CustomerID:   req.CustomerID,
			CustomerName: name,
			LastUpdated:  now,
		}); err != nil {
			return err
		}

		return s.repo.InsertMessage(ctx, tx, &domain.Message{
			ID:         s.genID.Generate(),
			SessionID:  req.CustomerID,
			SenderID:   req.SenderID,
			SenderName: req.SenderName,
			Text:       req.Text,
			ImageURL:   req.ImageURL,
			Timestamp:  now,
		})
	})
	if err != nil {
		return domain.ChatSession{}, err
	}

	updated, err := s.repo.FindByCustomer(ctx, s.db, req.CustomerID)
	if err != nil {
		return domain.ChatSession{}, err
	}
	if updated == nil {
		return domain.ChatSession{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) Upsert(ctx context.Context, session domain.ChatSession) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpsertSession(ctx, tx, &session); err != nil {
			return err
		}
		return s.repo.ReplaceMessages(ctx, tx, session.CustomerID, session.Messages)
	})
}

func (s *Service) ListByRecency(ctx context.Context) ([]domain.ChatSession, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.ChatSession, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		sessions = append(sessions, *item)
	}
	return sessions, nil
}

func (s *Service) Get(ctx context.Context, customerID snowflake.ID) (domain.ChatSession, error) {
	existing, err := s.repo.FindByCustomer(ctx, s.db, customerID)
	if err != nil {
		return domain.ChatSession{}, err
	}
	if existing == nil {
		return domain.ChatSession{}, domain.ErrNotFound
	}
	return *existing, nil
}
