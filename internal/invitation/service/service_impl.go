package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/connectplus/connectplus/internal/clock"
	identitydomain "github.com/connectplus/connectplus/internal/identity/domain"
	"github.com/connectplus/connectplus/internal/invitation/domain"
	"github.com/connectplus/connectplus/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8

	// Collisions on an 8-symbol code are unlikely but the original never
	// ruled them out; the unique index plus a bounded retry does.
	maxCreateAttempts = 5
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Identity identitydomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	identity identitydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invitation.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		identity: p.Identity,
	}
}

func (s *Service) Create(ctx context.Context) (domain.Invitation, error) {
	now := s.clock.Now()

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return domain.Invitation{}, err
		}

		invitation := domain.Invitation{
			ID:        s.genID.Generate(),
			Code:      code,
			IsUsed:    false,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Insert(ctx, s.db, &invitation); err != nil {
			if db.IsDuplicateKeyErr(err) {
				lastErr = err
				continue
			}
			return domain.Invitation{}, err
		}

		s.log.Info("invitation created", zap.String("code", invitation.Code))
		return invitation, nil
	}

	return domain.Invitation{}, fmt.Errorf("generate unique invitation code: %w", lastErr)
}

func (s *Service) Redeem(ctx context.Context, req domain.RedeemRequest) (*domain.RedeemResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var resp domain.RedeemResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.repo.MarkUsed(ctx, tx, code, name, s.clock.Now())
		if err != nil {
			return err
		}
		if changed == 0 {
			return domain.ErrInvalidInvitation
		}

		invitation, err := s.repo.FindByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if invitation == nil {
			return domain.ErrInvalidInvitation
		}

		user, err := s.identity.RegisterCustomer(ctx, tx, name, code)
		if err != nil {
			return err
		}

		resp = domain.RedeemResponse{User: *user, Invitation: *invitation}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invitation redeemed",
		zap.String("code", code),
		zap.String("customer_id", resp.User.ID.String()),
	)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Invitation, error) {
	items, err := s.repo.List(ctx, s.db, req.UnusedOnly)
	if err != nil {
		return nil, err
	}

	invitations := make([]domain.Invitation, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invitations = append(invitations, *item)
	}
	return invitations, nil
}

// generateCode produces an XXXX-XXXX token over A-Z0-9.
func generateCode() (string, error) {
	var b strings.Builder
	b.Grow(codeLength + 1)
	size := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		if i == codeLength/2 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
