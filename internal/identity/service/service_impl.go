package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/connectplus/connectplus/internal/clock"
	"github.com/connectplus/connectplus/internal/config"
	"github.com/connectplus/connectplus/internal/identity/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository

	mu     sync.Mutex
	tokens map[string]snowflake.ID
}

func New(p Params) domain.Service {
	return &Service{
		cfg:    p.Cfg,
		db:     p.DB,
		log:    p.Log.Named("identity.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		tokens: make(map[string]snowflake.ID),
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.AdminPassword)) != 1 {
		return nil, domain.ErrInvalidCredentials
	}

	admin, err := s.repo.FindByID(ctx, s.db, domain.AdminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, domain.ErrNotFound
	}

	token, err := s.StartSession(ctx, admin.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("admin logged in", zap.String("user_id", admin.ID.String()))
	return &domain.LoginResult{User: *admin, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	_ = ctx
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	s.mu.Lock()
	userID, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (s *Service) StartSession(ctx context.Context, userID snowflake.ID) (string, error) {
	_ = ctx
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = userID
	s.mu.Unlock()
	return token, nil
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *Service) RegisterCustomer(ctx context.Context, tx *gorm.DB, name, invitationCode string) (*domain.User, error) {
	user := domain.User{
		ID:             s.genID.Generate(),
		Name:           strings.TrimSpace(name),
		Role:           domain.RoleCustomer,
		InvitationCode: invitationCode,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, tx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
