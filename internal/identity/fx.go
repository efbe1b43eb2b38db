package identity

import (
	"context"

	"github.com/connectplus/connectplus/internal/clock"
	"github.com/connectplus/connectplus/internal/config"
	"github.com/connectplus/connectplus/internal/identity/domain"
	"github.com/connectplus/connectplus/internal/identity/repository"
	"github.com/connectplus/connectplus/internal/identity/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(seedAdmin),
)

type seedParams struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

func seedAdmin(p seedParams) error {
	admin := domain.User{
		ID:        domain.AdminID,
		Name:      p.Cfg.AdminName,
		Role:      domain.RoleAdmin,
		CreatedAt: p.Clock.Now(),
	}
	if err := p.Repo.EnsureAdmin(context.Background(), p.DB, &admin); err != nil {
		return err
	}
	p.Log.Info("admin identity ready", zap.String("user_id", admin.ID.String()))
	return nil
}
