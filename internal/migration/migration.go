package migration

import (
	identitydomain "github.com/connectplus/connectplus/internal/identity/domain"
	invitationdomain "github.com/connectplus/connectplus/internal/invitation/domain"
	sessiondomain "github.com/connectplus/connectplus/internal/session/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func Run(p Params) error {
	if err := p.DB.AutoMigrate(
		&identitydomain.User{},
		&invitationdomain.Invitation{},
		&sessiondomain.ChatSession{},
		&sessiondomain.Message{},
	); err != nil {
		return err
	}
	p.Log.Info("schema migrated")
	return nil
}
