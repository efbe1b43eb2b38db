package session

import (
	"github.com/connectplus/connectplus/internal/session/repository"
	"github.com/connectplus/connectplus/internal/session/service"
	"go.uber.org/fx"
)

var Module = fx.Module("session.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
