package invitation

import (
	"github.com/connectplus/connectplus/internal/invitation/repository"
	"github.com/connectplus/connectplus/internal/invitation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
