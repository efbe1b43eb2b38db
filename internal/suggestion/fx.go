package suggestion

import (
	"github.com/connectplus/connectplus/internal/suggestion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("suggestion.service",
	fx.Provide(service.LoadConfig),
	fx.Provide(service.New),
)
