package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/connectplus/connectplus/internal/clock"
	"github.com/connectplus/connectplus/internal/config"
	"github.com/connectplus/connectplus/internal/identity"
	"github.com/connectplus/connectplus/internal/invitation"
	"github.com/connectplus/connectplus/internal/migration"
	"github.com/connectplus/connectplus/internal/observability"
	"github.com/connectplus/connectplus/internal/ratelimit"
	"github.com/connectplus/connectplus/internal/server"
	"github.com/connectplus/connectplus/internal/session"
	"github.com/connectplus/connectplus/internal/suggestion"
	"github.com/connectplus/connectplus/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,

		// Functional domains
		identity.Module,
		invitation.Module,
		session.Module,
		suggestion.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
