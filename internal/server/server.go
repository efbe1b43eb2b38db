package server

import (
	"context"
	"net/http"
	"time"

	"github.com/connectplus/connectplus/internal/config"
	identitydomain "github.com/connectplus/connectplus/internal/identity/domain"
	invitationdomain "github.com/connectplus/connectplus/internal/invitation/domain"
	"github.com/connectplus/connectplus/internal/observability"
	obslogger "github.com/connectplus/connectplus/internal/observability/logger"
	obsmetrics "github.com/connectplus/connectplus/internal/observability/metrics"
	"github.com/connectplus/connectplus/internal/ratelimit"
	sessiondomain "github.com/connectplus/connectplus/internal/session/domain"
	suggestiondomain "github.com/connectplus/connectplus/internal/suggestion/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	log           *zap.Logger
	limiter       *ratelimit.TokenBucket
	identitySvc   identitydomain.Service
	invitationSvc invitationdomain.Service
	sessionSvc    sessiondomain.Service
	suggestionSvc suggestiondomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	Limiter       *ratelimit.TokenBucket `optional:"true"`
	IdentitySvc   identitydomain.Service
	InvitationSvc invitationdomain.Service
	SessionSvc    sessiondomain.Service
	SuggestionSvc suggestiondomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		log:           p.Log.Named("http.server"),
		limiter:       p.Limiter,
		identitySvc:   p.IdentitySvc,
		invitationSvc: p.InvitationSvc,
		sessionSvc:    p.SessionSvc,
		suggestionSvc: p.SuggestionSvc,
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	auth := s.engine.Group("/auth")
	{
		auth.POST("/login", s.throttle(), s.Login)
		auth.POST("/redeem", s.throttle(), s.RedeemInvitation)
		auth.POST("/logout", s.requireUser(), s.Logout)
		auth.GET("/me", s.requireUser(), s.Me)
	}

	api := s.engine.Group("/api", s.requireUser())
	{
		api.POST("/invitations", s.requireAdmin(), s.CreateInvitation)
		api.GET("/invitations", s.requireAdmin(), s.ListInvitations)

		api.GET("/sessions", s.requireAdmin(), s.ListSessions)
		api.GET("/sessions/:customerId", s.requireSelfOrAdmin(), s.GetSession)
		api.POST("/sessions/:customerId/messages", s.requireSelfOrAdmin(), s.AppendMessage)

		api.POST("/sessions/:customerId/suggestion", s.requireAdmin(), s.SuggestReply)
		api.POST("/sessions/:customerId/summary", s.requireAdmin(), s.SummarizeSession)
	}
}

func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
