package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/connectplus/connectplus/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

// Open connects to the configured database. For sqlite a file that turns
// out not to be a database is moved aside and replaced with an empty one,
// so a corrupted store degrades to an empty state instead of refusing to
// start.
func Open(p Params) (*gorm.DB, error) {
	gdb, err := open(p.Cfg)
	if err != nil && p.Cfg.DBType == "sqlite" {
		p.Log.Warn("sqlite store unreadable, resetting to empty",
			zap.String("path", p.Cfg.DBName),
			zap.Error(err),
		)
		if renameErr := quarantine(p.Cfg.DBName); renameErr != nil {
			return nil, renameErr
		}
		gdb, err = open(p.Cfg)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if p.Cfg.DBMaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(p.Cfg.DBMaxIdleConn)
	}
	if p.Cfg.DBMaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(p.Cfg.DBMaxOpenConn)
	}
	if p.Cfg.DBType == "sqlite" {
		// Serialize writers; sqlite handles one at a time anyway.
		sqlDB.SetMaxOpenConns(1)
	}

	if p.Lc != nil {
		p.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ctx
				return sqlDB.Close()
			},
		})
	}

	p.Log.Info("database connected", zap.String("type", p.Cfg.DBType))
	return gdb, nil
}

func open(cfg config.Config) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dialect, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	// A corrupt sqlite file often opens fine and only fails on first read.
	if err := gdb.Exec("SELECT 1").Error; err != nil {
		if sqlDB, dbErr := gdb.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return gdb, nil
}

func quarantine(path string) error {
	if path == "" || path == ":memory:" {
		return fmt.Errorf("cannot reset sqlite store %q", path)
	}
	backup := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
	if err := os.Rename(path, backup); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
