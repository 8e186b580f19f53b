package app

import (
	"database/sql"

	"go-payroll/internal/shared/config"
	"go-payroll/internal/shared/connection"
	"go-payroll/migrations"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type infrastructure struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	rdb    *redis.Client
}

func (i *infrastructure) Close() {
	if i.rdb != nil {
		_ = i.rdb.Close()
	}
	if i.sqlDB != nil {
		_ = i.sqlDB.Close()
	}
}

func connect(cfg *config.Config, logger *zap.Logger) (*infrastructure, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Database.RunMigrations {
		if err := connection.RunMigrations(sqlDB, migrations.FS, logger); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.Database.MaxRetries, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	return &infrastructure{gormDB: gormDB, sqlDB: sqlDB, rdb: rdb}, nil
}

// BuildApp connects the stores and mounts every module under /api/v1. The
// returned func releases the connections.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	logger = logger.Named("app")

	infra, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	registerModules(router, cfg, infra, logger)
	return infra.Close, nil
}
