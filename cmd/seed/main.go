package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fourpaws/backend/internal/config"
	"github.com/fourpaws/backend/internal/infra/logger"
	pgrepo "github.com/fourpaws/backend/internal/repo/postgres"
	authsvc "github.com/fourpaws/backend/internal/services/auth"
)

// Seeds the owner account from the configured credentials. Safe to run on
// every deploy: an existing account is left untouched.
func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.Owner.Password == "" {
		log.Fatal("owner password is required, set OWNER_PASSWORD or owner.password")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := pgrepo.Migrate(ctx, pool); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	cookies := authsvc.NewCookieManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.IsProduction())
	service := authsvc.NewService(pgrepo.NewUserRepo(pool), pgrepo.NewSessionRepo(pool), cookies)

	owner, err := service.EnsureOwnerExists(ctx, cfg.Owner.Email, cfg.Owner.Password, cfg.Owner.DisplayName)
	if err != nil {
		log.Fatal("seed owner account", zap.Error(err))
	}

	log.Info("owner account ready",
		zap.String("user_id", owner.ID.String()),
		zap.String("email", owner.Email),
	)
}
