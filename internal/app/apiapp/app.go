package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fourpaws/backend/internal/config"
	s3infra "github.com/fourpaws/backend/internal/infra/s3"
	pgrepo "github.com/fourpaws/backend/internal/repo/postgres"
	redrepo "github.com/fourpaws/backend/internal/repo/redis"
	authsvc "github.com/fourpaws/backend/internal/services/auth"
	mediasvc "github.com/fourpaws/backend/internal/services/media"
	memorialsvc "github.com/fourpaws/backend/internal/services/memorials"
	petssvc "github.com/fourpaws/backend/internal/services/pets"
	publicsvc "github.com/fourpaws/backend/internal/services/public"
	ratesvc "github.com/fourpaws/backend/internal/services/rate"
	themesvc "github.com/fourpaws/backend/internal/services/themes"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pgrepo.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	userRepo := pgrepo.NewUserRepo(pool)
	sessionRepo := pgrepo.NewSessionRepo(pool)
	petRepo := pgrepo.NewPetRepo(pool)
	memorialRepo := pgrepo.NewMemorialRepo(pool)
	mediaRepo := pgrepo.NewMediaRepo(pool)
	themeRepo := pgrepo.NewThemeRepo(pool)
	publicRepo := pgrepo.NewPublicRepo(pool)

	// Quotas are shared across instances when redis is configured and
	// per-instance otherwise.
	var (
		redisClient *goredis.Client
		rateStore   ratesvc.WindowStore = ratesvc.NewMemoryStore()
	)
	if cfg.Redis.Addr != "" {
		redisClient = redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		rateStore = redrepo.NewRateRepo(redisClient)
	}
	rateLimiter := ratesvc.NewLimiter(rateStore)

	var (
		mediaStorage mediasvc.ObjectStorage
		localStorage *mediasvc.LocalStorage
	)
	switch cfg.Storage.Kind {
	case "s3":
		s3Client, err := s3infra.NewClient(s3infra.Config{
			Endpoint:  cfg.Storage.S3.Endpoint,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			UseSSL:    cfg.Storage.S3.UseSSL,
		})
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init s3 storage: %w", err)
		}
		mediaStorage = mediasvc.NewS3Storage(s3Client, cfg.Storage.S3.Bucket)
	default:
		localStorage, err = mediasvc.NewLocalStorage(cfg.Storage.Root)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		mediaStorage = localStorage
	}

	cookies := authsvc.NewCookieManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.IsProduction())
	authService := authsvc.NewService(userRepo, sessionRepo, cookies)
	petsService := petssvc.NewService(petRepo)
	memorialsService := memorialsvc.NewService(memorialRepo, petRepo)
	mediaService := mediasvc.NewService(mediaRepo, memorialRepo, mediaStorage)
	themesService := themesvc.NewService(themeRepo)
	publicService := publicsvc.NewService(publicRepo)

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)
	RegisterRoutes(r, Dependencies{
		AuthService:      authService,
		PetsService:      petsService,
		MemorialsService: memorialsService,
		MediaService:     mediaService,
		ThemesService:    themesService,
		PublicService:    publicService,
		LocalStorage:     localStorage,
		RateLimiter:      rateLimiter,
		Logger:           log,
		Config:           cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
