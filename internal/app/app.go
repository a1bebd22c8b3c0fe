package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/nochase/nochase/content"
	"github.com/nochase/nochase/internal/config"
	"github.com/nochase/nochase/internal/db"
	"github.com/nochase/nochase/internal/repository"
	"github.com/nochase/nochase/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Redis           *redis.Client // nil unless REDIS_URL is set
	AuthService     *service.AuthService
	GoalService     *service.GoalService
	ResourceService *service.ResourceService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.AutoMigrate {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
		if err != nil {
			_ = db.Close(database)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	resourceService := service.NewResourceService(resourcesFS(cfg))
	err = resourceService.LoadResources()
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = db.Close(database)
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(opts)
	}

	// Repositories
	goalRepository := repository.NewGoalRepository(database)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Redis:           redisClient,
		AuthService:     service.NewAuthService(verifier),
		GoalService:     service.NewGoalService(goalRepository),
		ResourceService: resourceService,
	}, nil
}

// newVerifier prefers Firebase ID tokens when credentials are configured.
func newVerifier(ctx context.Context, cfg *config.Config) (service.TokenVerifier, error) {
	if cfg.UsesFirebase() {
		verifier, err := service.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return verifier, nil
	}
	return service.NewJWTVerifier(cfg.JWTSecret, cfg.JWTExpiry), nil
}

// resourcesFS serves CONTENT_PATH/resources when set, else the embedded copy.
func resourcesFS(cfg *config.Config) fs.FS {
	if cfg.ContentPath != "" {
		return os.DirFS(filepath.Join(cfg.ContentPath, "resources"))
	}
	sub, err := fs.Sub(content.ResourcesFS, "resources")
	if err != nil {
		// only fails for an invalid path literal
		panic(err)
	}
	return sub
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, db.Close(a.DB))
	}
	return errors.Join(errs...)
}
