package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "mealshare/internal/app/http"
	"mealshare/internal/config"
	"mealshare/internal/repository"
	services "mealshare/internal/services/meal_service"
	filestorage "mealshare/internal/storage/filestorage"
	s3storage "mealshare/internal/storage/s3"
	httprouters "mealshare/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Repo       *repository.Repository
}

// New wires the whole application: storage driver, database pool,
// repositories, services, routers, HTTP server. Every dependency is
// constructed once and passed explicitly.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	files, err := newFileStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo, err := repository.NewRepository(ctx, log, cfg.DSN, files)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mealService := services.NewMealService(log, repo.Meal)

	routers := httprouters.NewRouter(log, mealService, repo, cfg.Admin.PassKey)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	if cfg.FileStorage.Driver == "local" {
		server.ServeUploads(cfg.FileStorage.BaseDir)
	}

	return &App{
		HTTPServer: server,
		Repo:       repo,
	}, nil
}

func (a *App) Stop() error {
	defer a.Repo.Close()
	return a.HTTPServer.Stop()
}

func newFileStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, error) {
	switch cfg.FileStorage.Driver {
	case "", "local":
		return filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	case "s3":
		return s3storage.New(ctx, s3storage.Config{
			Bucket:   cfg.FileStorage.S3.Bucket,
			Region:   cfg.FileStorage.S3.Region,
			Endpoint: cfg.FileStorage.S3.Endpoint,
			BaseURL:  cfg.FileStorage.S3.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown file storage driver %q", cfg.FileStorage.Driver)
	}
}
