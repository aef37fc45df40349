package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"

	filestorage "mealshare/internal/storage/filestorage"
)

type Repository struct {
	db   *pgxpool.Pool
	Meal MealRepository
}

func NewRepository(ctx context.Context, log *slog.Logger, dsn string, files filestorage.FileStorage) (*Repository, error) {
	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		db:   db,
		Meal: NewMealRepository(log, db, files),
	}, nil
}

// Ping проверяет подключение к базе данных
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *Repository) Close() {
	r.db.Close()
}
