package repository

import (
	"context"

	"mealshare/internal/domain/models"
)

type MealRepository interface {
	FindAll(ctx context.Context) ([]models.Meal, error)
	FindByID(ctx context.Context, id int64) (*models.Meal, error)
	FindBySlug(ctx context.Context, slug string) (*models.Meal, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	GenerateUniqueSlug(ctx context.Context, title string) (string, error)
	SaveMeal(ctx context.Context, form models.MealFormData) (*models.Meal, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}
