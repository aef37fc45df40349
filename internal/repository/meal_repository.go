package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/microcosm-cc/bluemonday"

	"mealshare/internal/domain/models"
	"mealshare/internal/lib/imagefile"
	"mealshare/internal/lib/logger/sl"
	"mealshare/internal/storage"
	filestorage "mealshare/internal/storage/filestorage"
)

const (
	mealsTable  = "meals"
	imagePrefix = "meals"

	// maxSlugAttempts caps the sequential probe so a pathological number
	// of identical titles can't spin the loop forever.
	maxSlugAttempts = 10000
)

var mealColumns = []string{
	"id", "title", "slug", "image", "summary",
	"instructions", "creator", "creator_email", "is_deleted",
}

func scanMeal(row pgx.Row) (models.Meal, error) {
	var m models.Meal
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Slug,
		&m.Image,
		&m.Summary,
		&m.Instructions,
		&m.Creator,
		&m.CreatorEmail,
		&m.IsDeleted,
	)
	return m, err
}

// MealRepo владеет назначением slug и пути к изображению
type MealRepo struct {
	*CrudRepo[models.Meal]
	log          *slog.Logger
	files        filestorage.FileStorage
	instructions *bluemonday.Policy
	plainText    *bluemonday.Policy
}

func NewMealRepository(log *slog.Logger, db *pgxpool.Pool, files filestorage.FileStorage) *MealRepo {
	// Structural formatting survives sanitization, everything else is
	// stripped before the row is written.
	instructions := bluemonday.NewPolicy()
	instructions.AllowElements("br", "p", "ul", "ol", "li", "em", "strong")

	return &MealRepo{
		CrudRepo:     NewCrudRepo(db, mealsTable, mealColumns, scanMeal),
		log:          log,
		files:        files,
		instructions: instructions,
		plainText:    bluemonday.StrictPolicy(),
	}
}

func (r *MealRepo) FindBySlug(ctx context.Context, s string) (*models.Meal, error) {
	return r.FindOneByField(ctx, "slug", s)
}

func (r *MealRepo) SlugExists(ctx context.Context, s string) (bool, error) {
	return r.ExistsByField(ctx, "slug", s)
}

// GenerateUniqueSlug derives a URL-safe slug from title and probes the
// table until an unused candidate is found: base, base-1, base-2, ...
// Each candidate costs one existence query.
func (r *MealRepo) GenerateUniqueSlug(ctx context.Context, title string) (string, error) {
	const op = "repository.meal_repository.GenerateUniqueSlug"

	candidate, err := probeSlug(ctx, slug.Make(title), r.SlugExists)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return candidate, nil
}

// probeSlug checks maxSlugAttempts candidates (base, then base-1 up to
// base-<maxSlugAttempts-1>) and returns the first one exists reports
// free, or ErrSlugExhausted when all are taken.
func probeSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	return "", fmt.Errorf("%q: %w", base, storage.ErrSlugExhausted)
}

// SaveMeal runs the share workflow: unique slug, sanitized fields, image
// upload, row insert. The upload commits before the insert; on insert
// failure the uploaded image is deleted so no orphan is left behind. The
// compensation is best-effort and never masks the original error.
func (r *MealRepo) SaveMeal(ctx context.Context, form models.MealFormData) (*models.Meal, error) {
	const op = "repository.meal_repository.SaveMeal"

	log := r.log.With(
		slog.String("op", op),
		slog.String("title", form.Title),
	)

	uniqueSlug, err := r.GenerateUniqueSlug(ctx, form.Title)
	if err != nil {
		log.Error("failed to generate slug", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fileName := imagefile.Filename(uniqueSlug, form.Image.Filename, form.Image.MediaType, form.Image.ConvertedFromHEIC)
	imagePath := imagePrefix + "/" + fileName

	imageURL, err := r.files.Upload(ctx, form.Image.Content, form.Image.MediaType, imagePath)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	meal := models.Meal{
		Title:        r.plainText.Sanitize(form.Title),
		Slug:         uniqueSlug,
		Image:        imageURL,
		Summary:      r.plainText.Sanitize(form.Summary),
		Instructions: r.instructions.Sanitize(strings.ReplaceAll(form.Instructions, "\n", "<br />")),
		Creator:      r.plainText.Sanitize(form.Creator),
		CreatorEmail: r.plainText.Sanitize(form.CreatorEmail),
	}

	id, err := r.Create(ctx, map[string]interface{}{
		"title":         meal.Title,
		"slug":          meal.Slug,
		"image":         meal.Image,
		"summary":       meal.Summary,
		"instructions":  meal.Instructions,
		"creator":       meal.Creator,
		"creator_email": meal.CreatorEmail,
		"is_deleted":    false,
	})
	if err != nil {
		// Удаляем файл если не удалось сохранить в БД
		if delErr := r.files.Delete(ctx, imagePath); delErr != nil {
			log.Warn("failed to delete uploaded image", sl.Err(delErr))
		}

		// Единственный unique-индекс таблицы это slug, значит нарушение
		// означает проигранную гонку за title.
		if errors.Is(err, storage.ErrUniqueViolation) {
			log.Warn("duplicate slug, insert lost the race", slog.String("slug", uniqueSlug))
			return nil, fmt.Errorf("%s: %q: %w", op, uniqueSlug, storage.ErrDuplicateSlug)
		}

		log.Error("failed to save meal", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	meal.ID = id

	log.Info("meal saved", slog.Int64("id", id), slog.String("slug", uniqueSlug))

	return &meal, nil
}
