package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"mealshare/internal/domain/models"
	"mealshare/internal/lib/imagefile"
	"mealshare/internal/lib/logger/sl"
	"mealshare/internal/repository"
	"mealshare/internal/storage"
)

var (
	ErrSlugRequired   = errors.New("slug is required")
	ErrMealNotFound   = errors.New("meal not found")
	ErrDuplicateTitle = errors.New("a meal with this title already exists")
)

const maxImageSize = 5 << 20 // 5 MiB

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type MealService struct {
	log  *slog.Logger
	repo repository.MealRepository
}

func NewMealService(log *slog.Logger, repo repository.MealRepository) *MealService {
	return &MealService{
		log:  log,
		repo: repo,
	}
}

// GetAllMeals возвращает все блюда, кроме помеченных удаленными
func (s *MealService) GetAllMeals(ctx context.Context) ([]models.Meal, error) {
	const op = "meal_service.GetAllMeals"

	meals, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to list meals", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	visible := make([]models.Meal, 0, len(meals))
	for _, meal := range meals {
		if !meal.IsDeleted {
			visible = append(visible, meal)
		}
	}

	return visible, nil
}

// GetMealBySlug returns ErrMealNotFound for both absent and soft-deleted
// meals; the caller cannot tell them apart.
func (s *MealService) GetMealBySlug(ctx context.Context, slug string) (*models.Meal, error) {
	const op = "meal_service.GetMealBySlug"

	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrSlugRequired)
	}

	meal, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		s.log.Error("failed to get meal", slog.String("op", op), slog.String("slug", slug), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if meal == nil || meal.IsDeleted {
		return nil, fmt.Errorf("%s: %w", op, ErrMealNotFound)
	}

	return meal, nil
}

// CreateMeal validates the submission and, if valid, runs the save
// workflow. Violations come back as data so the caller can render
// per-field messages; the store is never touched for an invalid form.
func (s *MealService) CreateMeal(ctx context.Context, form models.MealFormData) (*models.Meal, models.ValidationErrors, error) {
	const op = "meal_service.CreateMeal"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", form.Title),
	)

	if verrs := ValidateMealForm(form); !verrs.Valid() {
		log.Info("meal form rejected", slog.Int("violations", len(verrs)))
		return nil, verrs, nil
	}

	meal, err := s.repo.SaveMeal(ctx, form)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateSlug) {
			log.Warn("duplicate title", sl.Err(err))
			return nil, nil, fmt.Errorf("%s: %w", op, ErrDuplicateTitle)
		}
		log.Error("failed to create meal", sl.Err(err))
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("meal created", slog.Int64("id", meal.ID), slog.String("slug", meal.Slug))

	return meal, nil, nil
}

// DeleteMeal помечает блюдо удаленным, строка остается в базе
func (s *MealService) DeleteMeal(ctx context.Context, id int64) error {
	const op = "meal_service.DeleteMeal"

	log := s.log.With(
		slog.String("op", op),
		slog.Int64("id", id),
	)

	meal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Error("failed to get meal", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if meal == nil {
		return fmt.Errorf("%s: %w", op, ErrMealNotFound)
	}

	if err := s.repo.Update(ctx, id, map[string]interface{}{"is_deleted": true}); err != nil {
		log.Error("failed to soft-delete meal", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("meal soft-deleted", slog.String("slug", meal.Slug))

	return nil
}

// ValidateMealForm evaluates every rule independently and collects all
// violations instead of short-circuiting on the first one. Length
// bounds count characters, not bytes, so non-ASCII text is not
// penalized by its UTF-8 encoding.
func ValidateMealForm(form models.MealFormData) models.ValidationErrors {
	errs := models.ValidationErrors{}

	switch title := strings.TrimSpace(form.Title); {
	case title == "":
		errs["title"] = "Title is required"
	case utf8.RuneCountInString(form.Title) < 3:
		errs["title"] = "Title must be at least 3 characters long"
	case utf8.RuneCountInString(form.Title) > 100:
		errs["title"] = "Title must be at most 100 characters long"
	}

	switch summary := strings.TrimSpace(form.Summary); {
	case summary == "":
		errs["summary"] = "Summary is required"
	case utf8.RuneCountInString(form.Summary) < 10:
		errs["summary"] = "Summary must be at least 10 characters long"
	case utf8.RuneCountInString(form.Summary) > 500:
		errs["summary"] = "Summary must be at most 500 characters long"
	}

	switch instructions := strings.TrimSpace(form.Instructions); {
	case instructions == "":
		errs["instructions"] = "Instructions are required"
	case utf8.RuneCountInString(form.Instructions) < 10:
		errs["instructions"] = "Instructions must be at least 10 characters long"
	case utf8.RuneCountInString(form.Instructions) > 5000:
		errs["instructions"] = "Instructions must be at most 5000 characters long"
	}

	switch creator := strings.TrimSpace(form.Creator); {
	case creator == "":
		errs["creator"] = "Creator name is required"
	case utf8.RuneCountInString(form.Creator) < 3:
		errs["creator"] = "Creator name must be at least 3 characters long"
	case utf8.RuneCountInString(form.Creator) > 50:
		errs["creator"] = "Creator name must be at most 50 characters long"
	}

	switch email := strings.TrimSpace(form.CreatorEmail); {
	case email == "":
		errs["creator_email"] = "Creator email is required"
	case !emailPattern.MatchString(email):
		errs["creator_email"] = "Creator email must be a valid email address"
	}

	switch {
	case form.Image.Content == nil:
		errs["image"] = "Image is required"
	case !imagefile.AllowedMediaTypes[strings.ToLower(form.Image.MediaType)]:
		errs["image"] = "Image must be a JPEG, PNG, or WebP file"
	case form.Image.Size > maxImageSize:
		errs["image"] = "Image must be smaller than 5MB"
	}

	return errs
}
