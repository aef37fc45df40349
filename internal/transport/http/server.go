package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mealshare/internal/domain/models"
	"mealshare/internal/lib/logger/sl"
	services "mealshare/internal/services/meal_service"
	"mealshare/internal/transport/http/dto"
	"mealshare/internal/transport/http/dto/response"
)

type MealService interface {
	GetAllMeals(ctx context.Context) ([]models.Meal, error)
	GetMealBySlug(ctx context.Context, slug string) (*models.Meal, error)
	CreateMeal(ctx context.Context, form models.MealFormData) (*models.Meal, models.ValidationErrors, error)
	DeleteMeal(ctx context.Context, id int64) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Routers struct {
	log         *slog.Logger
	MealService MealService
	db          Pinger
	passKey     string
}

func NewRouter(log *slog.Logger, mealService MealService, db Pinger, passKey string) *Routers {
	return &Routers{
		log:         log,
		MealService: mealService,
		db:          db,
		passKey:     passKey,
	}
}

// ListMeals godoc
// @Summary List meals
// @Description Returns every shared meal that has not been deleted.
// @Tags meals
// @Produce json
// @Success 200 {object} response.Response{data=dto.MealListResponse}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/meals [get]
func (r *Routers) ListMeals(c echo.Context) error {
	const op = "http.routers.ListMeals"

	log := r.log.With(
		slog.String("op", op),
	)

	meals, err := r.MealService.GetAllMeals(c.Request().Context())
	if err != nil {
		log.Error("failed to list meals", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to retrieve meals"))
	}

	list := dto.MealListResponse{
		Meals: make([]dto.MealResponse, 0, len(meals)),
		Total: len(meals),
	}
	for _, meal := range meals {
		list.Meals = append(list.Meals, toMealResponse(&meal))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(list))
}

// GetMeal godoc
// @Summary Get meal by slug
// @Description Returns one meal. Soft-deleted meals behave as not found.
// @Tags meals
// @Produce json
// @Param slug path string true "Meal slug"
// @Success 200 {object} response.Response{data=dto.MealResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/meals/{slug} [get]
func (r *Routers) GetMeal(c echo.Context) error {
	const op = "http.routers.GetMeal"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	meal, err := r.MealService.GetMealBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlugRequired):
			return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
		case errors.Is(err, services.ErrMealNotFound):
			return c.JSON(http.StatusNotFound, response.ErrMealNotFound)
		default:
			log.Error("failed to get meal", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to retrieve meal"))
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(toMealResponse(meal)))
}

// ShareMeal godoc
// @Summary Share a new meal
// @Description Multipart form submission with an image upload. Field
// @Description violations come back per field so the form can render them.
// @Tags meals
// @Accept mpfd
// @Produce json
// @Param title formData string true "Meal title"
// @Param summary formData string true "Short summary"
// @Param instructions formData string true "Preparation instructions (limited HTML)"
// @Param creator formData string true "Author name"
// @Param creator_email formData string true "Author email"
// @Param image formData file true "Meal image (JPEG/PNG/WebP, max 5 MiB)"
// @Param image_converted formData string false "Set to true when the client converted a HEIC original to JPEG"
// @Success 201 {object} response.Response{data=dto.MealResponse}
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/meals [post]
func (r *Routers) ShareMeal(c echo.Context) error {
	const op = "http.routers.ShareMeal"

	log := r.log.With(
		slog.String("op", op),
		slog.String("upload_id", uuid.NewString()),
	)

	form := models.MealFormData{
		Title:        c.FormValue("title"),
		Summary:      c.FormValue("summary"),
		Instructions: c.FormValue("instructions"),
		Creator:      c.FormValue("creator"),
		CreatorEmail: c.FormValue("creator_email"),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			log.Error("failed to open uploaded image", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to read uploaded image"))
		}
		defer src.Close()

		form.Image = models.ImageUpload{
			Content:           src,
			Filename:          fileHeader.Filename,
			MediaType:         fileHeader.Header.Get("Content-Type"),
			Size:              fileHeader.Size,
			ConvertedFromHEIC: c.FormValue("image_converted") == "true",
		}
	}

	meal, verrs, err := r.MealService.CreateMeal(c.Request().Context(), form)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateTitle) {
			return c.JSON(http.StatusUnprocessableEntity, response.ValidationFailed(map[string]string{
				"title":   "A meal with this title already exists. Please choose a different title.",
				"general": "Failed to save meal due to duplicate title.",
			}))
		}

		log.Error("failed to create meal", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to save meal"))
	}

	if !verrs.Valid() {
		return c.JSON(http.StatusUnprocessableEntity, response.ValidationFailed(verrs))
	}

	log.Info("meal shared", slog.String("slug", meal.Slug))

	return c.JSON(http.StatusCreated, response.SuccessResponse(toMealResponse(meal)))
}

// DeleteMeal godoc
// @Summary Soft-delete a meal (admin)
// @Description Marks the meal deleted. Requires the admin pass key.
// @Tags meals
// @Accept json
// @Produce json
// @Param request body dto.DeleteMealRequest true "Meal id and pass key"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/meals/delete [post]
func (r *Routers) DeleteMeal(c echo.Context) error {
	const op = "http.routers.DeleteMeal"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.DeleteMealRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "ID" {
					return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "Meal ID is required"))
				}
			}
		}
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "Pass key is required"))
	}

	// Missing server-side key is a deployment fault, not a client error.
	if r.passKey == "" {
		log.Error("delete pass key is not configured")
		return c.JSON(http.StatusInternalServerError, response.ErrServerMisconfigured)
	}

	if subtle.ConstantTimeCompare([]byte(req.PassKey), []byte(r.passKey)) != 1 {
		log.Warn("pass key mismatch", slog.Int64("id", req.ID))
		return c.JSON(http.StatusForbidden, response.ErrInvalidPassKey)
	}

	if err := r.MealService.DeleteMeal(c.Request().Context(), req.ID); err != nil {
		if errors.Is(err, services.ErrMealNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrMealNotFound)
		}

		log.Error("failed to delete meal", slog.Int64("id", req.ID), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Failed to delete meal"))
	}

	log.Info("meal deleted", slog.Int64("id", req.ID))

	return c.JSON(http.StatusOK, response.Response{Status: "success"})
}

// HealthCheck godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (r *Routers) HealthCheck(c echo.Context) error {
	if err := r.db.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, response.ErrorResponseWithDetails("unhealthy", err.Error()))
	}

	return c.JSON(http.StatusOK, response.Response{Status: "ok"})
}

func toMealResponse(meal *models.Meal) dto.MealResponse {
	return dto.MealResponse{
		ID:           meal.ID,
		Title:        meal.Title,
		Slug:         meal.Slug,
		Image:        meal.Image,
		Summary:      meal.Summary,
		Instructions: meal.Instructions,
		Creator:      meal.Creator,
		CreatorEmail: meal.CreatorEmail,
	}
}
