package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mealshare/internal/domain/models"
	services "mealshare/internal/services/meal_service"
	transport "mealshare/internal/transport/http"
)

type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) GetAllMeals(ctx context.Context) ([]models.Meal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Meal), args.Error(1)
}

func (m *MockMealService) GetMealBySlug(ctx context.Context, slug string) (*models.Meal, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealService) CreateMeal(ctx context.Context, form models.MealFormData) (*models.Meal, models.ValidationErrors, error) {
	args := m.Called(ctx, form)
	var meal *models.Meal
	if args.Get(0) != nil {
		meal = args.Get(0).(*models.Meal)
	}
	var verrs models.ValidationErrors
	if args.Get(1) != nil {
		verrs = args.Get(1).(models.ValidationErrors)
	}
	return meal, verrs, args.Error(2)
}

func (m *MockMealService) DeleteMeal(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestRouter(svc transport.MealService, passKey string) (*echo.Echo, *transport.Routers) {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	return e, transport.NewRouter(log, svc, okPinger{}, passKey)
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestDeleteMeal(t *testing.T) {
	t.Run("missing meal id", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		c, rec := postJSON(e, "/api/v1/meals/delete", `{"pass_key":"secret"}`)

		require.NoError(t, r.DeleteMeal(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Meal ID is required")
		svc.AssertNotCalled(t, "DeleteMeal")
	})

	t.Run("missing pass key", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		c, rec := postJSON(e, "/api/v1/meals/delete", `{"id":1}`)

		require.NoError(t, r.DeleteMeal(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Pass key is required")
	})

	t.Run("server pass key not configured", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "")

		c, rec := postJSON(e, "/api/v1/meals/delete", `{"id":1,"pass_key":"anything"}`)

		require.NoError(t, r.DeleteMeal(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "server_configuration_error")
		svc.AssertNotCalled(t, "DeleteMeal")
	})

	t.Run("pass key mismatch", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		c, rec := postJSON(e, "/api/v1/meals/delete", `{"id":1,"pass_key":"wrong"}`)

		require.NoError(t, r.DeleteMeal(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertNotCalled(t, "DeleteMeal")
	})

	t.Run("unknown meal", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		svc.On("DeleteMeal", mock.Anything, int64(42)).Return(services.ErrMealNotFound).Once()

		c, rec := postJSON(e, "/api/v1/meals/delete", `{"id":42,"pass_key":"secret"}`)

		require.NoError(t, r.DeleteMeal(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		svc.On("DeleteMeal", mock.Anything, int64(1)).Return(nil).Once()

		c, rec := postJSON(e, "/api/v1/meals/delete", `{"id":1,"pass_key":"secret"}`)

		require.NoError(t, r.DeleteMeal(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestGetMeal(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		svc.On("GetMealBySlug", mock.Anything, "nope").
			Return(nil, services.ErrMealNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/meals/nope", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("slug")
		c.SetParamValues("nope")

		require.NoError(t, r.GetMeal(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("found", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		svc.On("GetMealBySlug", mock.Anything, "spicy-tacos").
			Return(&models.Meal{ID: 1, Title: "Spicy Tacos", Slug: "spicy-tacos"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/meals/spicy-tacos", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("slug")
		c.SetParamValues("spicy-tacos")

		require.NoError(t, r.GetMeal(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "spicy-tacos")
	})
}

func TestListMeals(t *testing.T) {
	svc := new(MockMealService)
	e, r := newTestRouter(svc, "secret")

	svc.On("GetAllMeals", mock.Anything).Return([]models.Meal{
		{ID: 1, Title: "Spicy Tacos", Slug: "spicy-tacos"},
		{ID: 3, Title: "Garlic Pasta", Slug: "garlic-pasta"},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meals", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, r.ListMeals(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Total)
}

func newShareRequest(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}

	if withImage {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="tacos.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/meals", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	return req
}

func shareFields() map[string]string {
	return map[string]string{
		"title":         "Spicy Tacos",
		"summary":       "A quick weeknight taco",
		"instructions":  "Heat.\nServe.",
		"creator":       "Ana",
		"creator_email": "ana@example.com",
	}
}

func TestShareMeal(t *testing.T) {
	t.Run("validation failure returns per-field messages", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		svc.On("CreateMeal", mock.Anything, mock.Anything).
			Return(nil, models.ValidationErrors{"title": "Title is required"}, nil).Once()

		fields := shareFields()
		fields["title"] = ""
		rec := httptest.NewRecorder()
		c := e.NewContext(newShareRequest(t, fields, true), rec)

		require.NoError(t, r.ShareMeal(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Title is required")
	})

	t.Run("duplicate title", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		svc.On("CreateMeal", mock.Anything, mock.Anything).
			Return(nil, nil, services.ErrDuplicateTitle).Once()

		rec := httptest.NewRecorder()
		c := e.NewContext(newShareRequest(t, shareFields(), true), rec)

		require.NoError(t, r.ShareMeal(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "already exists")
	})

	t.Run("success", func(t *testing.T) {
		svc := new(MockMealService)
		e, r := newTestRouter(svc, "secret")

		svc.On("CreateMeal", mock.Anything, mock.MatchedBy(func(form models.MealFormData) bool {
			return form.Title == "Spicy Tacos" &&
				form.Image.Filename == "tacos.jpg" &&
				form.Image.MediaType == "image/jpeg" &&
				form.Image.Content != nil
		})).Return(&models.Meal{ID: 1, Title: "Spicy Tacos", Slug: "spicy-tacos"}, nil, nil).Once()

		rec := httptest.NewRecorder()
		c := e.NewContext(newShareRequest(t, shareFields(), true), rec)

		require.NoError(t, r.ShareMeal(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "spicy-tacos")
		svc.AssertExpectations(t)
	})
}
