package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"image-processing-be/internal/apperror"
	"image-processing-be/internal/pkg/logger"
	"image-processing-be/internal/repository/memory"
	"image-processing-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"blank name", apperror.ErrBlankName, fiber.StatusBadRequest},
		{"unsupported", apperror.ErrUnsupportedFormat, fiber.StatusBadRequest},
		{"too large", apperror.ErrPayloadTooLarge, fiber.StatusRequestEntityTooLarge},
		{"invalid filename", apperror.ErrInvalidFilename, fiber.StatusBadRequest},
		{"not authenticated", apperror.ErrNotAuthenticated, fiber.StatusUnauthorized},
		{"no image", apperror.ErrNoImageUploaded, fiber.StatusConflict},
		{"source missing", apperror.ErrSourceMissing, fiber.StatusNotFound},
		{"file not found", apperror.ErrFileNotFound, fiber.StatusNotFound},
		{"storage", apperror.Storage("save", errors.New("disk full")), fiber.StatusInternalServerError},
		{"processing", apperror.Processing("decode", errors.New("bad data")), fiber.StatusInternalServerError},
		{"plain", errors.New("boom"), fiber.StatusInternalServerError},
		{"fiber error", fiber.NewError(fiber.StatusUpgradeRequired, "upgrade"), fiber.StatusUpgradeRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func decode(t *testing.T, resp *http.Response) Response[json.RawMessage] {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out Response[json.RawMessage]
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestErrorHandlerRendersEnvelope(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	app.Get("/flow", func(ctx *fiber.Ctx) error { return apperror.ErrNoImageUploaded })
	app.Get("/validate", func(ctx *fiber.Ctx) error {
		return ValidateRequest(struct {
			Username string `validate:"required"`
		}{})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/flow", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	body := decode(t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, fiber.StatusConflict, body.Code)
	assert.Equal(t, "please upload an image first", body.Message)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/validate", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "username is required", decode(t, resp).Message)
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAdminGuard(t *testing.T) {
	const secret = "s3cret"
	app := fiber.New()
	app.Delete("/history", AdminGuard(secret), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", jwt.MapClaims{"role": "admin"}), fiber.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, secret, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), fiber.StatusUnauthorized},
		{"not admin", "Bearer " + signed(t, secret, jwt.MapClaims{"role": "user"}), fiber.StatusForbidden},
		{"admin", "Bearer " + signed(t, secret, jwt.MapClaims{"role": "admin", "sub": "ops"}), fiber.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/history", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestAdminGuardDisabledWithoutSecret(t *testing.T) {
	app := fiber.New()
	app.Delete("/history", AdminGuard(""), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/history", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func newSessionApp(repo *memory.SessionRepository) *fiber.App {
	app := fiber.New()
	app.Use(SessionMiddleware(SessionConfig{Repository: repo, CookieName: "image_session", TTL: time.Hour}))
	app.Get("/whoami", func(ctx *fiber.Ctx) error {
		return ctx.SendString(CurrentSession(ctx).UserName)
	})
	return app
}

func TestSessionMiddlewareStartsUnsavedSession(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	app := newSessionApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)

	id := resp.Header.Get(SessionHeader)
	require.NotEmpty(t, id)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "image_session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, id, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	_, ok, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionMiddlewareLoadsSavedSession(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	require.NoError(t, repo.Save(context.Background(), &store.Session{ID: "abc", UserName: "Ada", UserID: 1}))
	app := newSessionApp(repo)

	byCookie := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	byCookie.AddCookie(&http.Cookie{Name: "image_session", Value: "abc"})
	resp, err := app.Test(byCookie)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Ada", string(body))

	byHeader := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	byHeader.Header.Set(SessionHeader, "abc")
	resp, err = app.Test(byHeader)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "Ada", string(body))
	assert.Equal(t, "abc", resp.Header.Get(SessionHeader))
}

func TestSessionMiddlewareReplacesUnknownID(t *testing.T) {
	app := newSessionApp(memory.NewSessionRepository(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(SessionHeader, "gone")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.NotEqual(t, "gone", resp.Header.Get(SessionHeader))
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, string(body))
}
