package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"testing"

	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs swaps Logger for a text logger writing into the returned buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	Logger = slog.New(&ctxHandler{slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})})
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func TestStructuredLogger_Levels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantLevel  string
		wantMsg    string
		wantStatus string
	}{
		{"ok", nil, "level=INFO", "request processed", "status=200"},
		{"fiber not found", fiber.ErrNotFound, "level=WARN", "request rejected", "status=404"},
		{"missing record", models.NewNotFoundError("Post", 9), "level=WARN", "request rejected", "status=404"},
		{"forbidden", fiber.ErrForbidden, "level=WARN", "request rejected", "status=403"},
		{"storage failure", models.NewInternalError(errors.New("db down")), "level=ERROR", "request failed", "status=500"},
		{"plain error", errors.New("boom"), "level=ERROR", "request failed", "status=500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			app := fiber.New()
			app.Use(StructuredLogger())
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			_, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, tt.wantMsg)
			assert.Contains(t, out, tt.wantStatus)
		})
	}
}

func TestContextMiddleware_AddsRequestValues(t *testing.T) {
	buf := captureLogs(t)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-1")
		c.Locals("traceID", "trace-1")
		return c.Next()
	})
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		Logger.InfoContext(WithUserID(c.UserContext(), 42), "inside handler")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "trace_id=trace-1")
	assert.Contains(t, out, "user_id=42")
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusTooManyRequests, errorStatus(fiber.NewError(fiber.StatusTooManyRequests, "slow down")))
	assert.Equal(t, fiber.StatusUnauthorized, errorStatus(models.NewUnauthorizedError("no")))
	assert.Equal(t, fiber.StatusBadRequest, errorStatus(models.NewFieldErrors(map[string][]string{"title": {"required"}})))
	assert.Equal(t, fiber.StatusInternalServerError, errorStatus(context.Canceled))
}
