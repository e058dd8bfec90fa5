package middleware

import (
	"net/http/httptest"
	"testing"

	"scribe/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() {
		observability.Tracer = prev
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func TestTracingMiddleware_NamesSpanAfterRoute(t *testing.T) {
	sr := recordSpans(t)
	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/post/:id", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(3))
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/post/7", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /post/:id", span.Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "/post/7", attrs["http.path"].AsString())
	assert.Equal(t, "/post/:id", attrs["http.route"].AsString())
	assert.Equal(t, int64(200), attrs["http.status_code"].AsInt64())
	assert.Equal(t, "3", attrs["user.id"].AsString())
}

func TestTracingMiddleware_RecordsHandlerError(t *testing.T) {
	sr := recordSpans(t)
	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	_, err := app.Test(httptest.NewRequest("GET", "/fail", nil), -1)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /fail", spans[0].Name())
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}
