package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"hashids.local/gee"
)

func TestTraceNameRenamesServerSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := gee.New()
	r.Use(TraceName())
	r.POST("/api/v1/profiles/:name/encode", func(ctx *gee.Context) {
		ctx.Status(http.StatusOK)
	})
	h := otelhttp.NewHandler(r, "http", otelhttp.WithTracerProvider(tp))

	for _, path := range []string{"/api/v1/profiles/orders/encode", "/nope"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "POST /api/v1/profiles/:name/encode", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("http.route", "/api/v1/profiles/:name/encode"))
	assert.Equal(t, "POST UNMATCHED", spans[1].Name())
}
