package httpmiddleware

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hashids.local/gee"
)

// TraceName 用路由模板给 otelhttp 的 span 改名，避免 span 名里出现 profile 名
func TraceName() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		route := routeLabel(ctx)
		span := trace.SpanFromContext(ctx.Req.Context())
		span.SetName(ctx.Method + " " + route)
		span.SetAttributes(attribute.String("http.route", route))
		ctx.Next()
	}
}
