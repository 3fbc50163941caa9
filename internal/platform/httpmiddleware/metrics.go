package httpmiddleware

import (
	"strconv"
	"time"

	"hashids.local/gee"
	"hashids.local/internal/platform/metrics"
)

const unmatchedRoute = "UNMATCHED"

// routeLabel 路由模板作为 label，没匹配上的统一归到 UNMATCHED
func routeLabel(ctx *gee.Context) string {
	if ctx.RoutePattern == "" {
		return unmatchedRoute
	}
	return ctx.RoutePattern
}

// Metrics 记录请求数、耗时和响应大小。profile 名只出现在路由参数里，不会进 label。
func Metrics() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		start := time.Now()
		metrics.HTTPInflightRequests.Inc()
		defer metrics.HTTPInflightRequests.Dec()

		// panic 时也要记录，外层的 Recovery 会写 500
		defer func() {
			route := routeLabel(ctx)
			status := strconv.Itoa(ctx.Writer.Status())
			metrics.HTTPRequestsTotal.WithLabelValues(ctx.Method, route, status).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(ctx.Method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPResponseSizeBytes.WithLabelValues(ctx.Method, route).Observe(float64(ctx.Writer.Size()))
		}()
		ctx.Next()
	}
}
