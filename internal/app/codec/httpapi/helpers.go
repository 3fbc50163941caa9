package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"hashids.local/gee"
	"hashids.local/hashids"
	"hashids.local/internal/app/codec"
	"hashids.local/internal/platform/httpmiddleware"
)

// errorStatus 领域错误到 HTTP 状态码
func errorStatus(err error) int {
	switch {
	case errors.Is(err, codec.ErrInvalidHash),
		errors.Is(err, codec.ErrInvalidNumber),
		errors.Is(err, codec.ErrEmptyNumbers),
		errors.Is(err, codec.ErrTooManyNumbers),
		errors.Is(err, codec.ErrNotIssued),
		errors.Is(err, codec.ErrUnsupported),
		errors.Is(err, codec.ErrInvalidName),
		errors.Is(err, codec.ErrInvalidProfile),
		errors.Is(err, codec.ErrNoMasterSecret):
		return http.StatusBadRequest
	case errors.Is(err, codec.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrProfileDisabled):
		return http.StatusGone
	case errors.Is(err, codec.ErrProfileExists), errors.Is(err, codec.ErrBuiltinProfile):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type hashErrorDetail struct {
	Offset int    `json:"offset"`
	Char   string `json:"char,omitempty"`
}

// abortWithDomainError 写统一的错误响应，5xx 不把内部错误返回给调用方
func abortWithDomainError(ctx *gee.Context, err error) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(ctx.Req.Context(), "request failed", "route", ctx.RoutePattern, "err", err)
		ctx.AbortWithError(code, "internal error")
		return
	}
	var he *hashids.HashError
	if errors.As(err, &he) && he.Offset >= 0 {
		ctx.AbortWithErrorDetail(code, err.Error(), hashErrorDetail{Offset: he.Offset, Char: string(he.Char)})
		return
	}
	ctx.AbortWithError(code, err.Error())
}

// withClientIP 把客户端 IP 放进请求 context，供用量统计使用
func withClientIP() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		ip := httpmiddleware.ClientIP(ctx.Req)
		ctx.Req = ctx.Req.WithContext(codec.WithClientIP(ctx.Req.Context(), ip))
		ctx.Next()
	}
}
