package httpapi

import (
	"time"

	"hashids.local/gee"
	"hashids.local/internal/app/codec"
	"hashids.local/internal/platform/auth"
	"hashids.local/internal/platform/httpmiddleware"
	"hashids.local/internal/platform/ratelimit"
)

// Limits 每个 IP 每分钟的请求数，<=0 表示不限
type Limits struct {
	Encode int
	Decode int
}

// RegisterAPIRoutes 在 api 分组（/api/v1）下挂载编解码和管理接口。
// 本包只做 HTTP <-> 领域的翻译，逻辑在 internal/app/codec。
func RegisterAPIRoutes(api *gee.RouterGroup, svc *codec.Service, ts auth.TokenService, limiter *ratelimit.Limiter, limits Limits) {
	profiles := api.Group("/profiles")
	profiles.Use(withClientIP())
	profiles.GET("/:name", NewProfileInfoHandler(svc))
	profiles.POST("/:name/encode", httpmiddleware.RateLimit(limiter, "encode", limits.Encode, time.Minute), NewEncodeHandler(svc))
	profiles.POST("/:name/decode", httpmiddleware.RateLimit(limiter, "decode", limits.Decode, time.Minute), NewDecodeHandler(svc))
	profiles.POST("/:name/encode-hex", httpmiddleware.RateLimit(limiter, "encode", limits.Encode, time.Minute), NewEncodeHexHandler(svc))
	profiles.POST("/:name/decode-hex", httpmiddleware.RateLimit(limiter, "decode", limits.Decode, time.Minute), NewDecodeHexHandler(svc))

	// 需要管理员的
	admin := api.Group("/admin")
	admin.Use(httpmiddleware.AuthRequired(ts), httpmiddleware.RequireRole(auth.RoleAdmin))
	admin.POST("/profiles", NewCreateProfileHandler(svc))
	admin.GET("/profiles", NewListProfilesHandler(svc))
	admin.POST("/profiles/:name/disable", NewDisableProfileHandler(svc))
	admin.GET("/profiles/:name/usage", NewUsageHandler(svc))
}
