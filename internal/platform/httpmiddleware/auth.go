package httpmiddleware

import (
	"log/slog"
	"net/http"
	"strings"

	"hashids.local/gee"
	"hashids.local/internal/platform/auth"
)

// parseBearer 取出 "Bearer <token>" 里的 token，格式不对返回空串
func parseBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthRequired 要求请求必须携带有效的 JWT token
func AuthRequired(ts auth.TokenService) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		header := ctx.Req.Header.Get("Authorization")
		if header == "" {
			ctx.SetHeader("WWW-Authenticate", "Bearer")
			ctx.AbortWithError(http.StatusUnauthorized, "missing authorization header")
			return
		}
		token := parseBearer(header)
		if token == "" {
			ctx.AbortWithError(http.StatusUnauthorized, "invalid authorization format")
			return
		}
		claims, err := ts.Verify(token)
		if err != nil {
			slog.DebugContext(ctx.Req.Context(), "token rejected", "route", ctx.RoutePattern, "err", err)
			ctx.SetHeader("WWW-Authenticate", `Bearer error="invalid_token"`)
			ctx.AbortWithError(http.StatusUnauthorized, "invalid token")
			return
		}
		id := auth.IdentityFromClaims(claims)
		ctx.Req = ctx.Req.WithContext(auth.WithIdentity(ctx.Req.Context(), id))
		ctx.Next()
	}
}

// RequireRole 要求调用方具有指定角色，必须放在 AuthRequired 之后
func RequireRole(role string) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		id, ok := auth.GetIdentity(ctx.Req.Context())
		if !ok {
			ctx.AbortWithError(http.StatusUnauthorized, "unauthorized")
			return
		}
		if !id.HasRole(role) {
			slog.WarnContext(ctx.Req.Context(), "role denied", "subject", id.Subject, "jti", id.TokenID, "want", role)
			ctx.AbortWithError(http.StatusForbidden, "forbidden")
			return
		}
		ctx.Next()
	}
}
