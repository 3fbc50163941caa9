package auth

import "context"

// Identity 是通过校验的调用方，Subject 对应 JWT 的 sub，创建 profile 时记为 created_by
type Identity struct {
	Subject string
	Role    string
	TokenID string
}

// IdentityFromClaims 校验通过的 token 转成请求里的身份
func IdentityFromClaims(c Claims) Identity {
	return Identity{Subject: c.Subject, Role: c.Role, TokenID: c.ID}
}

func (id Identity) HasRole(role string) bool {
	return role != "" && id.Role == role
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
