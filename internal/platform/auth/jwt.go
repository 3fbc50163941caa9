package auth

import (
	"errors"
	"time"
)

// RoleAdmin 可以创建、停用 profile，查看用量
const RoleAdmin = "admin"

// ErrInvalidToken 所有校验失败都包装成它，具体原因只进日志
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID        string // jti，用于审计
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService 管理接口的 token 签发与校验
type TokenService interface {
	Sign(subject string, role string) (string, error)
	Verify(token string) (Claims, error)
}

func NewHS256Service(secret, issuer string, ttl time.Duration) (TokenService, error) {
	switch {
	case secret == "":
		return nil, errors.New("jwt secret is empty")
	case issuer == "":
		return nil, errors.New("jwt issuer is empty")
	case ttl <= 0:
		return nil, errors.New("jwt ttl must be > 0")
	}
	return &hs256Service{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}
