package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	ts, err := NewHS256Service("secret", "hashids-api", time.Hour)
	require.NoError(t, err)

	token, err := ts.Sign("ops", RoleAdmin)
	require.NoError(t, err)

	c, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", c.Subject)
	assert.Equal(t, RoleAdmin, c.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), c.ExpiresAt, 5*time.Second)
	assert.WithinDuration(t, time.Now(), c.IssuedAt, 5*time.Second)
	assert.Len(t, c.ID, 24)

	again, err := ts.Sign("ops", RoleAdmin)
	require.NoError(t, err)
	c2, err := ts.Verify(again)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, c2.ID)
}

func TestSignRejectsEmptyFields(t *testing.T) {
	ts, err := NewHS256Service("secret", "hashids-api", time.Hour)
	require.NoError(t, err)
	_, err = ts.Sign("", RoleAdmin)
	assert.Error(t, err)
	_, err = ts.Sign("ops", "")
	assert.Error(t, err)
}

func TestVerifyExpired(t *testing.T) {
	svc, err := NewHS256Service("secret", "hashids-api", time.Minute)
	require.NoError(t, err)
	h := svc.(*hs256Service)
	h.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := h.Sign("ops", RoleAdmin)
	require.NoError(t, err)

	h.now = time.Now
	_, err = h.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejects(t *testing.T) {
	ts, err := NewHS256Service("secret", "hashids-api", time.Hour)
	require.NoError(t, err)

	other, err := NewHS256Service("other-secret", "hashids-api", time.Hour)
	require.NoError(t, err)
	wrongKey, err := other.Sign("ops", RoleAdmin)
	require.NoError(t, err)

	otherIssuer, err := NewHS256Service("secret", "someone-else", time.Hour)
	require.NoError(t, err)
	wrongIss, err := otherIssuer.Sign("ops", RoleAdmin)
	require.NoError(t, err)

	// 没有 exp
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "hashids-api", "sub": "ops", "role": RoleAdmin,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "hashids-api", "role": RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	// HS512 不在白名单
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"iss": "hashids-api", "sub": "ops", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"wrong key":    wrongKey,
		"wrong issuer": wrongIss,
		"no exp":       noExp,
		"no subject":   noSub,
		"hs512":        hs512,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ts.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewHS256ServiceValidation(t *testing.T) {
	_, err := NewHS256Service("", "iss", time.Hour)
	assert.Error(t, err)
	_, err = NewHS256Service("s", "", time.Hour)
	assert.Error(t, err)
	_, err = NewHS256Service("s", "iss", 0)
	assert.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	_, ok := GetIdentity(context.Background())
	assert.False(t, ok)

	id := IdentityFromClaims(Claims{ID: "j1", Subject: "ops", Role: RoleAdmin})
	assert.True(t, id.HasRole(RoleAdmin))
	assert.False(t, id.HasRole(""))
	assert.False(t, Identity{}.HasRole(""))

	ctx := WithIdentity(context.Background(), id)
	got, ok := GetIdentity(ctx)
	require.True(t, ok)
	assert.Equal(t, Identity{Subject: "ops", Role: RoleAdmin, TokenID: "j1"}, got)
}
