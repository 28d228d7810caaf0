package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horarios/sgh-api/internal/models"
	appErrors "github.com/horarios/sgh-api/pkg/errors"
)

func signToken(t *testing.T, secret string, claims models.JWTClaims, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthServiceValidateToken(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "sgh"})
	claims := models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleCoordinator,
		Email:  "coord@sgh.test",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "sgh",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	parsed, err := svc.ValidateToken(signToken(t, "secret", claims, jwt.SigningMethodHS256))
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoordinator, parsed.Role)
	assert.Equal(t, "coord@sgh.test", parsed.Actor())
}

func TestAuthServiceValidateTokenRejects(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "sgh"})
	base := jwt.RegisteredClaims{Issuer: "sgh", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := map[string]string{
		"wrong secret": signToken(t, "other", models.JWTClaims{UserID: "u1", RegisteredClaims: base}, jwt.SigningMethodHS256),
		"wrong issuer": signToken(t, "secret", models.JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "x", ExpiresAt: base.ExpiresAt}}, jwt.SigningMethodHS256),
		"expired":      signToken(t, "secret", models.JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "sgh", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}, jwt.SigningMethodHS256),
		"hs512":        signToken(t, "secret", models.JWTClaims{UserID: "u1", RegisteredClaims: base}, jwt.SigningMethodHS512),
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
		})
	}
}

func TestJWTClaimsActorFallsBackToUserID(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u7"}
	assert.Equal(t, "u7", claims.Actor())
}
