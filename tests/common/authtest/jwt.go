//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// MintToken signs an HS256 access token with the claims the auth
// middleware expects.
func MintToken(t *testing.T, secret string, tenantID, actorID uuid.UUID, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":       actorID.String(),
		"tenant_id": tenantID.String(),
		"role":      role,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err, "Failed to sign test token")
	return token
}

// MintExpiredToken signs a token whose exp is already in the past.
func MintExpiredToken(t *testing.T, secret string, tenantID, actorID uuid.UUID, role string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":       actorID.String(),
		"tenant_id": tenantID.String(),
		"role":      role,
		"iat":       time.Now().Add(-2 * time.Hour).Unix(),
		"exp":       time.Now().Add(-time.Hour).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err, "Failed to sign test token")
	return token
}
