// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/core"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	signer := newSigner(t)

	token, err := signer.Issue(Grant{
		UserID:       42,
		SessionID:    "3f6c1d1e-6b1a-4a59-9d4c-0b0e6c9a7f11",
		IsAdmin:      true,
		TokenVersion: 3,
	})
	require.NoError(t, err)

	claims, err := signer.VerifyAccessToken(context.Background(), token.Value)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "3f6c1d1e-6b1a-4a59-9d4c-0b0e6c9a7f11", claims.SessionID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, token.ID, claims.TokenID)
	assert.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	signer := newSigner(t)

	token, err := signer.Issue(Grant{UserID: 1, SessionID: "s"})
	require.NoError(t, err)

	_, err = signer.VerifyAccessToken(context.Background(), token.Value+"x")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = newSigner(t).VerifyAccessToken(context.Background(), token.Value)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyReportsExpiry(t *testing.T) {
	dir := t.TempDir()
	priv, pub := dir+"/private.pem", dir+"/public.pem"
	require.NoError(t, GenerateKeyPair(priv, pub))

	signer, err := LoadSigner(config.JWTConfig{
		PrivateKeyPath:    priv,
		AccessTokenExpire: -time.Minute,
		Issuer:            "propixel",
		Audience:          "propixel-admin",
	})
	require.NoError(t, err)

	token, err := signer.Issue(Grant{UserID: 1, SessionID: "s"})
	require.NoError(t, err)

	_, err = signer.VerifyAccessToken(context.Background(), token.Value)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyRequiresSessionClaim(t *testing.T) {
	signer := newSigner(t)

	token, err := signer.Issue(Grant{UserID: 1})
	require.NoError(t, err)

	_, err = signer.VerifyAccessToken(context.Background(), token.Value)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestJWKS(t *testing.T) {
	signer := newSigner(t)

	rec := httptest.NewRecorder()
	signer.JWKS(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/jwk-set+json", rec.Header().Get("Content-Type"))

	var body struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Keys, 1)
	assert.Equal(t, signer.KeyID(), body.Keys[0]["kid"])
	assert.Nil(t, body.Keys[0]["d"])
}
