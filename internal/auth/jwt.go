// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/bythepixel/propixel/internal/config"
	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/middleware"
)

const (
	claimSession = "sid"
	claimAdmin   = "adm"
	claimVersion = "ver"
	claimUse     = "use"
	useAccess    = "console"
)

// Signer issues and checks the ES256 access tokens handed to the admin
// console. The public half is published at /.well-known/jwks.json.
type Signer struct {
	private jwk.Key
	public  jwk.Key
	jwks    jwk.Set
	kid     string
	cfg     config.JWTConfig
}

func LoadSigner(cfg config.JWTConfig) (*Signer, error) {
	pem, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	private, err := jwk.ParseKey(pem, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}

	kid := uuid.NewString()[:8]
	for name, value := range map[string]any{
		jwk.AlgorithmKey: jwa.ES256(),
		jwk.KeyIDKey:     kid,
	} {
		if err := private.Set(name, value); err != nil {
			return nil, fmt.Errorf("set %s on signing key: %w", name, err)
		}
	}

	public, err := private.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive verification key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	jwks := jwk.NewSet()
	if err := jwks.AddKey(public); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &Signer{
		private: private,
		public:  public,
		jwks:    jwks,
		kid:     kid,
		cfg:     cfg,
	}, nil
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM files for the keygen
// command. The private key is readable by the owner only.
func GenerateKeyPair(privatePath, publicPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate p-256 key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import p-256 key: %w", err)
	}
	if err := private.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("set algorithm: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(privatePath, private, 0o600); err != nil {
		return err
	}
	return writePEM(publicPath, public, 0o644)
}

func writePEM(path string, key jwk.Key, mode os.FileMode) error {
	encoded, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Grant is what an access token asserts about its bearer.
type Grant struct {
	UserID       int64
	SessionID    string
	IsAdmin      bool
	TokenVersion int
}

type AccessToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

func (s *Signer) TTL() time.Duration {
	return s.cfg.AccessTokenExpire
}

func (s *Signer) KeyID() string {
	return s.kid
}

func (s *Signer) Issue(g Grant) (AccessToken, error) {
	now := time.Now()
	tok := AccessToken{
		ID:        uuid.NewString(),
		ExpiresAt: now.Add(s.cfg.AccessTokenExpire),
	}

	built, err := jwt.NewBuilder().
		JwtID(tok.ID).
		Issuer(s.cfg.Issuer).
		Audience([]string{s.cfg.Audience}).
		Subject(strconv.FormatInt(g.UserID, 10)).
		IssuedAt(now).
		NotBefore(now).
		Expiration(tok.ExpiresAt).
		Claim(claimSession, g.SessionID).
		Claim(claimAdmin, g.IsAdmin).
		Claim(claimVersion, g.TokenVersion).
		Claim(claimUse, useAccess).
		Build()
	if err != nil {
		return AccessToken{}, fmt.Errorf("build access token: %w", err)
	}

	signed, err := jwt.Sign(built, jwt.WithKey(jwa.ES256(), s.private))
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	tok.Value = string(signed)
	return tok, nil
}

// VerifyAccessToken checks signature, issuer, audience and lifetime only.
// SessionVerifier adds the session and revocation checks on top.
func (s *Signer) VerifyAccessToken(
	_ context.Context,
	raw string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.ES256(), s.public),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
	)
	if errors.Is(err, jwt.TokenExpiredError()) {
		return nil, fmt.Errorf("parse access token: %w", core.ErrTokenExpired)
	}
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", core.ErrTokenInvalid)
	}

	var (
		use       string
		sessionID string
		isAdmin   bool
		version   float64
	)
	if token.Get(claimUse, &use) != nil || use != useAccess ||
		token.Get(claimSession, &sessionID) != nil || sessionID == "" ||
		token.Get(claimAdmin, &isAdmin) != nil ||
		token.Get(claimVersion, &version) != nil {
		return nil, fmt.Errorf("parse access token: missing claims: %w", core.ErrTokenInvalid)
	}

	subject, _ := token.Subject()
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("parse access token: bad subject: %w", core.ErrTokenInvalid)
	}

	jti, _ := token.JwtID()
	exp, _ := token.Expiration()

	return &middleware.AccessTokenClaims{
		UserID:       userID,
		SessionID:    sessionID,
		IsAdmin:      isAdmin,
		TokenVersion: int(version),
		TokenID:      jti,
		ExpiresAt:    exp,
	}, nil
}

// JWKS serves the verification key set so other services can check
// console tokens without sharing the private key.
func (s *Signer) JWKS(w http.ResponseWriter, _ *http.Request) {
	body, err := json.Marshal(s.jwks)
	if err != nil {
		core.Error(w, http.StatusInternalServerError, core.MsgInternalError)
		return
	}

	w.Header().Set("Content-Type", "application/jwk-set+json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}
