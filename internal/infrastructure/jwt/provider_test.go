package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-access-gate/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTProvider(t *testing.T) *Provider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))

	p, err := NewProvider(&config.Config{JWTPrivateKeyPath: privPath, JWTPublicKeyPath: pubPath})
	require.NoError(t, err)
	return p
}

func TestSignVerifyGrant_RoundTrip(t *testing.T) {
	p := newTestJWTProvider(t)
	tok, err := p.SignGrant("01GRANT", "channel/invite", time.Hour)
	require.NoError(t, err)

	claims, err := p.VerifyGrant(tok)
	require.NoError(t, err)
	assert.Equal(t, "01GRANT", claims.ID)
	assert.Equal(t, "channel/invite", claims.ResourceID)
	require.NotNil(t, claims.ExpiresAt)
}

func TestSignGrant_ZeroTTLHasNoExpiry(t *testing.T) {
	p := newTestJWTProvider(t)
	tok, err := p.SignGrant("01GRANT", "r", 0)
	require.NoError(t, err)

	claims, err := p.VerifyGrant(tok)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
}

func TestVerifyGrant_Expired(t *testing.T) {
	p := newTestJWTProvider(t)
	tok, err := p.SignGrant("01GRANT", "r", time.Minute)
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = p.VerifyGrant(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyGrant_OtherKeyRejected(t *testing.T) {
	a := newTestJWTProvider(t)
	b := newTestJWTProvider(t)
	tok, err := a.SignGrant("01GRANT", "r", 0)
	require.NoError(t, err)

	_, err = b.VerifyGrant(tok)
	assert.Error(t, err)
}

func TestVerifyGrant_Garbage(t *testing.T) {
	p := newTestJWTProvider(t)
	_, err := p.VerifyGrant("not-a-jwt")
	assert.Error(t, err)
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTPrivateKeyPath: filepath.Join(t.TempDir(), "nope.pem")})
	assert.ErrorContains(t, err, "read private key")
}
