package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_DOMAINS", " Good.org, corp.example.com ,")
	t.Setenv("RESOURCE_ID", "channel/invite.txt")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "gate@example.com")
	t.Setenv("SMTP_USERNAME", "gate@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"good.org", "corp.example.com"}, cfg.AllowedDomains)
	assert.Equal(t, 10, cfg.CodeExpireMinutes)
	assert.Equal(t, 10*time.Minute, cfg.CodeTTL())
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "ssl", cfg.SMTPTLS)
	assert.Equal(t, "grants", cfg.DynamoTables.Grants)
	assert.Equal(t, time.Duration(0), cfg.GrantTTL)
	assert.Equal(t, 5*time.Minute, cfg.PresignTTL)
	assert.Equal(t, 15*time.Second, cfg.CollaboratorTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.PublicBaseURL)
}

func TestLoad_CodeExpireMinutes_InvalidFallsBack(t *testing.T) {
	for _, v := range []string{"abc", "0", "-5"} {
		setRequired(t)
		t.Setenv("CODE_EXPIRE_MINUTES", v)
		cfg, err := Load()
		require.NoError(t, err, v)
		assert.Equal(t, 10, cfg.CodeExpireMinutes, v)
	}
}

func TestLoad_CodeExpireMinutes_Custom(t *testing.T) {
	setRequired(t)
	t.Setenv("CODE_EXPIRE_MINUTES", "3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, cfg.CodeTTL())
}

func TestLoad_MissingDomains(t *testing.T) {
	setRequired(t)
	t.Setenv("EMAIL_DOMAINS", " , ")
	_, err := Load()
	assert.ErrorContains(t, err, "AllowedDomains")
}

func TestLoad_InvalidDomain(t *testing.T) {
	setRequired(t)
	t.Setenv("EMAIL_DOMAINS", "not a domain")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_IntranetDomainAccepted(t *testing.T) {
	setRequired(t)
	t.Setenv("EMAIL_DOMAINS", "corp,3m.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"corp", "3m.com"}, cfg.AllowedDomains)
}

func TestLoad_MissingMailCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_PASSWORD", "")
	_, err := Load()
	assert.ErrorContains(t, err, "SMTPPassword")
}

func TestLoad_InvalidTLSMode(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_TLS", "maybe")
	_, err := Load()
	assert.ErrorContains(t, err, "SMTPTLS")
}

func TestLoad_TrimsBaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("PUBLIC_BASE_URL", "https://gate.example.com/")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://gate.example.com", cfg.PublicBaseURL)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a.org", "b.org"}, splitList("A.org,,b.org "))
}

func TestLoad_TrustProxyHeaders(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.TrustProxyHeaders)

	t.Setenv("TRUST_PROXY_HEADERS", "true")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.TrustProxyHeaders)
}
