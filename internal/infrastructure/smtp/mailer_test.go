package smtp

import (
	"bytes"
	"testing"

	"github.com/go-access-gate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("gate@example.com", "a@good.org", "Access verification code", "code: 123456")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "a@good.org")
	assert.Contains(t, raw, "Access verification code")
	assert.Contains(t, raw, "code: 123456")
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	_, err := buildMessage("gate@example.com", "not an address", "s", "b")
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestClientOptions_PerTLSMode(t *testing.T) {
	for _, mode := range []string{"ssl", "starttls", "none"} {
		cfg := &config.Config{SMTPPort: 465, SMTPTLS: mode, SMTPUsername: "u", SMTPPassword: "p"}
		// port, timeout, three auth options and one TLS option
		assert.Len(t, clientOptions(cfg), 6, mode)
	}
}

func TestClientOptions_NoAuthWithoutUsername(t *testing.T) {
	cfg := &config.Config{SMTPPort: 25, SMTPTLS: "none"}
	assert.Len(t, clientOptions(cfg), 3)
}
