package core

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupConfigFromEnv(t *testing.T) {
	addr := "localhost:11111"
	os.Setenv("INTAKE_API_SERVICE_ADDRESS", addr)
	defer os.Unsetenv("INTAKE_API_SERVICE_ADDRESS")

	cfg := LoadBaseConfigFromENV()

	assert.Equal(t, addr, cfg.Addr)
}

func TestConfigDefaults(t *testing.T) {
	var cfg CoreConfig
	cfg.applyDefaults()

	assert.Equal(t, 900, cfg.Security.GrantTTLSeconds)
	assert.Equal(t, int64(15<<20), cfg.Share.MaxUploadBytes)
	assert.Contains(t, cfg.Share.AllowedMimeTypes, "application/pdf")
	assert.Equal(t, 10, cfg.Share.PasswordAttemptLimit)
	assert.Equal(t, 3, cfg.Webhook.MaxAttempts)
	assert.Equal(t, "0 * * * *", cfg.Janitor.Spec)
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	cfg := CoreConfig{}
	cfg.Security.GrantTTLSeconds = 60
	cfg.Share.MaxUploadBytes = 1 << 20
	cfg.applyDefaults()

	assert.Equal(t, 60, cfg.Security.GrantTTLSeconds)
	assert.Equal(t, int64(1<<20), cfg.Share.MaxUploadBytes)
}
