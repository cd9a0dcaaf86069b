package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "3000", c.AppPort)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, filepath.Join("data", "submissions.json"), c.DataFile)
	assert.Equal(t, "uploads", c.UploadsDir)
	assert.Equal(t, "smtp.gmail.com", c.SMTPHost)
	assert.Equal(t, 587, c.SMTPPort)
	assert.Equal(t, 10, c.MaxImageMB)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4100")
	t.Setenv("GMAIL_USER", "ops@example.com")
	t.Setenv("GMAIL_PASS", "app-password")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SMTP_TLS", "false")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "4100", c.AppPort)
	assert.Equal(t, "ops@example.com", c.SMTPUsername)
	assert.Equal(t, "app-password", c.SMTPPassword)
	assert.Equal(t, "ops@example.com", c.NotifyTo, "recipient defaults to the relay user")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.False(t, c.SMTPTLS)
}

func TestNotifyToOverride(t *testing.T) {
	t.Setenv("GMAIL_USER", "ops@example.com")
	t.Setenv("NOTIFY_TO", "sales@example.com")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)

	assert.Equal(t, "sales@example.com", c.NotifyTo)
}

func TestLoadJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"AppPort":"9000","UploadsDir":"/srv/uploads","SMTPTLS":false}`), 0o644))

	c := AppConfig{SMTPTLS: true}
	require.NoError(t, loadJSONConfig(path, &c))
	applyDefaults(&c)

	assert.Equal(t, "9000", c.AppPort)
	assert.Equal(t, "/srv/uploads", c.UploadsDir)
	assert.False(t, c.SMTPTLS)
}

func TestLoadJSONConfigMissingFile(t *testing.T) {
	var c AppConfig
	assert.NoError(t, loadJSONConfig(filepath.Join(t.TempDir(), "nope.json"), &c))
}

func TestLoadJSONConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	var c AppConfig
	assert.Error(t, loadJSONConfig(path, &c))
}
