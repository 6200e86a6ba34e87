package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	base := filepath.Join(home, ConfigDir)
	assert.Equal(t, filepath.Join(base, "session.toml"), cfg.SessionPath)
	assert.Equal(t, filepath.Join(base, "inbox.toml"), cfg.InboxPath)
	assert.Equal(t, filepath.Join(base, "users.toml"), cfg.UsersPath)
	assert.Equal(t, filepath.Join(base, "preferences.toml"), cfg.PrefsPath)
	assert.Equal(t, filepath.Join(base, "secrets"), cfg.SecretsDir)
	assert.Equal(t, SecretsFile, cfg.SecretsBackend)
	assert.Equal(t, IdentityLocal, cfg.IdentityMode)
	assert.Equal(t, time.Second, cfg.IdentityDelay)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[identity]
mode = "stub"
delay = "250ms"

[inbox]
path = "/tmp/custom-inbox.toml"

[log]
level = "debug"
`), 0o600))

	v := viper.New()
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, IdentityStub, cfg.IdentityMode)
	assert.Equal(t, 250*time.Millisecond, cfg.IdentityDelay)
	assert.Equal(t, "/tmp/custom-inbox.toml", cfg.InboxPath)
	assert.Equal(t, "/tmp/custom-inbox.toml", v.GetString(InboxPathKey))
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PP_IDENTITY_MODE", "stub")
	t.Setenv("PP_IDENTITY_DELAY", "0s")
	t.Setenv("PP_SECRETS_BACKEND", "auto")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, IdentityStub, cfg.IdentityMode)
	assert.Equal(t, time.Duration(0), cfg.IdentityDelay)
	assert.Equal(t, SecretsAuto, cfg.SecretsBackend)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name    string
		env     string
		value   string
		wantErr string
	}{
		{name: "identity mode", env: "PP_IDENTITY_MODE", value: "oauth", wantErr: "unsupported identity.mode"},
		{name: "secrets backend", env: "PP_SECRETS_BACKEND", value: "vault", wantErr: "unsupported secrets.backend"},
		{name: "delay", env: "PP_IDENTITY_DELAY", value: "soon", wantErr: "parse identity.delay"},
		{name: "negative delay", env: "PP_IDENTITY_DELAY", value: "-1s", wantErr: "must not be negative"},
		{name: "log level", env: "PP_LOG_LEVEL", value: "loud", wantErr: "parse log.level"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			t.Setenv(tc.env, tc.value)

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadRejectsNilViper(t *testing.T) {
	_, err := Load(nil)
	require.Error(t, err)
}
