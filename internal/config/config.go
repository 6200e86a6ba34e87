// Package config resolves runtime settings from ~/.parent-portal/config.toml
// and PP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "PP"
	ConfigDir  = ".parent-portal"
	configName = "config"
	configType = "toml"

	SessionPathKey    = "session.path"
	InboxPathKey      = "inbox.path"
	UsersPathKey      = "users.path"
	PrefsPathKey      = "preferences.path"
	SecretsDirKey     = "secrets.dir"
	SecretsBackendKey = "secrets.backend"
	IdentityModeKey   = "identity.mode"
	IdentityDelayKey  = "identity.delay"
	LogLevelKey       = "log.level"
)

type IdentityMode string

const (
	// IdentityStub accepts any well-formed credentials.
	IdentityStub  IdentityMode = "stub"
	IdentityLocal IdentityMode = "local"
)

type SecretsBackend string

const (
	SecretsFile SecretsBackend = "file"
	SecretsPass SecretsBackend = "pass"
	// SecretsAuto tries pass first and falls back to files.
	SecretsAuto SecretsBackend = "auto"
)

type Config struct {
	SessionPath    string
	InboxPath      string
	UsersPath      string
	PrefsPath      string
	SecretsDir     string
	SecretsBackend SecretsBackend
	IdentityMode   IdentityMode
	IdentityDelay  time.Duration
	LogLevel       zerolog.Level
}

// Load registers defaults, environment binding and the optional config file
// on v, then reads the resolved settings back. Repositories built from the
// same v see the same paths.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config: viper instance is nil")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, ConfigDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(baseDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(SessionPathKey, filepath.Join(baseDir, "session.toml"))
	v.SetDefault(InboxPathKey, filepath.Join(baseDir, "inbox.toml"))
	v.SetDefault(UsersPathKey, filepath.Join(baseDir, "users.toml"))
	v.SetDefault(PrefsPathKey, filepath.Join(baseDir, "preferences.toml"))
	v.SetDefault(SecretsDirKey, filepath.Join(baseDir, "secrets"))
	v.SetDefault(SecretsBackendKey, string(SecretsFile))
	v.SetDefault(IdentityModeKey, string(IdentityLocal))
	v.SetDefault(IdentityDelayKey, "1s")
	v.SetDefault(LogLevelKey, zerolog.WarnLevel.String())

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		SessionPath:    v.GetString(SessionPathKey),
		InboxPath:      v.GetString(InboxPathKey),
		UsersPath:      v.GetString(UsersPathKey),
		PrefsPath:      v.GetString(PrefsPathKey),
		SecretsDir:     v.GetString(SecretsDirKey),
		SecretsBackend: SecretsBackend(strings.ToLower(strings.TrimSpace(v.GetString(SecretsBackendKey)))),
		IdentityMode:   IdentityMode(strings.ToLower(strings.TrimSpace(v.GetString(IdentityModeKey)))),
	}

	for key, path := range map[string]string{
		SessionPathKey: cfg.SessionPath,
		InboxPathKey:   cfg.InboxPath,
		UsersPathKey:   cfg.UsersPath,
		PrefsPathKey:   cfg.PrefsPath,
		SecretsDirKey:  cfg.SecretsDir,
	} {
		if strings.TrimSpace(path) == "" {
			return Config{}, fmt.Errorf("config: %s is empty", key)
		}
	}

	switch cfg.IdentityMode {
	case IdentityStub, IdentityLocal:
	default:
		return Config{}, fmt.Errorf("config: unsupported %s %q (want stub or local)", IdentityModeKey, cfg.IdentityMode)
	}

	switch cfg.SecretsBackend {
	case SecretsFile, SecretsPass, SecretsAuto:
	default:
		return Config{}, fmt.Errorf("config: unsupported %s %q (want file, pass or auto)", SecretsBackendKey, cfg.SecretsBackend)
	}

	delay, err := time.ParseDuration(strings.TrimSpace(v.GetString(IdentityDelayKey)))
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", IdentityDelayKey, err)
	}
	if delay < 0 {
		return Config{}, fmt.Errorf("config: %s must not be negative", IdentityDelayKey)
	}
	cfg.IdentityDelay = delay

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(v.GetString(LogLevelKey))))
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", LogLevelKey, err)
	}
	cfg.LogLevel = level

	return cfg, nil
}
