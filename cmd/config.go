package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/x-analytics-cli/internal/adapters/feed"
	"github.com/bnema/x-analytics-cli/internal/adapters/source"
	"github.com/bnema/x-analytics-cli/internal/application"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".xa"
	configFileName = "config.toml"
	envPrefix      = "XA"
)

const (
	keySourceLocation   = "source.location"
	keySourceTimeout    = "source.timeout"
	keySourceMaxRetries = "source.max_retries"
	keyRowsPerPage      = "table.rows_per_page"
	keyFeedInputDir     = "feed.input_dir"
	keyFeedOutput       = "feed.output"
	keyPasswordHash     = "auth.password_sha256"
	keySessionTTL       = "session.ttl"
	keySecretsDir       = "secrets.dir"
	keySecretsBackend   = "secrets.backend"
	keyLogLevel         = "log.level"
	keyLogFormat        = "log.format"
)

const (
	secretsBackendAuto = "auto"
	secretsBackendFile = "file"
	secretsBackendPass = "pass"
)

// loadConfig reads ~/.xa/config.toml when present. Every key can be
// overridden from the environment, e.g. XA_SOURCE_LOCATION.
func loadConfig() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, configDirName)

	cfg := viper.New()
	cfg.SetConfigFile(filepath.Join(configDir, configFileName))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keySourceLocation, source.DefaultLocation)
	cfg.SetDefault(keySourceTimeout, 30*time.Second)
	cfg.SetDefault(keySourceMaxRetries, 3)
	cfg.SetDefault(keyRowsPerPage, application.DefaultRowsPerPage)
	cfg.SetDefault(keyFeedInputDir, feed.DefaultInputDir)
	cfg.SetDefault(keyFeedOutput, feed.DefaultOutput)
	cfg.SetDefault(keyPasswordHash, "")
	cfg.SetDefault(keySessionTTL, application.DefaultSessionTTL)
	cfg.SetDefault(keySecretsDir, filepath.Join(configDir, "secrets"))
	cfg.SetDefault(keySecretsBackend, secretsBackendAuto)
	cfg.SetDefault(keyLogLevel, "warn")
	cfg.SetDefault(keyLogFormat, "text")

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return cfg, nil
}
