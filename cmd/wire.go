package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bnema/x-analytics-cli/internal/adapters/feed"
	"github.com/bnema/x-analytics-cli/internal/adapters/render/dashboard"
	tomlrepo "github.com/bnema/x-analytics-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/x-analytics-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/x-analytics-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/x-analytics-cli/internal/adapters/secrets/pass"
	"github.com/bnema/x-analytics-cli/internal/adapters/source"
	"github.com/bnema/x-analytics-cli/internal/adapters/source/remote"
	"github.com/bnema/x-analytics-cli/internal/application"
	"github.com/bnema/x-analytics-cli/internal/logging"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

type app struct {
	cfg      *viper.Viper
	logger   logging.Logger
	fs       afero.Fs
	clock    ports.Clock
	engine   *application.Engine
	gate     *application.Gate
	builder  *feed.Builder
	renderer func(dashboard.View, dashboard.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logging.Options{
		Level:  cfg.GetString(keyLogLevel),
		Format: cfg.GetString(keyLogFormat),
		Output: os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	sessions, err := tomlrepo.NewSessionRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	secrets, err := newSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	fs := afero.NewOsFs()
	clock := ports.SystemClock{}

	return &app{
		cfg:      cfg,
		logger:   logger,
		fs:       fs,
		clock:    clock,
		engine:   application.NewEngine(clock, logger),
		gate:     application.NewGate(secrets, sessions, clock, cfg.GetDuration(keySessionTTL), cfg.GetString(keyPasswordHash)),
		builder:  feed.NewBuilder(fs, clock, logger),
		renderer: dashboard.Render,
	}, nil
}

func newSecretStore(cfg *viper.Viper) (ports.SecretStore, error) {
	dir := cfg.GetString(keySecretsDir)

	switch backend := strings.ToLower(strings.TrimSpace(cfg.GetString(keySecretsBackend))); backend {
	case "", secretsBackendAuto:
		return chainstore.NewPassFirstWithFileFallback(passstore.DefaultPrefix, dir)
	case secretsBackendFile:
		return filestore.NewStore(dir), nil
	case secretsBackendPass:
		return passstore.NewStore(passstore.DefaultPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend %q (want auto, file or pass)", backend)
	}
}

// openSource resolves the snapshot location from the --source flag or config.
func (a *app) openSource(location string) (ports.SnapshotSource, error) {
	if strings.TrimSpace(location) == "" {
		location = a.cfg.GetString(keySourceLocation)
	}

	remoteCfg := remote.DefaultConfig()
	remoteCfg.Timeout = a.cfg.GetDuration(keySourceTimeout)
	remoteCfg.MaxRetries = a.cfg.GetInt(keySourceMaxRetries)
	remoteCfg.Logger = a.logger

	return source.Open(location, source.Options{Fs: a.fs, Remote: remoteCfg})
}
