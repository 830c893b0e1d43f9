package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/x-analytics-cli/internal/logging"
	"github.com/bnema/x-analytics-cli/internal/ports"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

const DefaultMaxBytes int64 = 64 << 20

var ErrTooLarge = errors.New("snapshot exceeds size limit")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s", e.Status)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxBytes   int64
	Client     *http.Client
	Logger     logging.Logger
}

func DefaultConfig() Config {
	return Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		MaxBytes:   DefaultMaxBytes,
	}
}

func normalizeConfig(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaults.BaseDelay
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaults.MaxBytes
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	return cfg
}

// Source downloads a snapshot over HTTP, retrying transport failures, 5xx
// and 429 with jittered backoff.
type Source struct {
	url      string
	client   *http.Client
	executor failsafe.Executor[*http.Response]
	maxBytes int64
	logger   logging.Logger
}

var _ ports.SnapshotSource = (*Source)(nil)

func New(url string, cfg Config) *Source {
	cfg = normalizeConfig(cfg)

	s := &Source{
		url:      url,
		client:   cfg.Client,
		maxBytes: cfg.MaxBytes,
		logger:   cfg.Logger,
	}
	s.executor = failsafe.With(newRetryPolicy(cfg, url, s.logger))
	return s
}

//nolint:bodyclose // *http.Response is the generic result type here
func newRetryPolicy(cfg Config, url string, logger logging.Logger) retrypolicy.RetryPolicy[*http.Response] {
	return retrypolicy.NewBuilder[*http.Response]().
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		HandleIf(func(_ *http.Response, err error) bool {
			return shouldRetry(err)
		}).
		OnRetry(func(e failsafe.ExecutionEvent[*http.Response]) {
			logger.WithError(e.LastError()).WithFields(logging.Fields{
				"source":  url,
				"attempt": e.Attempts(),
			}).Warn("retrying snapshot download")
		}).
		Build()
}

func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	return true
}

func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		return s.do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("download snapshot: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, s.maxBytes)
	}

	return data, nil
}

// do sends one attempt. Non-2xx bodies are drained and closed here so retried
// attempts never leak connections.
func (s *Source) do(req *http.Request) (*http.Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}

func (s *Source) Describe() string {
	return s.url
}
