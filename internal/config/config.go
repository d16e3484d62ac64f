// Package config loads trac8 settings from TRAC8_ environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvPrefix is the prefix of every variable Load reads.
const EnvPrefix = "TRAC8"

// Config holds the settings shared by the CLI and the dev server.
type Config struct {
	// API client
	APIURL           string        `envconfig:"API_URL"           default:"http://localhost:5000/"`
	APIToken         string        `envconfig:"API_TOKEN"         default:""`
	HTTPTimeout      time.Duration `envconfig:"HTTP_TIMEOUT"      default:"30s"`
	PageSize         int           `envconfig:"PAGE_SIZE"         default:"10"`
	ProbeConcurrency int           `envconfig:"PROBE_CONCURRENCY" default:"4"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Dev server; an empty DB path keeps the database in memory
	DevAddr   string `envconfig:"DEV_ADDR"    default:":5000"`
	DevDBPath string `envconfig:"DEV_DB_PATH" default:""`
	DevToken  string `envconfig:"DEV_TOKEN"   default:""`
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_URL %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1, got %d", c.PageSize)
	}
	if c.ProbeConcurrency < 1 {
		return fmt.Errorf("PROBE_CONCURRENCY must be at least 1, got %d", c.ProbeConcurrency)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// New reads and validates the configuration.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("api_url", cfg.APIURL).
		Bool("api_token_present", cfg.APIToken != "").
		Dur("http_timeout", cfg.HTTPTimeout).
		Int("page_size", cfg.PageSize).
		Int("probe_concurrency", cfg.ProbeConcurrency).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return &cfg, nil
}

// NewForTesting returns the defaults without reading the environment.
func NewForTesting() *Config {
	return &Config{
		APIURL:           "http://localhost:5000/",
		HTTPTimeout:      30 * time.Second,
		PageSize:         10,
		ProbeConcurrency: 4,
		LogLevel:         "info",
		DevAddr:          ":5000",
	}
}

// InitLogger points the global logger at a console writer on stderr.
func InitLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	SetLogLevel(level)
}

// SetLogLevel sets the global level; unknown names fall back to info.
func SetLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
