package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, NewForTesting(), cfg)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("TRAC8_API_URL", "https://api.example.com/")
	t.Setenv("TRAC8_API_TOKEN", "secret")
	t.Setenv("TRAC8_HTTP_TIMEOUT", "5s")
	t.Setenv("TRAC8_PAGE_SIZE", "25")
	t.Setenv("TRAC8_PROBE_CONCURRENCY", "8")
	t.Setenv("TRAC8_DEV_DB_PATH", "/tmp/trac8.db")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/", cfg.APIURL)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 8, cfg.ProbeConcurrency)
	assert.Equal(t, "/tmp/trac8.db", cfg.DevDBPath)
}

func TestNew_Invalid(t *testing.T) {
	cases := map[string]string{
		"TRAC8_API_URL":           "localhost",
		"TRAC8_HTTP_TIMEOUT":      "0s",
		"TRAC8_PAGE_SIZE":         "0",
		"TRAC8_PROBE_CONCURRENCY": "-1",
		"TRAC8_LOG_LEVEL":         "loud",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestNew_Unparsable(t *testing.T) {
	t.Setenv("TRAC8_PAGE_SIZE", "ten")
	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment variables")
}

func TestSetLogLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	SetLogLevel("DEBUG")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	SetLogLevel("nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	SetLogLevel("")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
