package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-report/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":           "",
		"PORT":              "",
		"REDIS_URL":         "",
		"REPORT_CACHE_TTL":  "",
		"REPORT_TOP_N":      "",
		"REPORT_RATE_LIMIT": "",
		"OBS_LOG_FORMAT":    "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Empty(t, cfg.RedisURL)
	require.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	require.Equal(t, 10, cfg.ReportTopN)
	require.EqualValues(t, 60, cfg.RateLimitMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, "json", cfg.LogFormat)
	require.True(t, cfg.MetricsEnabled)
	require.Equal(t, "salesreport", cfg.MetricsNamespace)
	require.False(t, cfg.TracingEnabled)
	require.Equal(t, 300*time.Millisecond, cfg.HealthRedisTimeout)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"APP_ENV":                       "production",
		"PORT":                          "9090",
		"REDIS_URL":                     "redis://localhost:6379/0",
		"CORS_ALLOWED_ORIGINS":          "https://a.example, https://b.example",
		"REPORT_CACHE_TTL":              "30s",
		"REPORT_TOP_N":                  "5",
		"REPORT_RATE_LIMIT":             "120",
		"REPORT_RATE_WINDOW":            "10s",
		"OBS_ENABLE_PROMETHEUS":         "false",
		"OBS_ENABLE_TRACING":            "true",
		"OBS_TRACING_SAMPLING_RATIO":    "0.25",
		"HEALTH_READY_REDIS_TIMEOUT_MS": "500",
	})
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	require.Equal(t, 5, cfg.ReportTopN)
	require.EqualValues(t, 120, cfg.RateLimitMax)
	require.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	require.False(t, cfg.MetricsEnabled)
	require.True(t, cfg.TracingEnabled)
	require.InDelta(t, 0.25, cfg.TracingSampling, 1e-9)
	// Bare numbers are milliseconds.
	require.Equal(t, 500*time.Millisecond, cfg.HealthRedisTimeout)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"REPORT_TOP_N":               "-3",
		"REPORT_CACHE_TTL":           "soon",
		"OBS_TRACING_SAMPLING_RATIO": "nope",
	})
	require.NoError(t, err)

	require.Equal(t, 10, cfg.ReportTopN)
	require.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	require.InDelta(t, 1.0, cfg.TracingSampling, 1e-9)
}

func TestHTTPAddrNormalizesPort(t *testing.T) {
	cfg := &config.Config{Port: ":7001"}
	require.Equal(t, ":7001", cfg.HTTPAddr())
	cfg.Port = "7002"
	require.Equal(t, ":7002", cfg.HTTPAddr())
	cfg.Port = " "
	require.Equal(t, ":8080", cfg.HTTPAddr())
}
