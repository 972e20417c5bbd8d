package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: "http",
			HTTPPort:  8080,
		},
		Logging: LoggingConfig{
			Mode:  "production",
			Level: "info",
		},
		Providers: ProvidersConfig{
			Mobula: ProviderConfig{
				BaseURL: "https://api.mobula.io/api/1",
				APIKey:  "test-mobula-key",
			},
			LunarCrush: ProviderConfig{
				BaseURL: "https://lunarcrush.com/api4/public",
				APIKey:  "test-lunarcrush-key",
			},
			TimeoutSec: 15,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTLSec:  60,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		// Test that a valid config does not fail validation
		cfg := validConfig()

		err := cfg.validate()
		require.NoError(t, err)
	})

	t.Run("InvalidServerTransport", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Transport = "invalid" // Invalid transport

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server.transport")
	})

	t.Run("InvalidLoggingMode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Mode = "invalid_mode" // Invalid mode

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid logging.mode")
	})

	t.Run("InvalidLogLevel", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "invalid_level" // Invalid level

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid logging.level")
	})

	t.Run("MissingMobulaKey", func(t *testing.T) {
		cfg := validConfig()
		cfg.Providers.Mobula.APIKey = "" // No default exists for credentials

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "providers.mobula.api_key is required")
	})

	t.Run("MissingLunarCrushKey", func(t *testing.T) {
		cfg := validConfig()
		cfg.Providers.LunarCrush.APIKey = ""

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "providers.lunarcrush.api_key is required")
	})

	t.Run("InvalidProviderTimeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.Providers.TimeoutSec = 0 // Invalid: must be positive

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "providers.timeout_sec must be positive")
	})

	t.Run("InvalidCacheTTL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.TTLSec = 0 // Invalid: must be positive

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache.ttl_sec must be positive")
	})

	t.Run("UnsupportedCacheBackend", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Backend = "memcached"

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported cache.backend")
	})

	t.Run("RedisBackendRequiresAddr", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Backend = "redis"
		cfg.Cache.Redis.Addr = ""

		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache.redis.addr is required")
	})
}

func TestDurations(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "15s", cfg.ProviderTimeout().String())
	assert.Equal(t, "1m0s", cfg.CacheTTL().String())
}
