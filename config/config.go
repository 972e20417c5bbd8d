package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// ProvidersConfig holds upstream data provider configuration
type ProvidersConfig struct {
	Mobula     ProviderConfig `mapstructure:"mobula"`
	LunarCrush ProviderConfig `mapstructure:"lunarcrush"`
	TimeoutSec int            `mapstructure:"timeout_sec"`
}

// ProviderConfig holds a single provider's endpoint and credentials.
// API keys have no default and are never baked into the binary; a
// missing key fails validation at startup.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Backend string      `mapstructure:"backend"`
	TTLSec  int         `mapstructure:"ttl_sec"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// MetricsConfig holds metrics listener configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// ResolverConfig holds token resolution configuration
type ResolverConfig struct {
	TokenFile string `mapstructure:"token_file"`
}

// New loads and validates the application configuration
func New() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("QUERYBOX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("server.transport", "stdio")
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("logging.mode", "production")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("providers.mobula.base_url", "https://api.mobula.io/api/1")
	viper.SetDefault("providers.lunarcrush.base_url", "https://lunarcrush.com/api4/public")
	viper.SetDefault("providers.timeout_sec", 15)
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.ttl_sec", 60)
	viper.SetDefault("cache.redis.addr", "localhost:6379")
	viper.SetDefault("cache.redis.password", "")
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("cache.redis.prefix", "querybox")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)
	viper.SetDefault("resolver.token_file", "")

	// Credentials are bound explicitly so the keys resolve from the
	// environment even without a config file.
	_ = viper.BindEnv("providers.mobula.api_key", "QUERYBOX_MOBULA_API_KEY")
	_ = viper.BindEnv("providers.lunarcrush.api_key", "QUERYBOX_LUNARCRUSH_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// If config file not found, continue with defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return fmt.Errorf("invalid server.transport: %s, must be 'stdio' or 'http'", c.Server.Transport)
	}

	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}

	supportedLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !supportedLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s, must be one of 'debug', 'info', 'warn', 'error'", c.Logging.Level)
	}

	if c.Providers.Mobula.APIKey == "" {
		return fmt.Errorf("providers.mobula.api_key is required (set QUERYBOX_MOBULA_API_KEY)")
	}

	if c.Providers.LunarCrush.APIKey == "" {
		return fmt.Errorf("providers.lunarcrush.api_key is required (set QUERYBOX_LUNARCRUSH_API_KEY)")
	}

	if c.Providers.TimeoutSec <= 0 {
		return fmt.Errorf("providers.timeout_sec must be positive, got: %d", c.Providers.TimeoutSec)
	}

	if c.Cache.TTLSec <= 0 {
		return fmt.Errorf("cache.ttl_sec must be positive, got: %d", c.Cache.TTLSec)
	}

	supportedBackends := map[string]bool{
		"memory": true,
		"redis":  true,
		"none":   true,
	}
	if !supportedBackends[c.Cache.Backend] {
		return fmt.Errorf("unsupported cache.backend: %s", c.Cache.Backend)
	}

	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when cache.backend is 'redis'")
	}

	return nil
}

// ProviderTimeout returns the upstream request timeout as a duration
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.TimeoutSec) * time.Second
}

// CacheTTL returns the response cache entry lifetime as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSec) * time.Second
}
