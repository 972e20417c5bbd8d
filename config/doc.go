// Package config provides application configuration management.
//
// The config package handles loading and validation of the application's
// configuration from YAML files and environment variables. It supports
// configuration for server settings, upstream data providers, caching,
// metrics, and token resolution. Provider API keys have no defaults and
// must be supplied through the config file or the QUERYBOX_MOBULA_API_KEY
// and QUERYBOX_LUNARCRUSH_API_KEY environment variables.
//
// Usage:
//
//	cfg, err := config.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Server transport: %s\n", cfg.Server.Transport)
package config
