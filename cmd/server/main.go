// Package main is the entry point for the Querybox MCP server.
//
// The Querybox server implements a Model Context Protocol (MCP) server that
// executes model-written JavaScript query snippets against crypto market,
// metadata, wallet, and social data capabilities. Snippets run inside an
// embedded runtime with a closed set of bound functions; nothing outside
// the capability registry is reachable. The server supports both stdio and
// HTTP transports.
//
// The application uses Uber's fx framework for dependency injection and
// lifecycle management, with zap for structured logging and viper for
// configuration.
package main

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/mkrv/querybox/cache"
	"github.com/mkrv/querybox/capability"
	"github.com/mkrv/querybox/config"
	"github.com/mkrv/querybox/engine"
	"github.com/mkrv/querybox/logger"
	"github.com/mkrv/querybox/mcpserver"
	"github.com/mkrv/querybox/metrics"
	"github.com/mkrv/querybox/provider"
	"github.com/mkrv/querybox/resolver"
)

func newStore(cfg *config.Config, lc fx.Lifecycle) (cache.Store, error) {
	var store cache.Store
	switch cfg.Cache.Backend {
	case "memory":
		store = cache.NewMemory(time.Minute)
	case "redis":
		redisStore, err := cache.NewRedis(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB, cfg.Cache.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		store = cache.Noop{}
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

func newResolver(cfg *config.Config) (*resolver.Resolver, error) {
	if cfg.Resolver.TokenFile != "" {
		return resolver.NewFromFile(cfg.Resolver.TokenFile)
	}
	return resolver.New(nil), nil
}

func newMarketAPI(cfg *config.Config, store cache.Store, rec *metrics.Recorder, log *zap.Logger) capability.MarketAPI {
	return provider.NewMobula(cfg.Providers.Mobula.APIKey, provider.Options{
		BaseURL:  cfg.Providers.Mobula.BaseURL,
		Timeout:  cfg.ProviderTimeout(),
		Cache:    store,
		CacheTTL: cfg.CacheTTL(),
		Metrics:  rec,
		Logger:   log,
	})
}

func newSocialAPI(cfg *config.Config, store cache.Store, rec *metrics.Recorder, log *zap.Logger) capability.SocialAPI {
	return provider.NewLunarCrush(cfg.Providers.LunarCrush.APIKey, provider.Options{
		BaseURL:  cfg.Providers.LunarCrush.BaseURL,
		Timeout:  cfg.ProviderTimeout(),
		Cache:    store,
		CacheTTL: cfg.CacheTTL(),
		Metrics:  rec,
		Logger:   log,
	})
}

func newEngine(builder *capability.Builder, log *zap.Logger, rec *metrics.Recorder) *engine.Engine {
	return engine.New(builder, log, rec)
}

func newExecutor(e *engine.Engine) mcpserver.Executor {
	return e
}

func main() {
	app := fx.New(
		// Provide dependencies
		fx.Provide(
			// Config
			config.New,

			// Logger with configuration
			logger.NewFromConfig,

			// Response cache backend based on config
			newStore,

			// Metrics recorder
			metrics.New,

			// Token and window resolution
			newResolver,

			// Upstream data providers
			newMarketAPI,
			newSocialAPI,

			// Capability registry builder
			capability.NewBuilder,

			// Execution engine
			newEngine,
			newExecutor,

			// MCP Server
			mcpserver.New,
		),

		// Start the appropriate transport based on config
		fx.Invoke(
			func(cfg *config.Config, server *mcpserver.MCPServer) {
				switch cfg.Server.Transport {
				case "stdio":
					// Use fx to run this as a background task
					go func() {
						if err := server.ServeStdio(); err != nil {
							panic(err)
						}
					}()
				case "http":
					go func() {
						if err := server.ServeHTTP(); err != nil {
							panic(err)
						}
					}()
				default:
					panic("unsupported transport: " + cfg.Server.Transport)
				}
			},
		),

		// Expose the metrics listener when enabled
		fx.Invoke(
			func(cfg *config.Config, rec *metrics.Recorder, log *zap.Logger) {
				if !cfg.Metrics.Enabled {
					return
				}
				go func() {
					if err := rec.Serve(cfg.Metrics.Port, log); err != nil {
						log.Error("metrics listener stopped", zap.Error(err))
					}
				}()
			},
		),

		// Use the application logger for fx logs
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	// Start the application
	app.Run()
}
