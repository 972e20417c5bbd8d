package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mkrv/querybox/capability"
	"github.com/mkrv/querybox/config"
	"github.com/mkrv/querybox/engine"
	"github.com/mkrv/querybox/logger"
	"github.com/mkrv/querybox/mcpserver"
	"github.com/mkrv/querybox/provider"
	"github.com/mkrv/querybox/resolver"
)

// newMarketServer fakes the market provider with a fixed snapshot and a
// short price history. It records the asset names it was queried with.
func newMarketServer(t *testing.T, assets *[]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/market/data", func(w http.ResponseWriter, r *http.Request) {
		*assets = append(*assets, r.URL.Query().Get("asset"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"name":"Bitcoin","symbol":"BTC","price":42000,"volume":1250000000,"market_cap":820000000000,"price_change_24h":-1.234}}`))
	})
	mux.HandleFunc("/market/history", func(w http.ResponseWriter, r *http.Request) {
		*assets = append(*assets, r.URL.Query().Get("asset"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"price_history":[[1000,10],[2000,11],[3000,12],[4000,13]]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newSocialServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/coins/bitcoin/v1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"name":"Bitcoin","symbol":"BTC","galaxy_score":72.5,"sentiment":81}}`))
	})
	mux.HandleFunc("/topic/bitcoin/news/v1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newStack(t *testing.T, assets *[]string) *engine.Engine {
	t.Helper()
	log := zaptest.NewLogger(t)

	market := provider.NewMobula("test-key", provider.Options{BaseURL: newMarketServer(t, assets).URL, Logger: log})
	social := provider.NewLunarCrush("test-key", provider.Options{BaseURL: newSocialServer(t).URL, Logger: log})
	builder := capability.NewBuilder(market, social, resolver.New(nil), log)

	return engine.New(builder, log, nil)
}

// TestIntegrationConfigLogger tests the integration between the config and
// logger packages.
func TestIntegrationConfigLogger(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Transport: "stdio",
			HTTPPort:  8080,
		},
		Logging: config.LoggingConfig{
			Mode:  "development",
			Level: "debug",
		},
	}

	// Create logger using config
	testLogger, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	require.NoError(t, err)
	require.NotNil(t, testLogger)

	// Test that logger works
	testLogger.Info("Integration test started")
	_ = testLogger.Sync()
}

// TestIntegrationEngineExecution runs snippets through the real engine,
// registry, resolver, and provider clients against fake upstream servers.
func TestIntegrationEngineExecution(t *testing.T) {
	t.Run("FormattedPriceLookup", func(t *testing.T) {
		var assets []string
		e := newStack(t, &assets)

		value, failure := e.Execute(context.Background(), "```js\nreturn await getPrice(\"BTC\");\n```")
		require.Nil(t, failure)
		assert.Equal(t, "$42000.00", value)

		// The ticker resolves to the canonical name before leaving the
		// process.
		require.NotEmpty(t, assets)
		assert.Equal(t, "bitcoin", assets[0])
	})

	t.Run("PercentAndVolumeFormatting", func(t *testing.T) {
		var assets []string
		e := newStack(t, &assets)

		code := `
const change = await getPriceChange24h("btc");
const volume = await getVolume("btc");
return { change, volume };
`
		value, failure := e.Execute(context.Background(), code)
		require.Nil(t, failure)
		m, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "-1.23%", m["change"])
		assert.Equal(t, "$1250000000.00", m["volume"])
	})

	t.Run("HistoryFeedsIndicators", func(t *testing.T) {
		var assets []string
		e := newStack(t, &assets)

		code := `
const history = await getPriceHistory("BTC", 0, windowMillis("7d"));
const prices = history.map(p => p.price);
return calculateSMA(prices, 4);
`
		value, failure := e.Execute(context.Background(), code)
		require.Nil(t, failure)
		assert.InDelta(t, 11.5, value, 1e-9)
	})

	t.Run("SocialMetricsAndEmptyNews", func(t *testing.T) {
		var assets []string
		e := newStack(t, &assets)

		code := `
const metrics = await getSocialMetrics("BTC");
const news = await getNews("bitcoin");
return { name: metrics.name, news };
`
		value, failure := e.Execute(context.Background(), code)
		require.Nil(t, failure)
		m, ok := value.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Bitcoin", m["name"])
		assert.Equal(t, "No data available", m["news"])
	})

	t.Run("UpstreamFailureIsCapabilityKind", func(t *testing.T) {
		log := zaptest.NewLogger(t)
		down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(down.Close)

		market := provider.NewMobula("test-key", provider.Options{BaseURL: down.URL, Logger: log})
		social := provider.NewLunarCrush("test-key", provider.Options{BaseURL: down.URL, Logger: log})
		builder := capability.NewBuilder(market, social, resolver.New(nil), log)
		e := engine.New(builder, log, nil)

		_, failure := e.Execute(context.Background(), `return await getPrice("BTC");`)
		require.NotNil(t, failure)
		assert.Equal(t, engine.KindCapability, failure.Kind)
	})
}

// TestIntegrationFullMCP wires the engine into the MCP server and calls the
// tool handler path end to end.
func TestIntegrationFullMCP(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Transport: "stdio",
			HTTPPort:  8080,
		},
		Logging: config.LoggingConfig{
			Mode:  "development",
			Level: "info",
		},
		Providers: config.ProvidersConfig{
			Mobula:     config.ProviderConfig{APIKey: "test-key"},
			LunarCrush: config.ProviderConfig{APIKey: "test-key"},
			TimeoutSec: 5,
		},
		Cache: config.CacheConfig{Backend: "none", TTLSec: 60},
	}

	mcpLogger, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	require.NoError(t, err)

	var assets []string
	server, err := mcpserver.New(cfg, mcpLogger, newStack(t, &assets))
	require.NoError(t, err)
	require.NotNil(t, server)

	// Test that the tool is registered
	mcpServer := server.GetMCPServer()
	require.NotNil(t, mcpServer)
}
