package capability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mkrv/querybox/indicator"
	"github.com/mkrv/querybox/provider"
	"github.com/mkrv/querybox/resolver"
)

// Entry is one named value exposed to executed code.
type Entry struct {
	Name  string
	Value any
}

// MarketAPI is the market/metadata/portfolio lookup surface the registry
// needs from the Mobula client.
type MarketAPI interface {
	MarketData(ctx context.Context, asset string) (*provider.MarketData, error)
	Metadata(ctx context.Context, asset string) (*provider.Metadata, error)
	MarketHistory(ctx context.Context, asset string, fromMs, toMs int64) ([]provider.PricePoint, error)
	WalletPortfolio(ctx context.Context, wallet string) (*provider.Portfolio, error)
	WalletHistory(ctx context.Context, wallets []string, fromMs, toMs int64) ([]provider.ValuePoint, error)
}

// SocialAPI is the social/news lookup surface the registry needs from the
// LunarCrush client.
type SocialAPI interface {
	CoinData(ctx context.Context, coin string) (*provider.CoinMetrics, error)
	TopicNews(ctx context.Context, topic string) ([]provider.Post, error)
	TopicPosts(ctx context.Context, topic string) ([]provider.Post, error)
}

// Builder constructs a fresh registry per execution.
type Builder struct {
	market   MarketAPI
	social   SocialAPI
	resolver *resolver.Resolver
	log      *zap.Logger
}

// NewBuilder wires the registry's dependencies.
func NewBuilder(market MarketAPI, social SocialAPI, res *resolver.Resolver, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{market: market, social: social, resolver: res, log: log}
}

// Build returns the full allow-list for one execution, in stable order.
// All closures capture ctx so the caller's cancellation reaches every
// lookup the snippet makes.
func (b *Builder) Build(ctx context.Context) []Entry {
	snapshot := func(token string) (*provider.MarketData, error) {
		return b.market.MarketData(ctx, b.resolver.Resolve(token))
	}
	meta := func(token string) (*provider.Metadata, error) {
		return b.market.Metadata(ctx, b.resolver.Resolve(token))
	}

	return []Entry{
		// Market snapshot fields, formatted.
		{"getPrice", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatUSD(d.Price), nil
		}},
		{"getVolume", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatUSD(d.Volume), nil
		}},
		{"getMarketCap", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatUSD(d.MarketCap), nil
		}},
		{"getMarketCapDiluted", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			if d.Price == nil || d.MaxSupply == nil {
				return NotAvailable, nil
			}
			diluted := *d.Price * *d.MaxSupply
			return formatUSD(&diluted), nil
		}},
		{"getLiquidity", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatUSD(d.Liquidity), nil
		}},
		{"getRank", func(token string) (any, error) {
			d, err := snapshot(token)
			if err != nil {
				return nil, err
			}
			return numberOrNA(d.Rank), nil
		}},
		{"getCirculatingSupply", func(token string) (any, error) {
			d, err := snapshot(token)
			if err != nil {
				return nil, err
			}
			return numberOrNA(d.CirculatingSupply), nil
		}},
		{"getTotalSupply", func(token string) (any, error) {
			d, err := snapshot(token)
			if err != nil {
				return nil, err
			}
			return numberOrNA(d.TotalSupply), nil
		}},
		{"getMaxSupply", func(token string) (any, error) {
			d, err := snapshot(token)
			if err != nil {
				return nil, err
			}
			return numberOrNA(d.MaxSupply), nil
		}},
		{"getATH", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatUSD(d.ATH), nil
		}},
		{"getATL", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatUSD(d.ATL), nil
		}},
		{"getPriceChange1h", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatPercent(d.PriceChange1h), nil
		}},
		{"getPriceChange24h", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatPercent(d.PriceChange24h), nil
		}},
		{"getPriceChange7d", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatPercent(d.PriceChange7d), nil
		}},
		{"getPriceChange30d", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatPercent(d.PriceChange30d), nil
		}},
		{"getPriceChange1y", func(token string) (string, error) {
			d, err := snapshot(token)
			if err != nil {
				return "", err
			}
			return formatPercent(d.PriceChange1y), nil
		}},
		{"getPriceHistory", func(token string, fromMs, toMs int64) ([]provider.PricePoint, error) {
			return b.market.MarketHistory(ctx, b.resolver.Resolve(token), fromMs, toMs)
		}},

		// Metadata fields.
		{"getWebsite", func(token string) (string, error) {
			m, err := meta(token)
			if err != nil {
				return "", err
			}
			return stringOrNA(m.Website), nil
		}},
		{"getTwitter", func(token string) (string, error) {
			m, err := meta(token)
			if err != nil {
				return "", err
			}
			return stringOrNA(m.Twitter), nil
		}},
		{"getTelegram", func(token string) (string, error) {
			m, err := meta(token)
			if err != nil {
				return "", err
			}
			return stringOrNA(m.Telegram), nil
		}},
		{"getDiscord", func(token string) (string, error) {
			m, err := meta(token)
			if err != nil {
				return "", err
			}
			return stringOrNA(m.Discord), nil
		}},
		{"getDescription", func(token string) (string, error) {
			m, err := meta(token)
			if err != nil {
				return "", err
			}
			return stringOrNA(m.Description), nil
		}},
		{"getCexs", func(token string) ([]provider.Cex, error) {
			m, err := meta(token)
			if err != nil {
				return nil, err
			}
			return m.Cexs, nil
		}},
		{"getInvestors", func(token string) ([]provider.Investor, error) {
			m, err := meta(token)
			if err != nil {
				return nil, err
			}
			return m.Investors, nil
		}},
		{"getDistribution", func(token string) ([]provider.Allocation, error) {
			m, err := meta(token)
			if err != nil {
				return nil, err
			}
			return m.Distribution, nil
		}},
		{"getReleaseSchedule", func(token string) ([]provider.ReleaseEvent, error) {
			m, err := meta(token)
			if err != nil {
				return nil, err
			}
			return m.ReleaseSchedule, nil
		}},

		// Portfolio.
		{"getWalletSnapshot", func(address string) (*provider.Portfolio, error) {
			return b.market.WalletPortfolio(ctx, address)
		}},
		{"getPortfolioValueHistory", func(addresses []string, window string) ([]provider.ValuePoint, error) {
			ms, err := resolver.WindowMillis(window)
			if err != nil {
				return nil, err
			}
			to := time.Now().UnixMilli()
			return b.market.WalletHistory(ctx, addresses, to-ms, to)
		}},

		// Social and news.
		{"getSocialMetrics", func(token string) (*provider.CoinMetrics, error) {
			return b.social.CoinData(ctx, b.resolver.Resolve(token))
		}},
		{"getNews", func(topic string) (any, error) {
			posts, err := b.social.TopicNews(ctx, topic)
			if err != nil {
				return nil, err
			}
			if len(posts) == 0 {
				return NoData, nil
			}
			return posts, nil
		}},
		{"getPosts", func(topic string) (any, error) {
			posts, err := b.social.TopicPosts(ctx, topic)
			if err != nil {
				return nil, err
			}
			if len(posts) == 0 {
				return NoData, nil
			}
			return posts, nil
		}},

		// Indicator kernel, exposed directly.
		{"calculateSMA", indicator.SimpleMovingAverage},
		{"calculateEMA", indicator.ExponentialMovingAverage},
		{"calculateRSI", indicator.RelativeStrengthIndex},
		{"calculateMACD", indicator.MACD},
		{"calculateVolatility", indicator.Volatility},
		{"calculateMomentum", indicator.Momentum},
		{"calculateRiskAdjustedReturn", indicator.RiskAdjustedReturn},
		{"calculatePriceStability", indicator.PriceStabilityScore},
		{"analyzeTrend", indicator.TrendSignal},
		{"classifyTrend", indicator.TrendClassification},

		// Utilities and constants.
		{"windowMillis", resolver.WindowMillis},
		{"nowMillis", func() int64 { return time.Now().UnixMilli() }},
		{"TIME_WINDOWS", resolver.Windows()},
	}
}

// Names returns the capability names in registry order, for logging and
// for documenting the surface to the upstream model.
func (b *Builder) Names() []string {
	entries := b.Build(context.Background())
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
