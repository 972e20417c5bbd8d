package provider

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// MarketData is the snapshot returned by /market/data. Numeric fields are
// pointers so a field the API omitted stays distinguishable from zero.
type MarketData struct {
	Name              string   `json:"name"`
	Symbol            string   `json:"symbol"`
	Price             *float64 `json:"price"`
	Volume            *float64 `json:"volume"`
	MarketCap         *float64 `json:"market_cap"`
	Liquidity         *float64 `json:"liquidity"`
	Rank              *float64 `json:"rank"`
	CirculatingSupply *float64 `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply"`
	MaxSupply         *float64 `json:"max_supply"`
	ATH               *float64 `json:"ath"`
	ATL               *float64 `json:"atl"`
	PriceChange1h     *float64 `json:"price_change_1h"`
	PriceChange24h    *float64 `json:"price_change_24h"`
	PriceChange7d     *float64 `json:"price_change_7d"`
	PriceChange30d    *float64 `json:"price_change_30d"`
	PriceChange1y     *float64 `json:"price_change_1y"`
}

// Metadata is the project-level record returned by /metadata.
type Metadata struct {
	Name            string         `json:"name"`
	Symbol          string         `json:"symbol"`
	Website         *string        `json:"website"`
	Twitter         *string        `json:"twitter"`
	Telegram        *string        `json:"telegram"`
	Discord         *string        `json:"discord"`
	Description     *string        `json:"description"`
	Cexs            []Cex          `json:"cexs"`
	Investors       []Investor     `json:"investors"`
	Distribution    []Allocation   `json:"distribution"`
	ReleaseSchedule []ReleaseEvent `json:"release_schedule"`
}

// Cex is one exchange listing.
type Cex struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// Investor is one investment record.
type Investor struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Lead        bool   `json:"lead"`
	CountryName string `json:"country_name"`
	Description string `json:"description"`
}

// Allocation is one slice of the token distribution.
type Allocation struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// ReleaseEvent is one vesting unlock.
type ReleaseEvent struct {
	UnlockDate     int64              `json:"unlock_date"`
	TokensToUnlock float64            `json:"tokens_to_unlock"`
	AllocationDetails map[string]float64 `json:"allocation_details"`
}

// PricePoint is one sample of a price history.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// ValuePoint is one sample of a portfolio value history.
type ValuePoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Portfolio is the multi-asset snapshot for a single wallet.
type Portfolio struct {
	TotalBalanceUSD float64          `json:"total_wallet_balance"`
	Wallets         []string         `json:"wallets"`
	Assets          []PortfolioAsset `json:"assets"`
}

// PortfolioAsset is one holding inside a Portfolio.
type PortfolioAsset struct {
	Asset            AssetRef `json:"asset"`
	TokenBalance     float64  `json:"token_balance"`
	EstimatedBalance float64  `json:"estimated_balance"`
	Price            float64  `json:"price"`
	Allocation       float64  `json:"allocation"`
	PriceChange24h   *float64 `json:"price_change_24h"`
}

// AssetRef identifies the asset of a holding.
type AssetRef struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Mobula is the market data provider client.
type Mobula struct {
	c *client
}

// NewMobula creates a Mobula client. The API key is sent verbatim in the
// Authorization header.
func NewMobula(apiKey string, opts Options) *Mobula {
	opts.AuthHeader = apiKey
	return &Mobula{c: newClient("mobula", opts)}
}

// MarketData fetches the market snapshot for a canonical asset name.
func (m *Mobula) MarketData(ctx context.Context, asset string) (*MarketData, error) {
	var envelope struct {
		Data MarketData `json:"data"`
	}
	q := url.Values{"asset": {asset}}
	if err := m.c.getJSON(ctx, "/market/data", q, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// Metadata fetches the project metadata for a canonical asset name.
func (m *Mobula) Metadata(ctx context.Context, asset string) (*Metadata, error) {
	var envelope struct {
		Data Metadata `json:"data"`
	}
	q := url.Values{"asset": {asset}}
	if err := m.c.getJSON(ctx, "/metadata", q, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// MarketHistory fetches ordered price/time pairs for [fromMs, toMs].
// The raw payload carries [timestamp, price] arrays.
func (m *Mobula) MarketHistory(ctx context.Context, asset string, fromMs, toMs int64) ([]PricePoint, error) {
	var envelope struct {
		Data struct {
			PriceHistory [][]float64 `json:"price_history"`
		} `json:"data"`
	}
	q := url.Values{
		"asset": {asset},
		"from":  {strconv.FormatInt(fromMs, 10)},
		"to":    {strconv.FormatInt(toMs, 10)},
	}
	if err := m.c.getJSON(ctx, "/market/history", q, &envelope); err != nil {
		return nil, err
	}
	points := make([]PricePoint, 0, len(envelope.Data.PriceHistory))
	for _, pair := range envelope.Data.PriceHistory {
		if len(pair) < 2 {
			continue
		}
		points = append(points, PricePoint{Timestamp: int64(pair[0]), Price: pair[1]})
	}
	return points, nil
}

// WalletPortfolio fetches the current multi-asset snapshot for a wallet.
func (m *Mobula) WalletPortfolio(ctx context.Context, wallet string) (*Portfolio, error) {
	var envelope struct {
		Data Portfolio `json:"data"`
	}
	q := url.Values{"wallet": {wallet}}
	if err := m.c.getJSON(ctx, "/wallet/portfolio", q, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// WalletHistory fetches the combined balance history for one or more
// wallets over [fromMs, toMs].
func (m *Mobula) WalletHistory(ctx context.Context, wallets []string, fromMs, toMs int64) ([]ValuePoint, error) {
	var envelope struct {
		Data struct {
			BalanceHistory [][]float64 `json:"balance_history"`
		} `json:"data"`
	}
	q := url.Values{
		"wallets": {strings.Join(wallets, ",")},
		"from":    {strconv.FormatInt(fromMs, 10)},
		"to":      {strconv.FormatInt(toMs, 10)},
	}
	if err := m.c.getJSON(ctx, "/wallet/history", q, &envelope); err != nil {
		return nil, err
	}
	points := make([]ValuePoint, 0, len(envelope.Data.BalanceHistory))
	for _, pair := range envelope.Data.BalanceHistory {
		if len(pair) < 2 {
			continue
		}
		points = append(points, ValuePoint{Timestamp: int64(pair[0]), Value: pair[1]})
	}
	return points, nil
}
