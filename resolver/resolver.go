package resolver

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultTokens maps symbols and display names to the canonical asset
// identifier the providers understand. Keys are matched
// case-insensitively.
var defaultTokens = map[string]string{
	"btc":       "bitcoin",
	"bitcoin":   "bitcoin",
	"eth":       "ethereum",
	"ethereum":  "ethereum",
	"sol":       "solana",
	"solana":    "solana",
	"bnb":       "bnb",
	"xrp":       "xrp",
	"ripple":    "xrp",
	"ada":       "cardano",
	"cardano":   "cardano",
	"doge":      "dogecoin",
	"dogecoin":  "dogecoin",
	"avax":      "avalanche",
	"avalanche": "avalanche",
	"dot":       "polkadot",
	"polkadot":  "polkadot",
	"link":      "chainlink",
	"chainlink": "chainlink",
	"matic":     "polygon",
	"polygon":   "polygon",
	"ltc":       "litecoin",
	"litecoin":  "litecoin",
	"uni":       "uniswap",
	"uniswap":   "uniswap",
	"atom":      "cosmos",
	"cosmos":    "cosmos",
	"arb":       "arbitrum",
	"arbitrum":  "arbitrum",
	"op":        "optimism",
	"optimism":  "optimism",
	"inj":       "injective",
	"injective": "injective",
	"stx":       "stacks",
	"stacks":    "stacks",
	"near":      "near",
	"apt":       "aptos",
	"aptos":     "aptos",
}

// Window durations in milliseconds.
const (
	WindowDay   int64 = 86_400_000
	WindowWeek  int64 = 604_800_000
	WindowMonth int64 = 2_592_000_000
	WindowYear  int64 = 31_536_000_000
)

var windows = map[string]int64{
	"1d":  WindowDay,
	"7d":  WindowWeek,
	"30d": WindowMonth,
	"1y":  WindowYear,
}

// Resolver holds the immutable token table.
type Resolver struct {
	tokens map[string]string
}

// New builds a resolver from the compiled-in default table merged with
// extra entries. Extra entries win on conflict. Keys are lowercased.
func New(extra map[string]string) *Resolver {
	tokens := make(map[string]string, len(defaultTokens)+len(extra))
	for k, v := range defaultTokens {
		tokens[strings.ToLower(k)] = v
	}
	for k, v := range extra {
		tokens[strings.ToLower(k)] = strings.ToLower(v)
	}
	return &Resolver{tokens: tokens}
}

// NewFromFile builds a resolver whose extra entries come from a YAML file
// of the form {tokens: {SYMBOL: canonical-id, ...}}. An empty path means
// defaults only.
func NewFromFile(path string) (*Resolver, error) {
	if path == "" {
		return New(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading token table %s: %w", path, err)
	}
	var doc struct {
		Tokens map[string]string `yaml:"tokens"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing token table %s: %w", path, err)
	}
	return New(doc.Tokens), nil
}

// Resolve maps a symbol or display name to its canonical identifier.
// Unknown names pass through lowercased: both providers accept raw
// symbols and asset names, so an absent table entry is not an error.
func (r *Resolver) Resolve(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.tokens[key]; ok {
		return canonical
	}
	return key
}

// Known reports whether the name has an explicit table entry.
func (r *Resolver) Known(name string) bool {
	_, ok := r.tokens[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// WindowMillis translates a named window ("1d", "7d", "30d", "1y") into
// milliseconds. Unrecognized names are a caller error.
func WindowMillis(name string) (int64, error) {
	ms, ok := windows[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unrecognized window %q, must be one of: 1d, 7d, 30d, 1y", name)
	}
	return ms, nil
}

// Windows returns a copy of the named window table, for exposing as a
// constant inside executions.
func Windows() map[string]int64 {
	out := make(map[string]int64, len(windows))
	for k, v := range windows {
		out[k] = v
	}
	return out
}
