package provider

import (
	"context"
	"net/url"
	"strings"
)

// CoinMetrics is the social snapshot returned by /coins/{coin}/v1.
type CoinMetrics struct {
	Name            string   `json:"name"`
	Symbol          string   `json:"symbol"`
	GalaxyScore     *float64 `json:"galaxy_score"`
	AltRank         *float64 `json:"alt_rank"`
	Sentiment       *float64 `json:"sentiment"`
	Interactions24h *float64 `json:"interactions_24h"`
	NumPosts        *float64 `json:"num_posts"`
	SocialVolume24h *float64 `json:"social_volume_24h"`
	SocialDominance *float64 `json:"social_dominance"`
}

// Post is one news article or social post attached to a topic.
type Post struct {
	ID            string   `json:"id"`
	Type          string   `json:"post_type"`
	Title         string   `json:"post_title"`
	Link          string   `json:"post_link"`
	Created       int64    `json:"post_created"`
	Sentiment     *float64 `json:"post_sentiment"`
	CreatorName   string   `json:"creator_name"`
	Interactions  *float64 `json:"interactions_24h"`
}

// LunarCrush is the social and news provider client.
type LunarCrush struct {
	c *client
}

// NewLunarCrush creates a LunarCrush client. The API key is sent as a
// bearer token.
func NewLunarCrush(apiKey string, opts Options) *LunarCrush {
	opts.AuthHeader = "Bearer " + apiKey
	return &LunarCrush{c: newClient("lunarcrush", opts)}
}

// topicPath normalizes a topic for use as a path segment.
func topicPath(topic string) string {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "-")
	return url.PathEscape(normalized)
}

// CoinData fetches the social metrics snapshot for a coin.
func (l *LunarCrush) CoinData(ctx context.Context, coin string) (*CoinMetrics, error) {
	var envelope struct {
		Data CoinMetrics `json:"data"`
	}
	endpoint := "/coins/" + url.PathEscape(coin) + "/v1"
	if err := l.c.getJSON(ctx, endpoint, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// TopicNews fetches recent news articles for a topic.
func (l *LunarCrush) TopicNews(ctx context.Context, topic string) ([]Post, error) {
	var envelope struct {
		Data []Post `json:"data"`
	}
	endpoint := "/topic/" + topicPath(topic) + "/news/v1"
	if err := l.c.getJSON(ctx, endpoint, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// TopicPosts fetches recent social posts for a topic.
func (l *LunarCrush) TopicPosts(ctx context.Context, topic string) ([]Post, error) {
	var envelope struct {
		Data []Post `json:"data"`
	}
	endpoint := "/topic/" + topicPath(topic) + "/posts/v1"
	if err := l.c.getJSON(ctx, endpoint, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}
