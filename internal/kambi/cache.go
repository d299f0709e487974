package kambi

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/metrics"
)

// Source é qualquer fornecedor de lutas e mercados (Client ou CachedSource)
type Source interface {
	ListMatches(ctx context.Context) ([]market.Match, error)
	MatchMarkets(ctx context.Context, matchID int64) ([]market.Market, error)
}

const keyMatches = "kambi:matches"

func keyEvent(matchID int64) string { return "kambi:event:" + strconv.FormatInt(matchID, 10) }

// CachedSource guarda as respostas convertidas no Redis com TTL.
// Erros do Redis nunca bloqueiam a consulta: caem direto para a origem.
type CachedSource struct {
	src     Source
	r       *redis.Client
	ttl     time.Duration
	metrics *metrics.Pipeline
	log     *zap.Logger
}

func NewCachedSource(src Source, r *redis.Client, ttl time.Duration, m *metrics.Pipeline, log *zap.Logger) *CachedSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedSource{src: src, r: r, ttl: ttl, metrics: m, log: log}
}

func (c *CachedSource) ListMatches(ctx context.Context) ([]market.Match, error) {
	var cached []market.Match
	if c.lookup(ctx, "matches", keyMatches, &cached) {
		return cached, nil
	}

	matches, err := c.src.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyMatches, matches)
	return matches, nil
}

func (c *CachedSource) MatchMarkets(ctx context.Context, matchID int64) ([]market.Market, error) {
	key := keyEvent(matchID)

	var cached []market.Market
	if c.lookup(ctx, "odds", key, &cached) {
		return cached, nil
	}

	markets, err := c.src.MatchMarkets(ctx, matchID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, markets)
	return markets, nil
}

func (c *CachedSource) lookup(ctx context.Context, kind, key string, dst any) bool {
	b, err := c.r.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.metrics.CacheLookup(kind, "miss")
		return false
	}
	if err == nil {
		err = json.Unmarshal(b, dst)
	}
	if err != nil {
		c.metrics.CacheLookup(kind, "error")
		c.log.Warn("kambi cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	c.metrics.CacheLookup(kind, "hit")
	return true
}

func (c *CachedSource) store(ctx context.Context, key string, v any) {
	b, _ := json.Marshal(v)
	if err := c.r.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.log.Warn("kambi cache write failed", zap.String("key", key), zap.Error(err))
	}
}
