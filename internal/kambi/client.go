package kambi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/damirmikic/ufc-specijal-generator/internal/market"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/config"
	"github.com/damirmikic/ufc-specijal-generator/internal/shared/metrics"
)

// ErrUpstream cobre status não-2xx, falhas de rede e JSON malformado
var ErrUpstream = errors.New("kambi: upstream error")

const listViewPath = "/listView/ufc_mma/ufc/all/all/matches.json"

// Client consulta a offering API da Kambi
type Client struct {
	cfg     config.KambiConfig
	http    *http.Client
	metrics *metrics.Pipeline
	log     *zap.Logger
}

func NewClient(cfg config.KambiConfig, m *metrics.Pipeline, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
		log:     log,
	}
}

// ListMatches busca as lutas de UFC disponíveis
func (c *Client) ListMatches(ctx context.Context) ([]market.Match, error) {
	q := c.baseQuery()
	q.Set("useCombined", "true")
	q.Set("useCombinedLive", "true")

	var resp ListViewResponse
	if err := c.get(ctx, "matches", listViewPath, q, &resp); err != nil {
		return nil, err
	}
	return ToMatches(resp), nil
}

// MatchMarkets busca as betOffers de uma luta
func (c *Client) MatchMarkets(ctx context.Context, matchID int64) ([]market.Market, error) {
	q := c.baseQuery()
	q.Set("includeParticipants", "true")

	var resp BetOfferResponse
	path := "/betoffer/event/" + strconv.FormatInt(matchID, 10) + ".json"
	if err := c.get(ctx, "odds", path, q, &resp); err != nil {
		return nil, err
	}
	return ToMarkets(resp), nil
}

func (c *Client) baseQuery() url.Values {
	q := url.Values{}
	q.Set("channel_id", c.cfg.ChannelID)
	q.Set("client_id", c.cfg.ClientID)
	q.Set("lang", c.cfg.Lang)
	q.Set("market", c.cfg.Market)
	return q
}

func (c *Client) get(ctx context.Context, kind, path string, q url.Values, dst any) error {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(kind, "error", time.Since(start))
		c.log.Warn("kambi request failed", zap.String("kind", kind), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer res.Body.Close()

	status := strconv.Itoa(res.StatusCode)
	c.metrics.ObserveUpstream(kind, status, time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.log.Warn("kambi non-2xx response", zap.String("kind", kind), zap.Int("status", res.StatusCode))
		return fmt.Errorf("%w: status %d", ErrUpstream, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		c.log.Warn("kambi decode failed", zap.String("kind", kind), zap.Error(err))
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, kind, err)
	}
	return nil
}
