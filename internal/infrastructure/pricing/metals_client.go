package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zakatledger/backend/internal/domain/shared/valueobject"
	"github.com/zakatledger/backend/internal/domain/zakat"
	"github.com/zakatledger/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the price feed (1MB)
const maxResponseSize = 1 * 1024 * 1024

// Hard fallback prices per troy ounce, used when neither the feed nor the
// cache can produce a quote. Deliberately conservative; thresholds derived
// from them are always flagged stale.
var (
	FallbackGoldPerOunce   = decimal.NewFromInt(2000)
	FallbackSilverPerOunce = decimal.NewFromInt(25)
)

// MetalsClient fetches gold and silver spot prices from an external feed,
// with a Redis cache in front and hard constants behind. Degradation order:
// fresh cache, live feed, last-known cached quote, fallback constants.
type MetalsClient struct {
	cfg        config.PricingConfig
	httpClient *http.Client
	redis      *redis.Client
	logger     *zap.Logger
}

// NewMetalsClient creates a new MetalsClient. The Redis client is optional;
// without it every lookup goes straight to the feed.
func NewMetalsClient(cfg config.PricingConfig, redisClient *redis.Client, logger *zap.Logger) *MetalsClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetalsClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		redis:      redisClient,
		logger:     logger,
	}
}

// feedResponse is the wire format of the price feed.
type feedResponse struct {
	Metal     string          `json:"metal"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Unit      string          `json:"unit"`
	Timestamp time.Time       `json:"timestamp"`
}

// cachedQuote is the Redis representation of a quote.
type cachedQuote struct {
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
	AsOf  time.Time       `json:"as_of"`
}

// CurrentPrice implements zakat.PriceSource.
func (c *MetalsClient) CurrentPrice(ctx context.Context, metal zakat.Metal) (zakat.MetalPrice, error) {
	if quote, ok := c.fromCache(ctx, freshKey(metal)); ok {
		return quote.toPrice(metal), nil
	}

	quote, err := c.fetchLive(ctx, metal)
	if err == nil {
		c.store(ctx, metal, quote)
		return quote.toPrice(metal), nil
	}
	c.logger.Warn("price feed unavailable, degrading",
		zap.String("metal", string(metal)),
		zap.Error(err))

	if quote, ok := c.fromCache(ctx, lastKnownKey(metal)); ok {
		return quote.toPrice(metal), nil
	}

	return c.fallback(metal), nil
}

func (c *MetalsClient) fetchLive(ctx context.Context, metal zakat.Metal) (cachedQuote, error) {
	endpoint := fmt.Sprintf("%s/v1/spot/%s", strings.TrimRight(c.cfg.Endpoint, "/"), strings.ToLower(string(metal)))
	u, err := url.Parse(endpoint)
	if err != nil {
		return cachedQuote{}, fmt.Errorf("invalid price feed endpoint: %w", err)
	}
	if c.cfg.APIKey != "" {
		q := u.Query()
		q.Set("api_key", c.cfg.APIKey)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return cachedQuote{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cachedQuote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cachedQuote{}, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return cachedQuote{}, err
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return cachedQuote{}, fmt.Errorf("malformed price feed response: %w", err)
	}
	if !feed.Price.IsPositive() {
		return cachedQuote{}, fmt.Errorf("price feed returned non-positive price %s", feed.Price)
	}

	unit := zakat.UnitTroyOunce
	if strings.EqualFold(feed.Unit, string(zakat.UnitGram)) || strings.EqualFold(feed.Unit, "g") {
		unit = zakat.UnitGram
	}
	asOf := feed.Timestamp
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return cachedQuote{Price: feed.Price, Unit: string(unit), AsOf: asOf}, nil
}

func (c *MetalsClient) fromCache(ctx context.Context, key string) (cachedQuote, bool) {
	if c.redis == nil {
		return cachedQuote{}, false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return cachedQuote{}, false
	}
	var quote cachedQuote
	if err := json.Unmarshal(raw, &quote); err != nil || !quote.Price.IsPositive() {
		return cachedQuote{}, false
	}
	return quote, true
}

func (c *MetalsClient) store(ctx context.Context, metal zakat.Metal, quote cachedQuote) {
	if c.redis == nil {
		return
	}
	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, freshKey(metal), raw, c.cfg.CacheTTL).Err(); err != nil {
		c.logger.Warn("failed to cache quote", zap.String("metal", string(metal)), zap.Error(err))
	}
	// Last-known quotes outlive the freshness TTL so the engine can degrade
	// to them; the calculator flags anything older than its window as stale.
	if err := c.redis.Set(ctx, lastKnownKey(metal), raw, 0).Err(); err != nil {
		c.logger.Warn("failed to store last-known quote", zap.String("metal", string(metal)), zap.Error(err))
	}
}

func (c *MetalsClient) fallback(metal zakat.Metal) zakat.MetalPrice {
	price := FallbackGoldPerOunce
	if metal == zakat.MetalSilver {
		price = FallbackSilverPerOunce
	}
	c.logger.Warn("using hard fallback price", zap.String("metal", string(metal)))
	return zakat.MetalPrice{
		Metal:        metal,
		PricePerUnit: valueobject.NewMoneyUSD(price),
		Unit:         zakat.UnitTroyOunce,
		AsOf:         time.Now(),
		IsFallback:   true,
	}
}

func (q cachedQuote) toPrice(metal zakat.Metal) zakat.MetalPrice {
	return zakat.MetalPrice{
		Metal:        metal,
		PricePerUnit: valueobject.NewMoneyUSD(q.Price),
		Unit:         zakat.PriceUnit(q.Unit),
		AsOf:         q.AsOf,
	}
}

func freshKey(metal zakat.Metal) string {
	return "pricing:fresh:" + strings.ToLower(string(metal))
}

func lastKnownKey(metal zakat.Metal) string {
	return "pricing:lastknown:" + strings.ToLower(string(metal))
}
