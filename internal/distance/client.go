package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quoteflow_backend/platform/config"
	"quoteflow_backend/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Lookup is the distance collaborator contract: the road distance in miles
// between two addresses.
type Lookup interface {
	DistanceMiles(ctx context.Context, businessAddress, customerAddress string) (float64, error)
}

// Client calls the external distance API. Identical in-flight lookups are
// collapsed through singleflight, outbound calls are rate limited, and
// results are cached in Redis keyed by the normalized address pair so that
// address-field debouncing in the UI doesn't hammer the collaborator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	group      singleflight.Group
	cache      *redis.Client
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewClient creates a distance API client. The cache may be nil, in which
// case every lookup goes to the collaborator.
func NewClient(cfg config.DistanceAPIConfig, cache *redis.Client, log *logger.Logger) *Client {
	rps := cfg.GetDistanceLookupRPS()
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetDistanceAPITimeout()},
		baseURL:    strings.TrimRight(cfg.GetDistanceAPIURL(), "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		cache:      cache,
		cacheTTL:   cfg.GetDistanceCacheTTL(),
		log:        log,
	}
}

// DistanceMiles resolves the distance for an address pair, preferring the
// cache over the network.
func (c *Client) DistanceMiles(ctx context.Context, businessAddress, customerAddress string) (float64, error) {
	key := cacheKey(businessAddress, customerAddress)

	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key).Result(); err == nil {
			if miles, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
				return miles, nil
			}
		}
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, businessAddress, customerAddress, key)
	})
	if err != nil {
		return 0, err
	}
	return value.(float64), nil
}

func (c *Client) fetch(ctx context.Context, businessAddress, customerAddress, key string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	body, err := json.Marshal(lookupRequest{
		BusinessAddress: businessAddress,
		CustomerAddress: customerAddress,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/distance", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("distance api error: %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, strconv.FormatFloat(payload.DistanceMiles, 'f', -1, 64), c.cacheTTL).Err(); err != nil {
			c.log.Warn("distance cache write failed", "error", err)
		}
	}

	return payload.DistanceMiles, nil
}

func cacheKey(businessAddress, customerAddress string) string {
	normalize := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return "distance:" + normalize(businessAddress) + "|" + normalize(customerAddress)
}
