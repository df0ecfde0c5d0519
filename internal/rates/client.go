// Package rates fetches the CBR USD/RUB rate published by MOEX ISS.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/camuig/trade-quest/internal/logger"
)

// CacheTTL bounds how long a fetched rate is reused.
const CacheTTL = time.Hour

const usdColumn = "CBRF_USD_LAST"

var ErrRateUnavailable = errors.New("exchange rate unavailable")

type Client struct {
	httpClient *http.Client
	url        string
	logger     *logger.Logger

	mu        sync.Mutex
	cached    float64
	fetchedAt time.Time
	now       func() time.Time
}

func NewClient(url string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     log,
		now:        time.Now,
	}
}

type issBlock struct {
	Columns []string        `json:"columns"`
	Data    [][]interface{} `json:"data"`
}

type issResponse struct {
	CBRF issBlock `json:"cbrf"`
}

// USDRate returns the latest CBR USD/RUB rate, served from cache within CacheTTL.
func (c *Client) USDRate(ctx context.Context) (float64, error) {
	c.mu.Lock()
	if c.cached > 0 && c.now().Sub(c.fetchedAt) < CacheTTL {
		rate := c.cached
		c.mu.Unlock()
		return rate, nil
	}
	c.mu.Unlock()

	rate, err := c.fetch(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.cached = rate
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug("fetched exchange rate", "usd_rub", rate)
	return rate, nil
}

// RateOr returns the live rate, or def when it cannot be fetched.
func (c *Client) RateOr(ctx context.Context, def float64) float64 {
	rate, err := c.USDRate(ctx)
	if err != nil {
		c.logger.Warn("using default exchange rate", "error", err, "rate", def)
		return def
	}
	return rate
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("MOEX ISS returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}

	var iss issResponse
	if err := json.Unmarshal(body, &iss); err != nil {
		return 0, fmt.Errorf("parse ISS response: %w", err)
	}

	col := -1
	for i, name := range iss.CBRF.Columns {
		if name == usdColumn {
			col = i
			break
		}
	}
	if col < 0 || len(iss.CBRF.Data) == 0 || len(iss.CBRF.Data[0]) <= col {
		return 0, fmt.Errorf("%w: %s missing", ErrRateUnavailable, usdColumn)
	}

	rate := toFloat64(iss.CBRF.Data[0][col])
	if rate <= 0 {
		return 0, fmt.Errorf("%w: %s is %v", ErrRateUnavailable, usdColumn, iss.CBRF.Data[0][col])
	}
	return rate, nil
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}
