package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"etfTracker/internal/ports"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// Client implements ports.QuoteProvider against a Yahoo-chart-shaped HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  ports.Logger
}

// Config holds configuration for the quote client.
type Config struct {
	BaseURL string        // Defaults to the public chart API host
	Timeout time.Duration // HTTP timeout, defaults to 8s
	Logger  ports.Logger
}

// New creates a quote client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for quote client")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  cfg.Logger,
	}, nil
}

// chartResponse mirrors the subset of the chart API payload we consume.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice  float64 `json:"regularMarketPrice"`
				ChartPreviousClose  float64 `json:"chartPreviousClose"`
				RegularMarketTime   int64   `json:"regularMarketTime"`
				FiftyTwoWeekHigh    float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow     float64 `json:"fiftyTwoWeekLow"`
				RegularMarketVolume int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

func (c *Client) fetchChart(ctx context.Context, symbol, interval, rng string) (*chartResponse, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart request for %s: %w", symbol, err)
	}
	req.Header.Set("User-Agent", "etf-tracker/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s failed: %w: %v", symbol, ports.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ports.ErrQuoteNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned HTTP %d: %w", symbol, resp.StatusCode, ports.ErrProviderUnavailable)
	}

	var raw chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode chart response for %s: %w", symbol, err)
	}
	if len(raw.Chart.Result) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ports.ErrQuoteNotFound)
	}
	return &raw, nil
}

// GetQuote retrieves the current quote for a provider symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*ports.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", ports.ErrQuoteNotFound)
	}

	raw, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}
	meta := raw.Chart.Result[0].Meta

	price := meta.RegularMarketPrice
	// Fallback: last non-zero close when the meta price is missing.
	if price <= 0 {
		result := raw.Chart.Result[0]
		if len(result.Indicators.Quote) > 0 {
			closes := result.Indicators.Quote[0].Close
			for i := len(closes) - 1; i >= 0; i-- {
				if closes[i] > 0 {
					price = closes[i]
					break
				}
			}
		}
	}
	if price <= 0 {
		return nil, fmt.Errorf("symbol %s has no usable price: %w", symbol, ports.ErrQuoteNotFound)
	}

	changePercent := 0.0
	if meta.ChartPreviousClose > 0 {
		changePercent = (price - meta.ChartPreviousClose) / meta.ChartPreviousClose * 100
	}

	quote := &ports.Quote{
		Symbol:        symbol,
		Price:         price,
		PrevClose:     meta.ChartPreviousClose,
		Volume:        meta.RegularMarketVolume,
		High52:        meta.FiftyTwoWeekHigh,
		Low52:         meta.FiftyTwoWeekLow,
		ChangePercent: changePercent,
	}
	c.logger.Debug(ctx, "Quote fetched", map[string]interface{}{"symbol": symbol, "price": price})
	return quote, nil
}

// GetDailyCloses retrieves up to limit historical daily closes, most recent
// last. Zero-valued closes (market holidays in the feed) are skipped.
func (c *Client) GetDailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", ports.ErrQuoteNotFound)
	}
	if limit <= 0 {
		return []float64{}, nil
	}

	raw, err := c.fetchChart(ctx, symbol, "1d", "3mo")
	if err != nil {
		return nil, err
	}
	result := raw.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []float64{}, nil
	}

	closes := make([]float64, 0, limit)
	for _, v := range result.Indicators.Quote[0].Close {
		if v > 0 {
			closes = append(closes, v)
		}
	}
	if len(closes) > limit {
		closes = closes[len(closes)-limit:]
	}
	c.logger.Debug(ctx, "Daily closes fetched", map[string]interface{}{"symbol": symbol, "count": len(closes)})
	return closes, nil
}
