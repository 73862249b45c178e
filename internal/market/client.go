package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"crmsynth/internal/config"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

const breakerName = "yahoo-chart"

// chartResponse is the subset of the Yahoo Finance v8 chart payload we read.
// Prices are pointers because Yahoo reports holidays and halted sessions as null.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Client downloads daily price history from the Yahoo Finance chart API
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]Quote]
	metrics    *infrastructure.Metrics
	logger     *slog.Logger
}

// NewClient creates a chart API client guarded by a circuit breaker
func NewClient(cfg config.MarketConfig, logger *slog.Logger) *Client {
	logger = infrastructure.WithComponent(logger, "market_client")

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]Quote](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		// Open after three straight transport failures
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return c
}

// WithMetrics attaches fetch counters
func (c *Client) WithMetrics(m *infrastructure.Metrics) *Client {
	c.metrics = m
	return c
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// History returns the daily bars of symbol between from and to, oldest first.
// Bars without a close are dropped and duplicate dates keep the last bar.
func (c *Client) History(ctx context.Context, symbol string, from, to time.Time) ([]Quote, error) {
	// Unknown symbols come back as an empty result, not a failure, so they
	// never count against the breaker.
	quotes, err := c.breaker.Execute(func() ([]Quote, error) {
		return c.fetch(ctx, symbol, from, to)
	})

	c.metrics.RecordMarketFetch(ctx, symbol, err == nil && len(quotes) > 0)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.NewNetworkError("chart API unavailable", err).
				WithContext("symbol", symbol)
		}
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("price history for %s", symbol))
	}
	return quotes, nil
}

func (c *Client) fetch(ctx context.Context, symbol string, from, to time.Time) ([]Quote, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), url.Values{
		"period1":  {fmt.Sprint(from.Unix())},
		"period2":  {fmt.Sprint(to.Unix())},
		"interval": {"1d"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to build chart request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.DebugContext(ctx, "requesting chart", slog.String("symbol", symbol), slog.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("chart request failed", err).WithContext("symbol", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("chart API returned status %d", resp.StatusCode),
			errors.New(strings.TrimSpace(string(body))),
		).WithContext("symbol", symbol).WithContext("status", resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewParsingError("failed to decode chart response", err).WithContext("symbol", symbol)
	}

	return parseChart(payload), nil
}

// parseChart flattens the first chart result into sorted, de-duplicated quotes
func parseChart(payload chartResponse) []Quote {
	if len(payload.Chart.Result) == 0 {
		return nil
	}
	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	q := result.Indicators.Quote[0]

	quotes := make([]Quote, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice, ok := at(q.Close, i)
		if !ok {
			continue
		}
		quote := Quote{
			Date:  dayOf(time.Unix(ts, 0)),
			Close: closePrice,
		}
		quote.Open, _ = at(q.Open, i)
		quote.High, _ = at(q.High, i)
		quote.Low, _ = at(q.Low, i)
		if i < len(q.Volume) && q.Volume[i] != nil {
			quote.Volume = *q.Volume[i]
		}
		quotes = append(quotes, quote)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Date.Before(quotes[j].Date)
	})

	// last bar wins on duplicate dates
	deduped := quotes[:0]
	for _, quote := range quotes {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(quote.Date) {
			deduped[n-1] = quote
			continue
		}
		deduped = append(deduped, quote)
	}
	return deduped
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}
