package buda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tschirnhausen/desafio-buda/internal/domain"
	"go.uber.org/zap"
)

// Client talks to Buda's public market-data API. Every call is a single
// synchronous round trip: no retries, no caching, no state between calls.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) ListMarkets(ctx context.Context) ([]domain.Market, error) {
	var payload marketsResponse
	if err := c.getJSON(ctx, "markets", &payload); err != nil {
		return nil, err
	}
	if payload.flaggedError() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, payload.Message)
	}
	if payload.Markets == nil {
		return nil, fmt.Errorf("%w: missing markets field", domain.ErrInvalidResponse)
	}

	markets := make([]domain.Market, 0, len(payload.Markets))
	for _, market := range payload.Markets {
		if err := market.validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
		}
		markets = append(markets, market.toDomain())
	}
	return markets, nil
}

func (c *Client) GetTicker(ctx context.Context, currency, market string) (*domain.Ticker, error) {
	endpoint := fmt.Sprintf("markets/%s/ticker", url.PathEscape(currency+"-"+market))

	var payload tickerResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.flaggedError() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, payload.Message)
	}
	if payload.Ticker == nil {
		return nil, fmt.Errorf("%w: missing ticker field", domain.ErrInvalidResponse)
	}
	if err := payload.Ticker.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	ticker := payload.Ticker.toDomain()
	return &ticker, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + "/" + path
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	c.logger.Info("buda request start", zap.String("url", endpoint))
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Error("buda request failed", zap.String("url", endpoint), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrExchangeUnavailable, err)
	}
	defer response.Body.Close()

	c.logger.Info(
		"buda request complete",
		zap.String("url", endpoint),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", domain.ErrExchangeUnavailable, response.StatusCode)
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}
