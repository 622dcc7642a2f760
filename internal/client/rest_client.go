package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"futures-review/internal/analysis"
	"futures-review/internal/config"
	"futures-review/internal/errors"
	"futures-review/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxRetries = 3

// RestClient talks to a running journal API server. Its methods mirror the
// store so either can back the CLI.
type RestClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
	backoff time.Duration
}

// NewRestClient creates a new journal API client.
func NewRestClient(cfg *config.Client, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &RestClient{
		client:  client,
		logger:  logger.Named("api-client"),
		limiter: rate.NewLimiter(limit, burst),
		backoff: time.Second,
	}
}

// errorBody mirrors the server's error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

// doRequest executes req with rate limiting. Only idempotent requests are
// retried, on 429, 5xx or transport errors, with exponential backoff.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	attempts := 1
	if method == http.MethodGet {
		attempts = maxRetries
	}

	for i := 0; i < attempts; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.SetContext(ctx).Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration
		if err != nil {
			shouldRetry = true
		} else {
			status := resp.StatusCode()
			if status == http.StatusTooManyRequests || status >= 500 {
				shouldRetry = true
				if seconds, perr := strconv.Atoi(resp.Header().Get("Retry-After")); perr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			}
		}

		if !shouldRetry || i == attempts-1 {
			break
		}

		if retryAfter == 0 {
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.backoff
		}
		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, errors.NewStorageError(method+" "+url, fmt.Errorf("request failed: %w", err))
	}
	return nil, responseError(method+" "+url, resp)
}

// responseError turns a failed response back into the journal's error kinds.
func responseError(op string, resp *resty.Response) error {
	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)
	if body.Error == "" {
		body.Error = resp.String()
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return &errors.ValidationError{Field: body.Field, Message: body.Error}
	case http.StatusNotFound:
		return errors.NewStorageError(op, errors.ErrTradeNotFound)
	default:
		return errors.NewStorageError(op, fmt.Errorf("request failed with status %s: %s", resp.Status(), body.Error))
	}
}

// Insert records a trade on the server. It is never retried.
func (c *RestClient) Insert(ctx context.Context, in models.TradeInput) (models.InsertResult, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(&models.InsertResult{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/trades", req)
	if err != nil {
		c.logger.Error("Failed to record trade", zap.String("symbol", in.Symbol), zap.Error(err))
		return models.InsertResult{}, fmt.Errorf("failed to record trade: %w", err)
	}

	result := resp.Result().(*models.InsertResult)
	c.logger.Info("Trade recorded", zap.Int64("id", result.ID), zap.Float64("profit_loss", result.ProfitLoss))
	return *result, nil
}

// Get fetches one trade by id.
func (c *RestClient) Get(ctx context.Context, id int64) (models.TradeRecord, error) {
	req := c.client.R().
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&models.TradeRecord{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/trades/{id}", req)
	if err != nil {
		return models.TradeRecord{}, fmt.Errorf("failed to get trade %d: %w", id, err)
	}
	return *resp.Result().(*models.TradeRecord), nil
}

// ListAll fetches every trade ordered by id.
func (c *RestClient) ListAll(ctx context.Context) ([]models.TradeRecord, error) {
	var trades []models.TradeRecord
	req := c.client.R().SetResult(&trades)

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return *resp.Result().(*[]models.TradeRecord), nil
}

// ListBySymbol fetches the trades of one symbol.
func (c *RestClient) ListBySymbol(ctx context.Context, symbol string) ([]models.TradeRecord, error) {
	var trades []models.TradeRecord
	req := c.client.R().
		SetQueryParam("symbol", symbol).
		SetResult(&trades)

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades for %s: %w", symbol, err)
	}
	return *resp.Result().(*[]models.TradeRecord), nil
}

// DistinctSymbols fetches the sorted symbol list.
func (c *RestClient) DistinctSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	req := c.client.R().SetResult(&symbols)

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/symbols", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get symbols: %w", err)
	}
	return *resp.Result().(*[]string), nil
}

// Count fetches the number of stored trades.
func (c *RestClient) Count(ctx context.Context) (int64, error) {
	type statusResponse struct {
		Trades int64 `json:"trades"`
	}

	req := c.client.R().SetResult(&statusResponse{})
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/status", req)
	if err != nil {
		return 0, fmt.Errorf("failed to get status: %w", err)
	}
	return resp.Result().(*statusResponse).Trades, nil
}

// Summary fetches the per-symbol and overall summaries.
func (c *RestClient) Summary(ctx context.Context, sorted bool) (analysis.Report, error) {
	req := c.client.R().
		SetQueryParam("sorted", strconv.FormatBool(sorted)).
		SetResult(&analysis.Report{})

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/summary", req)
	if err != nil {
		return analysis.Report{}, fmt.Errorf("failed to get summary: %w", err)
	}
	return *resp.Result().(*analysis.Report), nil
}
