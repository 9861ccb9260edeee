package data

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"uptime-optimizer/internal/logger"
	"uptime-optimizer/internal/model"
)

// DefaultGridStatusURL is used when no base URL is configured.
const DefaultGridStatusURL = "https://api.gridstatus.io"

// GridStatusClient fetches historical prices from the Grid Status API.
// DatasetID and LocationID select the series served by FetchHourly.
type GridStatusClient struct {
	APIKey     string
	DatasetID  string
	LocationID string

	http  *resty.Client
	cache *ResponseCache
	log   logger.Logger
}

// Option customizes a GridStatusClient.
type Option func(*GridStatusClient)

// WithCache enables response caching.
func WithCache(c *ResponseCache) Option {
	return func(g *GridStatusClient) { g.cache = c }
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(g *GridStatusClient) { g.log = l }
}

// WithSeries selects the dataset and location used by FetchHourly.
func WithSeries(datasetID, locationID string) Option {
	return func(g *GridStatusClient) {
		g.DatasetID = datasetID
		g.LocationID = locationID
	}
}

// NewGridStatusClient creates a new Grid Status API client.
// If baseURL is empty, DefaultGridStatusURL is used.
func NewGridStatusClient(apiKey, baseURL string, opts ...Option) *GridStatusClient {
	if baseURL == "" {
		baseURL = DefaultGridStatusURL
	}
	c := &GridStatusClient{
		APIKey: apiKey,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json"),
		log: logger.NopLogger{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// QueryLocationParams defines parameters for querying location data.
type QueryLocationParams struct {
	DatasetID  string    // e.g. "ercot_spp_hourly" or "aeso_pool_price"
	LocationID string    // node or zone
	StartTime  time.Time // start of time range
	EndTime    time.Time // end of time range
	Timezone   string    // "market" (default) or "UTC"
}

// GridStatusError represents an error from the Grid Status API.
type GridStatusError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *GridStatusError) Error() string {
	return e.Message
}

// QueryLocation fetches price intervals for one location.
func (c *GridStatusClient) QueryLocation(ctx context.Context, params QueryLocationParams) (*model.GridStatusLMPResponse, error) {
	if err := c.validateAPIKey(); err != nil {
		return nil, err
	}
	if params.DatasetID == "" {
		return nil, fmt.Errorf("dataset_id is required")
	}
	if params.LocationID == "" {
		return nil, fmt.Errorf("location_id is required")
	}
	if params.StartTime.IsZero() || params.EndTime.IsZero() {
		return nil, fmt.Errorf("start_time and end_time are required")
	}
	if params.StartTime.After(params.EndTime) {
		return nil, fmt.Errorf("start_time must be before end_time")
	}
	if params.Timezone == "" {
		params.Timezone = "market"
	}

	key := GenerateCacheKey(params)
	if cached, found := c.cache.Get(key); found {
		c.log.Debugf("gridstatus cache hit: %d intervals (dataset=%s, location=%s)",
			len(cached.Data), params.DatasetID, params.LocationID)
		return cached, nil
	}

	var result model.GridStatusLMPResponse
	started := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.APIKey).
		SetPathParams(map[string]string{
			"dataset":  params.DatasetID,
			"location": params.LocationID,
		}).
		SetQueryParams(map[string]string{
			"start_time": params.StartTime.Format("2006-01-02"),
			"end_time":   params.EndTime.Format("2006-01-02"),
			"timezone":   params.Timezone,
			"download":   "true",
		}).
		SetResult(&result).
		Get("/v1/datasets/{dataset}/query/location/{location}")
	if err != nil {
		c.log.Errorf("gridstatus request failed: %v (duration=%v)", err, time.Since(started))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	c.log.Infof("gridstatus response: %d (duration=%v, dataset=%s, location=%s)",
		resp.StatusCode(), time.Since(started), params.DatasetID, params.LocationID)

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode(),
			Code:       "INVALID_API_KEY",
			Message:    "Invalid API key or insufficient permissions",
		}
	case http.StatusUnauthorized:
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode(),
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: Invalid API key",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header().Get("Retry-After")
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode(),
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return nil, &GridStatusError{
			StatusCode: resp.StatusCode(),
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode(), resp.Status()),
		}
	}

	c.cache.Set(key, &result)
	return &result, nil
}

// FetchHourly implements PriceSource. Sub-hourly intervals are averaged into
// hours; every failure is reported as an ExternalDependencyError.
func (c *GridStatusClient) FetchHourly(ctx context.Context, w model.Window) ([]model.PricePoint, error) {
	resp, err := c.QueryLocation(ctx, QueryLocationParams{
		DatasetID:  c.DatasetID,
		LocationID: c.LocationID,
		StartTime:  w.Start,
		EndTime:    w.End,
	})
	if err != nil {
		return nil, &model.ExternalDependencyError{Service: "price source", Err: err}
	}
	return HourlyFromIntervals(resp.Data), nil
}

// validateAPIKey rejects keys that are missing or obviously invalid.
func (c *GridStatusClient) validateAPIKey() error {
	if c.APIKey == "" {
		return &GridStatusError{
			Code:    "MISSING_API_KEY",
			Message: "API key is required",
		}
	}
	if len(c.APIKey) < 10 {
		return &GridStatusError{
			Code:    "INVALID_API_KEY_FORMAT",
			Message: "API key appears to be invalid (too short)",
		}
	}
	return nil
}
