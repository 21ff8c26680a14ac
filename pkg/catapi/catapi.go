package catapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CatAPI is the breed registry consumed when a cat is recruited.
type CatAPI interface {
	ListBreeds(ctx context.Context) ([]Breed, error)
}

type Breed struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Origin string `json:"origin,omitempty"`
}

type CatAPIClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

type Option func(*CatAPIClient)

// WithAPIKey sends the key in the x-api-key header thecatapi.com expects.
func WithAPIKey(key string) Option {
	return func(c *CatAPIClient) { c.apiKey = key }
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *CatAPIClient) { c.httpClient = client }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *CatAPIClient) { c.logger = logger }
}

func NewCatAPIClient(url string, maxRetries int, retryDelay time.Duration, timeout time.Duration, opts ...Option) *CatAPIClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	c := &CatAPIClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListBreeds fetches the current breed list. Every call goes to the registry.
func (c *CatAPIClient) ListBreeds(ctx context.Context) ([]Breed, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}

		breeds, err := c.makeGetAllBreedsRequest(ctx)
		if err == nil {
			return breeds, nil
		}

		lastErr = err

		if httpErr, ok := err.(*HTTPError); ok {
			if !c.isRetryableError(nil, httpErr.StatusCode) {
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		if attempt < c.maxRetries {
			c.logger.Warn("breed registry request failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
		}
	}

	return nil, fmt.Errorf("failed after %d attempts, last error: %w", c.maxRetries+1, lastErr)
}

func (c *CatAPIClient) makeGetAllBreedsRequest(ctx context.Context) ([]Breed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to the api failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &HTTPError{
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", response.StatusCode),
		}
	}

	var breeds []Breed
	if err := json.NewDecoder(response.Body).Decode(&breeds); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return breeds, nil
}

func (c *CatAPIClient) isRetryableError(err error, statusCode int) bool {
	if err != nil {
		return true // Network errors are retryable
	}

	return statusCode >= 500 || statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests
}

// HasBreed reports whether name matches a breed name, ignoring case.
func HasBreed(breeds []Breed, name string) bool {
	name = strings.TrimSpace(name)
	for _, breed := range breeds {
		if strings.EqualFold(breed.Name, name) {
			return true
		}
	}
	return false
}
