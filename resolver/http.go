package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/dto"
)

const (
	didsPath          = "/api/v1/dids/"
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 3
)

// HTTPResolver resolves DIDs through a running sandbox server.
type HTTPResolver struct {
	baseURL    string
	client     *http.Client
	maxRetries uint64
}

// HTTPOption configures an HTTPResolver.
type HTTPOption func(*HTTPResolver)

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPResolver) {
		r.client = c
	}
}

// WithMaxRetries bounds retries of transport errors and 5xx responses.
func WithMaxRetries(n uint64) HTTPOption {
	return func(r *HTTPResolver) {
		r.maxRetries = n
	}
}

func NewHTTPResolver(baseURL string, opts ...HTTPOption) *HTTPResolver {
	r := &HTTPResolver{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTTPResolver) Resolve(ctx context.Context, d string) (*did.Document, error) {
	apiURL := r.baseURL + didsPath + url.PathEscape(d)

	var doc *did.Document
	op := func() error {
		var err error
		doc, err = r.fetch(ctx, apiURL)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("resolve %q: %w", d, err)
	}
	return doc, nil
}

func (r *HTTPResolver) fetch(ctx context.Context, apiURL string) (*did.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to DID resolver: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from DID resolver: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("DID resolver returned status: %s", resp.Status)
	default:
		return nil, backoff.Permanent(responseError(resp.Status, body))
	}

	var doc did.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to unmarshal DID document JSON: %w", err))
	}
	return &doc, nil
}

func responseError(status string, body []byte) error {
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Code == "" {
		return fmt.Errorf("DID resolver returned status: %s", status)
	}
	if errResp.Code == dto.CodeUnsupportedMethod {
		return did.ErrUnsupportedMethod
	}
	return fmt.Errorf("DID resolver returned %s: %s", errResp.Code, errResp.Message)
}
