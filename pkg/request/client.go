// Package request implements the pipeline's outbound HTTP client: a
// per-provider serialized queue (so calls to the same domain never overlap),
// fixed-delay retry on transient failures, and inter-call rate-limiting
// jitter between consecutive calls to one provider.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aurel42/zonepoi/pkg/tracker"
	"github.com/aurel42/zonepoi/pkg/version"
)

var defaultUserAgent = fmt.Sprintf("ZonePOI/%s (+https://github.com/aurel42/zonepoi)", version.Version)

// ClientConfig controls the client's timeout, retry and rate-limiting
// behavior. A zero value is not usable directly; callers should start from
// DefaultClientConfig.
type ClientConfig struct {
	Timeout         time.Duration // per-call timeout for most providers (10s)
	GeocoderTimeout time.Duration // per-call timeout for the reverse-geocoder only (3s)
	Retries         int           // max attempts on a retryable failure (<=3)
	BackoffDelay    time.Duration // fixed delay between retry attempts (2s)
	InterCallMinGap time.Duration // lower bound of inter-call jitter (0.3s)
	InterCallMaxGap time.Duration // upper bound of inter-call jitter (1.0s)
}

// DefaultClientConfig returns the spec's default timing contract.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:         10 * time.Second,
		GeocoderTimeout: 3 * time.Second,
		Retries:         3,
		BackoffDelay:    2 * time.Second,
		InterCallMinGap: 300 * time.Millisecond,
		InterCallMaxGap: 1000 * time.Millisecond,
	}
}

// Client handles HTTP requests with per-provider queuing, fixed retry
// backoff, and rate-limiting.
type Client struct {
	httpClient *http.Client
	tracker    *tracker.Tracker
	backoff    *ProviderBackoff
	cfg        ClientConfig

	queues map[string]chan job
	mu     sync.Mutex
}

type job struct {
	req      *http.Request
	headers  map[string]string
	timeout  time.Duration
	respChan chan jobResult
}

type jobResult struct {
	body []byte
	err  error
}

// New creates a Client. t may be nil, in which case stats are not tracked.
func New(t *tracker.Tracker, cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg = DefaultClientConfig()
	}
	return &Client{
		httpClient: &http.Client{},
		tracker:    t,
		backoff:    NewProviderBackoff(cfg.BackoffDelay, 30*time.Second),
		cfg:        cfg,
		queues:     make(map[string]chan job),
	}
}

// Get performs a GET request using the default per-call timeout.
func (c *Client) Get(ctx context.Context, u string) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil, c.cfg.Timeout)
}

// GetWithTimeout performs a GET request with an overridden per-call timeout,
// used for the reverse-geocoder's shorter 3s budget.
func (c *Client) GetWithTimeout(ctx context.Context, u string, timeout time.Duration) ([]byte, error) {
	return c.GetWithHeaders(ctx, u, nil, timeout)
}

// GetWithHeaders performs a GET request with custom headers.
func (c *Client) GetWithHeaders(ctx context.Context, u string, headers map[string]string, timeout time.Duration) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	return c.do(req, headers, timeout)
}

// Post performs a POST request using the default per-call timeout.
func (c *Client) Post(ctx context.Context, u string, body []byte, contentType string) ([]byte, error) {
	return c.PostWithHeaders(ctx, u, body, map[string]string{"Content-Type": contentType})
}

// PostWithHeaders performs a POST request with custom headers.
func (c *Client) PostWithHeaders(ctx context.Context, u string, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	return c.do(req, headers, c.cfg.Timeout)
}

func (c *Client) do(req *http.Request, headers map[string]string, timeout time.Duration) ([]byte, error) {
	provider := normalizeProvider(req.URL.Host)

	respChan := make(chan jobResult, 1)
	j := job{req: req, headers: headers, timeout: timeout, respChan: respChan}
	c.dispatch(provider, j)

	select {
	case <-req.Context().Done():
		return nil, req.Context().Err()
	case res := <-respChan:
		return res.body, res.err
	}
}

func normalizeProvider(host string) string {
	switch {
	case strings.HasSuffix(host, ".wikidata.org") || host == "wikidata.org":
		return "wikidata"
	case strings.HasSuffix(host, ".wikipedia.org") || host == "wikipedia.org":
		return "wikipedia"
	case strings.HasSuffix(host, "dbpedia.org"):
		return "dbpedia"
	case strings.HasSuffix(host, "overpass-api.de") || strings.HasSuffix(host, "overpass.kumi.systems"):
		return "overpass"
	case strings.HasSuffix(host, "nominatim.openstreetmap.org"):
		return "nominatim"
	case strings.HasSuffix(host, "googleapis.com"):
		return "gemini"
	default:
		return host
	}
}

// dispatch sends the job to the provider's queue, creating the queue/worker
// the first time a provider is seen.
func (c *Client) dispatch(provider string, j job) {
	c.mu.Lock()
	q, ok := c.queues[provider]
	if !ok {
		q = make(chan job, 100)
		c.queues[provider] = q
		go c.worker(provider, q)
	}
	c.mu.Unlock()

	select {
	case q <- j:
	case <-j.req.Context().Done():
		j.respChan <- jobResult{err: j.req.Context().Err()}
	}
}

// worker processes jobs for a single provider sequentially, spacing
// consecutive calls by a random 0.3-1.0s jitter so the pipeline never
// hammers one origin.
func (c *Client) worker(provider string, q <-chan job) {
	for j := range q {
		if j.req.Context().Err() != nil {
			j.respChan <- jobResult{err: j.req.Context().Err()}
			continue
		}

		c.backoff.Wait(provider)

		body, err := c.executeWithRetry(j.req, j.headers, j.timeout, provider)
		if err == nil {
			c.backoff.RecordSuccess(provider)
			if c.tracker != nil {
				c.tracker.TrackAPISuccess(provider)
			}
		} else {
			c.backoff.RecordFailure(provider)
			if c.tracker != nil {
				c.tracker.TrackAPIFailure(provider)
			}
		}
		j.respChan <- jobResult{body: body, err: err}

		gap := c.cfg.InterCallMinGap + time.Duration(rand.Float64()*float64(c.cfg.InterCallMaxGap-c.cfg.InterCallMinGap))
		time.Sleep(gap)
	}
}

// executeWithRetry attempts the request up to cfg.Retries times with a fixed
// delay between attempts, retrying on network errors, 429 and 5xx.
func (c *Client) executeWithRetry(req *http.Request, headers map[string]string, timeout time.Duration, provider string) ([]byte, error) {
	retries := c.cfg.Retries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}

		reqCtx, cancel := context.WithTimeout(req.Context(), timeout)
		attemptReq := req.Clone(reqCtx)
		for k, v := range headers {
			attemptReq.Header.Set(k, v)
		}
		if attemptReq.Header.Get("User-Agent") == "" {
			attemptReq.Header.Set("User-Agent", defaultUserAgent)
		}

		slog.Debug("outbound request", "provider", provider, "host", req.URL.Host, "attempt", attempt+1)
		resp, err := c.httpClient.Do(attemptReq)
		cancel()

		if err != nil {
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			lastErr = err
			if !c.sleepBeforeRetry(req.Context()) {
				return nil, req.Context().Err()
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 500 && resp.StatusCode < 600) {
			resp.Body.Close()
			lastErr = fmt.Errorf("api error: status %d", resp.StatusCode)
			if !c.sleepBeforeRetry(req.Context()) {
				return nil, req.Context().Err()
			}
			continue
		}

		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("api error: status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read error: %w", err)
		}
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) sleepBeforeRetry(ctx context.Context) bool {
	select {
	case <-time.After(c.cfg.BackoffDelay):
		return true
	case <-ctx.Done():
		return false
	}
}

// normalizeURL is a small helper used by providers constructing query
// strings; kept here so callers don't need to import net/url directly.
func normalizeURL(base string, query url.Values) string {
	return base + "?" + query.Encode()
}
