package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"rivalscan/pkg/logger"
)

const (
	defaultEndpoint    = "https://google.serper.dev/search"
	defaultTimeout     = 30 * time.Second
	defaultResultCount = 20
)

// SerperConfig holds settings for the Serper-style SERP API client.
type SerperConfig struct {
	Endpoint   string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	CacheTTL   time.Duration
	CacheSize  int
}

// SerperClient queries a Serper-style Google SERP API. It implements Client
// with a retry policy for transient failures and an optional response cache.
type SerperClient struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	retry    *Retry
	cache    *HitCache
	http     *fasthttp.Client
	log      *logger.Logger

	totalRequests  uint64
	failedRequests uint64
}

// NewSerperClient creates a client from config. An empty API key yields a
// client that reports itself unconfigured.
func NewSerperClient(cfg SerperConfig) *SerperClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &SerperClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		retry:    NewRetry(cfg.MaxRetries, cfg.RetryDelay),
		cache:    NewHitCache(cfg.CacheSize, cfg.CacheTTL),
		http: &fasthttp.Client{
			MaxIdleConnDuration: 90 * time.Second,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
		},
		log: logger.GetLogger().Component("serper_client"),
	}
}

// Configured reports whether the client has credentials to reach the
// provider. Checked once before a batch of keyword lookups begins.
func (c *SerperClient) Configured() bool {
	return c.apiKey != ""
}

// FullResults fetches the ordered organic results for one keyword in one
// region, returning up to resultCount hits.
func (c *SerperClient) FullResults(ctx context.Context, keyword, region string, resultCount int) ([]Hit, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if resultCount <= 0 {
		resultCount = defaultResultCount
	}

	key := CacheKey(keyword, region, resultCount)
	if hits, ok := c.cache.Get(key); ok {
		c.log.WithField("keyword", keyword).Debug("SERP cache hit")
		return hits, nil
	}

	atomic.AddUint64(&c.totalRequests, 1)
	start := time.Now()

	var hits []Hit
	err := c.retry.Execute(ctx, func() error {
		h, err := c.doSearch(keyword, region, resultCount)
		if err != nil {
			return err
		}
		hits = h
		return nil
	})
	if err != nil {
		atomic.AddUint64(&c.failedRequests, 1)
		c.log.WithError(err).WithField("keyword", keyword).Error("SERP lookup failed")
		return nil, err
	}

	c.log.WithFields(map[string]interface{}{
		"keyword":     keyword,
		"hits":        len(hits),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("SERP lookup completed")

	c.cache.Set(key, hits)
	return hits, nil
}

func (c *SerperClient) doSearch(keyword, region string, resultCount int) ([]Hit, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	body, err := json.Marshal(searchRequest{
		Query:  keyword,
		Region: region,
		Num:    resultCount,
	})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-API-KEY", c.apiKey)
	req.SetBody(body)

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("serp request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode(), Body: string(resp.Body())}
	}

	return parseHits(resp.Body(), resultCount)
}

type searchRequest struct {
	Query  string `json:"q"`
	Region string `json:"gl,omitempty"`
	Num    int    `json:"num,omitempty"`
}

type serperResponse struct {
	Organic []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Position int    `json:"position"`
	} `json:"organic"`
}

// parseHits decodes a Serper payload into ordered hits, capping at limit.
// Entries without a usable host or rank are skipped.
func parseHits(body []byte, limit int) ([]Hit, error) {
	var payload serperResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode serp response: %w", err)
	}

	hits := make([]Hit, 0, len(payload.Organic))
	for _, r := range payload.Organic {
		host := hostOf(r.Link)
		if host == "" || r.Position <= 0 {
			continue
		}
		hits = append(hits, Hit{Domain: host, Title: r.Title, Position: r.Position})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

// hostOf extracts the host from a result link. Bare hosts without a scheme
// are returned as-is.
func hostOf(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if !strings.Contains(link, "://") {
		if i := strings.IndexByte(link, '/'); i >= 0 {
			link = link[:i]
		}
		return link
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}

// Stats returns lifetime request counters, mainly for diagnostics.
func (c *SerperClient) Stats() (total, failed uint64) {
	return atomic.LoadUint64(&c.totalRequests), atomic.LoadUint64(&c.failedRequests)
}
