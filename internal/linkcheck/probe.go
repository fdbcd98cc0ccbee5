package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent = "NexiPlay-LinkChecker/1.0"
	DefaultTimeout   = 5 * time.Second
)

// ProbeResult is the outcome of one existence probe
type ProbeResult struct {
	State      model.LinkState
	StatusCode int // 0 when no response was received
	Err        error
}

// Prober checks whether a provider URL still exists
type Prober interface {
	Probe(ctx context.Context, rawURL string) ProbeResult
}

// Classify maps an HTTP status code to a link state.
// Only 404 and 410 mean the file is gone; anything else is assumed alive.
func Classify(statusCode int) model.LinkState {
	switch statusCode {
	case http.StatusNotFound, http.StatusGone:
		return model.LinkExpired
	default:
		return model.LinkActive
	}
}

// HTTPProber probes URLs with HEAD requests
type HTTPProber struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	timeout   time.Duration
}

// NewHTTPProber creates a prober. ratePerSecond <= 0 disables pacing.
func NewHTTPProber(userAgent string, timeout time.Duration, ratePerSecond float64) *HTTPProber {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}

	p := &HTTPProber{
		client:    &http.Client{Transport: transport},
		userAgent: userAgent,
		timeout:   timeout,
	}
	if ratePerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return p
}

// Probe issues a HEAD request bounded by the prober timeout.
// Network errors and timeouts are reported as ACTIVE with Err set.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) ProbeResult {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return ProbeResult{State: model.LinkActive, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return ProbeResult{State: model.LinkActive, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return ProbeResult{State: model.LinkActive, Err: fmt.Errorf("probe failed: %w", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return ProbeResult{State: Classify(resp.StatusCode), StatusCode: resp.StatusCode}
}
