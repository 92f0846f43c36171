// Package probe implements the ServerProber port over HTTP.
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/updatepanel/internal/domain/model"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

// maxBodyBytes bounds how much of a response is read. The body must be drained
// for httpcache to store it.
const maxBodyBytes = 1 << 20

// Compile-time interface satisfaction check.
var _ driven.ServerProber = (*Prober)(nil)

// Prober issues GET requests against statistics server endpoints. Responses are
// cached in memory, but every probe is sent with max-age=0 so it always reaches
// the server; an unchanged endpoint answers the ETag/Last-Modified revalidation
// with 304 and the body comes from the cache.
type Prober struct {
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewProber creates a Prober with the following transport stack:
//  1. httpcache (in-memory conditional request caching, marks cached responses)
//  2. http.DefaultTransport
func NewProber(timeout time.Duration, logger *slog.Logger) *Prober {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.MarkCachedResponses = true

	return &Prober{
		client: &http.Client{Transport: cacheTransport, Timeout: timeout},
		logger: logger,
		now:    time.Now,
	}
}

// NewProberWithHTTPClient creates a Prober around an existing client.
// This constructor is intended for testing.
func NewProberWithHTTPClient(client *http.Client, logger *slog.Logger) *Prober {
	return &Prober{client: client, logger: logger, now: time.Now}
}

// Probe requests webURL once. A transport failure yields an unreachable result
// rather than an error; errors are returned for malformed URLs and cancelled contexts.
func (p *Prober) Probe(ctx context.Context, webURL string) (model.ProbeResult, error) {
	u, err := url.Parse(webURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.ProbeResult{}, fmt.Errorf("%w: %q", driven.ErrInvalidWebURL, webURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.ProbeResult{}, fmt.Errorf("build probe request: %w", err)
	}
	// max-age=0 marks any cached copy stale, so httpcache revalidates instead of
	// answering for a server that may be down. no-cache would skip the validators.
	req.Header.Set("Cache-Control", "max-age=0")

	result := model.ProbeResult{WebURL: webURL, CheckedAt: p.now().UTC()}
	start := time.Now()

	resp, err := p.client.Do(req)
	result.Latency = time.Since(start).Round(time.Millisecond)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.ProbeResult{}, ctxErr
		}
		p.logger.Warn("statistics server unreachable", "url", webURL, "error", err)
		return result, nil
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	result.StatusCode = resp.StatusCode
	result.Reachable = resp.StatusCode >= 200 && resp.StatusCode < 400
	result.FromCache = resp.Header.Get(httpcache.XFromCache) != ""

	p.logger.Debug("statistics server probed",
		"url", webURL,
		"status", resp.StatusCode,
		"from_cache", result.FromCache,
		"latency", result.Latency,
	)
	return result, nil
}
