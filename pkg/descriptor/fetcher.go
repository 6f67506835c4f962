package descriptor

import (
	"context"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// URLFetcher is the transport collaborator the descriptor handler
// downloads through. download writes the response body to destPath and
// returns the HTTP status and byte count; cancel aborts any in-flight
// request for url so the retry worker does not block waiting on a
// stalled connection.
type URLFetcher interface {
	Download(ctx context.Context, url, destPath string, timeout time.Duration) (status int, size int64, err error)
	Cancel(url string)
}

// HTTPFetcher is the production URLFetcher, backed by a retryablehttp
// client so transient network failures within a single attempt (as
// opposed to the handler's own longer-horizon retry schedule) are
// absorbed at the transport layer.
type HTTPFetcher struct {
	client *retryablehttp.Client

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewHTTPFetcher returns a ready-to-use HTTPFetcher with a conservative
// per-request retry count; the descriptor handler's own backoff
// schedule governs the long-running retry cadence, not this client.
func NewHTTPFetcher() *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &HTTPFetcher{client: client, cancels: make(map[string]context.CancelFunc)}
}

func (f *HTTPFetcher) Download(ctx context.Context, url, destPath string, timeout time.Duration) (int, int64, error) {
	spanID := uuid.NewString()
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	f.mu.Lock()
	f.cancels[url] = cancel
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		delete(f.cancels, url)
		f.mu.Unlock()
		cancel()
	}()

	log.Debug().Str("span", spanID).Str("url", url).Msg("descriptor fetch started")

	req, err := retryablehttp.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Debug().Str("span", spanID).Err(err).Msg("descriptor fetch failed")
		return 0, 0, err
	}
	defer resp.Body.Close()

	tmp, err := os.Create(destPath)
	if err != nil {
		return resp.StatusCode, 0, err
	}
	defer tmp.Close()

	size, err := io.Copy(tmp, resp.Body)
	if err != nil {
		return resp.StatusCode, size, err
	}
	log.Debug().Str("span", spanID).Int("status", resp.StatusCode).Int64("bytes", size).Msg("descriptor fetch completed")
	return resp.StatusCode, size, nil
}

// Cancel aborts the in-flight request for url, if any. Safe to call
// when no request for url is outstanding.
func (f *HTTPFetcher) Cancel(url string) {
	f.mu.Lock()
	cancel, ok := f.cancels[url]
	f.mu.Unlock()
	if ok {
		cancel()
		log.Debug().Str("url", url).Msg("cancelled in-flight descriptor fetch")
	}
}
