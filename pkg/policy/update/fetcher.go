package update

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"starttls-hq/everywhere/pkg/config"
)

// maxDocumentSize bounds the size of a fetched policy document.
const maxDocumentSize = 32 << 20

// Fetcher retrieves the raw bytes of a remote policy document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPFetcher downloads the policy document over HTTP(S).
type HTTPFetcher struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPFetcher creates a fetcher for url. A zero timeout leaves the
// deadline to the caller's context.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url:     url,
		timeout: timeout,
		client:  &http.Client{},
		logger:  slog.Default().With("component", "policy.update.http"),
	}
}

// URL returns the location the fetcher downloads from.
func (f *HTTPFetcher) URL() string {
	return f.url
}

// Fetch downloads the document. Any non-2xx status is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	f.logger.Debug("fetching policy", "url", f.url)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", f.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("policy document exceeds %d bytes", maxDocumentSize)
	}

	return data, nil
}

// NewFetcher builds the fetcher selected by the update configuration.
func NewFetcher(cfg *config.Config) (Fetcher, error) {
	switch cfg.Update.Source {
	case "http", "":
		return NewHTTPFetcher(cfg.Policy.RemoteURL, cfg.Update.Timeout), nil
	case "git":
		return NewGitFetcher(&cfg.Update.Git, cfg.Update.Timeout)
	default:
		return nil, fmt.Errorf("unknown update source: %s", cfg.Update.Source)
	}
}

// sourceName labels fetchers in logs, metrics and history.
func sourceName(f Fetcher) string {
	switch f.(type) {
	case *HTTPFetcher:
		return "http"
	case *GitFetcher:
		return "git"
	default:
		return "custom"
	}
}
