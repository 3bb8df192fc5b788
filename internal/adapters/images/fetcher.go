// Package images downloads artwork files over HTTP.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ewilliams-labs/replay/internal/core/ports"
)

// Fetcher downloads an image URL to a local file.
type Fetcher struct {
	httpClient *http.Client
}

// compile-time interface assertion
var _ ports.ImageFetcher = (*Fetcher)(nil)

// NewFetcher constructs a Fetcher.
func NewFetcher(httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{httpClient: httpClient}
}

// Fetch downloads url into dest. A failed download leaves no partial file
// behind.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("image fetcher: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("image fetcher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image fetcher: %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("image fetcher: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("image fetcher: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("image fetcher: %w", err)
	}
	return nil
}
