package preload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"ArticleFeed/internal/ports"
)

// Warmer performs a best-effort, time-bounded fetch of a thumbnail URL so the
// image is likely sitting in an HTTP cache before the card is displayed.
// Failures and timeouts are reported but carry no correctness weight; the
// UI's own lazy loading is the fallback.
type Warmer struct {
	timeout time.Duration
	client  *http.Client
}

var _ ports.ImageWarmer = (*Warmer)(nil)

// NewWarmer wires a reusable HTTP client; timeout defaults to 3s.
func NewWarmer(timeout time.Duration, client *http.Client) *Warmer {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Warmer{timeout: timeout, client: client}
}

// Warm requests the image and returns once it loads, errors, or the timeout
// elapses, whichever comes first. It never blocks past the timeout.
func (w *Warmer) Warm(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("warm image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image returned %s", resp.Status)
	}

	// Drain so the transport can reuse the connection; bounded in case the
	// image is unexpectedly large.
	_, err = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	return nil
}
