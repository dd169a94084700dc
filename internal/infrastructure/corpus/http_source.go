package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ArticleFeed/internal/corpus"
)

const userAgent = "ArticleFeed/1.0"

// HTTPSource reads the manifest and documents from static HTTP endpoints.
// The manifest is a JSON array of filename strings; each document lives at
// baseURL/<id>. Requests are rate limited client-side so a burst of refills
// does not hammer the static host.
type HTTPSource struct {
	manifestURL string
	baseURL     string
	client      *http.Client
	limiter     *rate.Limiter
}

var _ corpus.Source = (*HTTPSource)(nil)

// NewHTTPSource wires an HTTP client; rps caps outbound requests per second
// and defaults to 20 when non-positive.
func NewHTTPSource(manifestURL, baseURL string, rps float64, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if rps <= 0 {
		rps = 20
	}
	return &HTTPSource{
		manifestURL: manifestURL,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		client:      client,
		limiter:     rate.NewLimiter(rate.Limit(rps), int(rps)),
	}
}

// Name identifies the source inside the registry.
func (s *HTTPSource) Name() string {
	return "http"
}

// List downloads and decodes the manifest.
func (s *HTTPSource) List(ctx context.Context) ([]string, error) {
	body, err := s.get(ctx, s.manifestURL)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return ids, nil
}

// Get retrieves the raw bytes of one document.
func (s *HTTPSource) Get(ctx context.Context, id string) ([]byte, error) {
	return s.get(ctx, s.baseURL+"/"+id)
}

func (s *HTTPSource) get(ctx context.Context, url string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corpus returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
