package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vanshika/lottrace/internal/domain"
)

// ErrEmptyURL is returned when no trace URL is configured.
var ErrEmptyURL = errors.New("trace URL is required")

// ErrNotObject is returned when the trace document is valid JSON but not an
// object, for example null or an array.
var ErrNotObject = errors.New("trace document is not a JSON object")

// StatusError reports a non-2xx response from the trace endpoint.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Fetcher downloads trace documents over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher using client, or http.DefaultClient when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch performs a single GET of url and decodes the trace document.
// The request is bounded only by ctx.
func (f *Fetcher) Fetch(ctx context.Context, url string) (domain.Trace, error) {
	if url == "" {
		return domain.Trace{}, ErrEmptyURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Trace{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Trace{}, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.Trace{}, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.Trace{}, fmt.Errorf("decode trace from %s: %w", url, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return domain.Trace{}, fmt.Errorf("decode trace from %s: %w", url, ErrNotObject)
	}
	var trace domain.Trace
	if err := json.Unmarshal(raw, &trace); err != nil {
		return domain.Trace{}, fmt.Errorf("decode trace from %s: %w", url, err)
	}
	return trace, nil
}
