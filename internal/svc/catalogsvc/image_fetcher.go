package catalogsvc

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/mkrupp/storefront/internal/domain"
)

// ImageFetcher downloads images referenced by catalog entries.
type ImageFetcher interface {
	// Fetch returns the image bytes and the declared content type.
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// HTTPImageFetcher implements ImageFetcher over HTTP.
type HTTPImageFetcher struct {
	client   *http.Client
	maxBytes int64
}

var _ ImageFetcher = (*HTTPImageFetcher)(nil)

// NewHTTPImageFetcher creates a fetcher refusing images larger than maxBytes.
// If client is nil, http.DefaultClient will be used.
func NewHTTPImageFetcher(client *http.Client, maxBytes int64) *HTTPImageFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPImageFetcher{client: client, maxBytes: maxBytes}
}

// Fetch implements ImageFetcher.Fetch.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("new request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &domain.RemoteError{Status: resp.StatusCode}
	}

	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", domain.ErrImageTooLarge, resp.ContentLength)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", &domain.NetworkError{Err: fmt.Errorf("read body: %w", err)}
	}

	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", domain.ErrImageTooLarge, f.maxBytes)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
