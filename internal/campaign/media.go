package campaign

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/rayyanz/wa-blast-backend/internal/transport"
)

// MediaFetcher loads a media reference for one recipient. Fetches are not
// cached across recipients.
type MediaFetcher interface {
	Fetch(ctx context.Context, mediaURL string) (*transport.Media, error)
}

// HTTPFetcher downloads media over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 60 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, mediaURL string) (*transport.Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media fetch returned %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &transport.Media{
		MimeType: resp.Header.Get("Content-Type"),
		Data:     data,
		Filename: filenameFromURL(mediaURL),
	}, nil
}

func filenameFromURL(mediaURL string) string {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return path.Base(mediaURL)
	}
	return path.Base(u.Path)
}
