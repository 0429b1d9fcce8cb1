package sheep

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodySize bounds how much of a response we are willing to read.
// The search endpoint returns a page of 20 entries, well under this.
const maxBodySize = 2 << 20

const defaultFetchTimeout = 10 * time.Second

// Client fetches and extracts the latest announcement from one source URL.
type Client struct {
	http *http.Client
	url  string
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultSourceURL
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		url:  url,
	}
}

func (c *Client) URL() string { return c.url }

// Latest issues one GET against the source URL and extracts the newest
// valid announcement from the response body.
func (c *Client) Latest(ctx context.Context) (Announcement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Announcement{}, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Announcement{}, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Announcement{}, &FetchError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Announcement{}, &FetchError{Err: err}
	}

	return ExtractLatest(body)
}
