// Package imvdb is a minimal client for the IMVDB music-video metadata API.
package imvdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const detailIncludes = "sources,credits,bts,countries,featured,popularity,aka"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StatusError is returned for non-200 API responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("imvdb: %s returned status %d", e.URL, e.StatusCode)
}

// SearchVideos runs a free-text video search.
func (c *Client) SearchVideos(ctx context.Context, query string) (*SearchPage, error) {
	endpoint := fmt.Sprintf("%s/search/videos?q=%s", c.baseURL, url.QueryEscape(query))
	var page SearchPage
	if err := c.get(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// VideoDetails fetches a video with sources, credits, and popularity included.
func (c *Client) VideoDetails(ctx context.Context, id int64) (*VideoDetails, error) {
	endpoint := fmt.Sprintf("%s/video/%d?include=%s", c.baseURL, id, detailIncludes)
	var details VideoDetails
	if err := c.get(ctx, endpoint, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// EntityVideos fetches one page of an artist's or director's filmography.
// Page numbering starts at 1.
func (c *Client) EntityVideos(ctx context.Context, slug string, page int) (*SearchPage, error) {
	endpoint := fmt.Sprintf("%s/entity/%s/videos", c.baseURL, url.PathEscape(slug))
	if page > 1 {
		endpoint += "?page=" + strconv.Itoa(page)
	}
	var result SearchPage
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("imvdb: build request: %w", err)
	}
	req.Header.Set("IMVDB-APP-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("imvdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("imvdb: decode response: %w", err)
	}
	return nil
}
