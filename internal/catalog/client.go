// Package catalog resolves books against the Google Books volumes API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/homelibrary/internal/config"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
)

// ErrNotFound is returned when the catalog has no usable match. Transport
// and decoding failures are reported as ErrNotFound too.
var ErrNotFound = errors.New("book not found in catalog")

const (
	unknownTitle  = "N/A"
	unknownAuthor = "Unknown Author"
)

// Request selects a volume either by catalog id or by search query. When both
// are set the id wins. The fallbacks replace missing title and author fields
// in the canonical record.
type Request struct {
	ID             string
	Query          string
	FallbackTitle  string
	FallbackAuthor string
}

// Lookuper resolves a Request to a canonical record.
type Lookuper interface {
	Lookup(ctx context.Context, req Request) (*models.BookRecord, error)
}

// Client is a Google Books API client.
type Client struct {
	BaseURL      string
	APIKey       string
	LangRestrict string
	httpClient   *http.Client
}

// NewClient creates a client from configuration. A nil httpClient gets one
// with the configured timeout.
func NewClient(cfg config.Catalog, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		BaseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:       cfg.APIKey,
		LangRestrict: cfg.LanguageRestrict(),
		httpClient:   httpClient,
	}
}

// volumesResponse is the search endpoint's envelope.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title         string      `json:"title"`
	Authors       []string    `json:"authors"`
	Description   string      `json:"description"`
	PublishedDate string      `json:"publishedDate"`
	AverageRating *float64    `json:"averageRating"`
	ImageLinks    *imageLinks `json:"imageLinks"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// Lookup fetches a single volume by id, or the first search result for a
// query restricted to the configured languages.
func (c *Client) Lookup(ctx context.Context, req Request) (*models.BookRecord, error) {
	var (
		v   *volume
		err error
	)
	switch {
	case req.ID != "":
		v, err = c.volumeByID(ctx, req.ID)
	case req.Query != "":
		v, err = c.firstMatch(ctx, req.Query)
	default:
		return nil, ErrNotFound
	}
	if err != nil {
		slog.Warn("Catalog lookup failed", "id", req.ID, "query", req.Query, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	record := canonicalize(*v, req.FallbackTitle, req.FallbackAuthor)
	return &record, nil
}

func (c *Client) volumeByID(ctx context.Context, id string) (*volume, error) {
	params := url.Values{}
	c.addKey(params)
	endpoint := c.BaseURL + "/volumes/" + url.PathEscape(id)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var v volume
	if err := c.getJSON(ctx, endpoint, &v); err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, errors.New("volume response has no id")
	}
	return &v, nil
}

func (c *Client) firstMatch(ctx context.Context, query string) (*volume, error) {
	params := url.Values{}
	params.Set("q", query)
	if c.LangRestrict != "" {
		params.Set("langRestrict", c.LangRestrict)
	}
	params.Set("maxResults", "1")
	c.addKey(params)

	var resp volumesResponse
	if err := c.getJSON(ctx, c.BaseURL+"/volumes?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.TotalItems == 0 || len(resp.Items) == 0 {
		return nil, errors.New("no results")
	}
	return &resp.Items[0], nil
}

func (c *Client) addKey(params url.Values) {
	if c.APIKey != "" {
		params.Set("key", c.APIKey)
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to query Google Books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("google Books API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode Google Books response: %w", err)
	}
	return nil
}

// canonicalize maps a volume onto a BookRecord, filling documented defaults.
func canonicalize(v volume, fallbackTitle, fallbackAuthor string) models.BookRecord {
	info := v.VolumeInfo

	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = fallbackTitle
	}
	if title == "" {
		title = unknownTitle
	}

	authors := make([]string, 0, len(info.Authors))
	for _, a := range info.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	author := strings.Join(authors, ", ")
	if author == "" {
		author = fallbackAuthor
	}
	if author == "" {
		author = unknownAuthor
	}

	var cover string
	if info.ImageLinks != nil {
		cover = info.ImageLinks.Thumbnail
	}

	return models.BookRecord{
		Title:         title,
		Author:        author,
		Summary:       info.Description,
		PublishedDate: info.PublishedDate,
		CatalogID:     v.ID,
		CoverURL:      cover,
		AverageRating: info.AverageRating,
	}
}
