// Package covers finds book cover images when the catalog has none.
//
// GoogleImages scrapes the Google Images result page. The markup is not a
// stable contract, so callers depend on the Finder interface and treat every
// failure as a miss.
package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/homelibrary/internal/config"
	"golang.org/x/net/html"
)

// ErrNotFound is returned when no acceptable image was found.
var ErrNotFound = errors.New("cover not found")

// staticAssetDomain hosts the search engine's own logos and icons.
const staticAssetDomain = "gstatic.com"

// Finder looks up a cover image URL for a book title.
type Finder interface {
	FindCover(ctx context.Context, title string) (string, error)
}

// GoogleImages is a Finder backed by the Google Images HTML results page.
type GoogleImages struct {
	SearchURL   string
	QuerySuffix string
	UserAgent   string
	httpClient  *http.Client
}

func NewGoogleImages(cfg config.Covers, httpClient *http.Client) *GoogleImages {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GoogleImages{
		SearchURL:   cfg.SearchURL,
		QuerySuffix: cfg.QuerySuffix,
		UserAgent:   cfg.UserAgent,
		httpClient:  httpClient,
	}
}

// FindCover returns the first https image on the results page that is not a
// static asset of the search engine and not an SVG.
func (g *GoogleImages) FindCover(ctx context.Context, title string) (string, error) {
	query := strings.TrimSpace(title + " " + g.QuerySuffix)

	params := url.Values{}
	params.Set("tbm", "isch")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.SearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		slog.Warn("Image search request failed", "query", query, "err", err)
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Image search returned non-200", "query", query, "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}

	src, ok := firstCoverImage(resp.Body)
	if !ok {
		return "", ErrNotFound
	}
	slog.Debug("Found fallback cover", "query", query, "src", src)
	return src, nil
}

// firstCoverImage scans markup for the first acceptable <img src>.
func firstCoverImage(r io.Reader) (string, bool) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "src" && acceptable(string(val)) {
					return string(val), true
				}
				if !more {
					break
				}
			}
		}
	}
}

func acceptable(src string) bool {
	if !strings.HasPrefix(src, "https://") {
		return false
	}
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == staticAssetDomain || strings.HasSuffix(host, "."+staticAssetDomain) {
		return false
	}
	return !strings.HasSuffix(strings.ToLower(u.Path), ".svg")
}
