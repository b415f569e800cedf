// Package bookurl resolves a product or catalog page URL to a book record.
package bookurl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/homelibrary/internal/catalog"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"golang.org/x/net/html"
)

var (
	// ErrNotFound is returned when a URL cannot be turned into a book.
	ErrNotFound = errors.New("no book found for url")
	// ErrUnsupportedSource is returned for URLs outside the known sources.
	ErrUnsupportedSource = fmt.Errorf("unsupported source: %w", ErrNotFound)
)

// productCode matches /dp/<code> and /gp/product/<code> with an ASIN/ISBN-10
// or an ISBN-13.
var productCode = regexp.MustCompile(`/(dp|gp/product)/(\w{10}|\d{13})`)

const (
	catalogSiteMarker = "books.google"
	marketplaceMarker = "amazon"
	productTitleID    = "productTitle"
)

// Resolver classifies URLs and delegates to the catalog.
type Resolver struct {
	catalog    catalog.Lookuper
	httpClient *http.Client
	userAgent  string
}

func NewResolver(l catalog.Lookuper, httpClient *http.Client, userAgent string) *Resolver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Resolver{catalog: l, httpClient: httpClient, userAgent: userAgent}
}

// Resolve returns the book a URL points at. Every failure is reported as
// ErrNotFound or ErrUnsupportedSource.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*models.BookRecord, error) {
	switch {
	case strings.Contains(rawURL, catalogSiteMarker):
		return r.fromCatalogSite(ctx, rawURL)
	case strings.Contains(rawURL, marketplaceMarker):
		return r.fromMarketplace(ctx, rawURL)
	default:
		return nil, ErrUnsupportedSource
	}
}

func (r *Resolver) fromCatalogSite(ctx context.Context, rawURL string) (*models.BookRecord, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	id := u.Query().Get("id")
	if id == "" {
		return nil, fmt.Errorf("%w: url has no id parameter", ErrNotFound)
	}
	slog.Debug("Resolving catalog-site URL", "id", id)
	return r.lookup(ctx, catalog.Request{ID: id})
}

func (r *Resolver) fromMarketplace(ctx context.Context, rawURL string) (*models.BookRecord, error) {
	if m := productCode.FindStringSubmatch(rawURL); m != nil {
		slog.Debug("Resolving marketplace URL by product code", "code", m[2])
		return r.lookup(ctx, catalog.Request{Query: "isbn:" + m[2]})
	}

	title, err := r.productTitle(ctx, rawURL)
	if err != nil {
		slog.Warn("Unable to read marketplace product title", "url", rawURL, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	slog.Debug("Resolving marketplace URL by product title", "title", title)
	return r.lookup(ctx, catalog.Request{Query: title})
}

func (r *Resolver) lookup(ctx context.Context, req catalog.Request) (*models.BookRecord, error) {
	record, err := r.catalog.Lookup(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return record, nil
}

// productTitle fetches a marketplace page and returns the text of its
// product title element.
func (r *Resolver) productTitle(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	node := findByID(doc, "span", productTitleID)
	if node == nil {
		return "", errors.New("product title not found on page")
	}
	title := strings.Join(strings.Fields(textContent(node)), " ")
	if title == "" {
		return "", errors.New("product title is empty")
	}
	return title, nil
}

func findByID(n *html.Node, tag, id string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, tag, id); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
