package bookurl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/lehigh-university-libraries/homelibrary/internal/catalog"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLookuper struct {
	requests []catalog.Request
	found    bool
}

func (l *recordingLookuper) Lookup(_ context.Context, req catalog.Request) (*models.BookRecord, error) {
	l.requests = append(l.requests, req)
	if !l.found {
		return nil, catalog.ErrNotFound
	}
	return &models.BookRecord{Title: "Resolved", CatalogID: "vol-1"}, nil
}

func TestResolveCatalogSite(t *testing.T) {
	l := &recordingLookuper{found: true}
	r := NewResolver(l, nil, "")

	rec, err := r.Resolve(context.Background(), "https://books.google.it/books?id=zyTCAlFPjgYC&hl=it")
	require.NoError(t, err)
	assert.Equal(t, "vol-1", rec.CatalogID)
	require.Len(t, l.requests, 1)
	assert.Equal(t, catalog.Request{ID: "zyTCAlFPjgYC"}, l.requests[0])
}

func TestResolveCatalogSiteWithoutID(t *testing.T) {
	l := &recordingLookuper{found: true}
	r := NewResolver(l, nil, "")

	_, err := r.Resolve(context.Background(), "https://books.google.com/books?hl=en")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, l.requests)
}

func TestResolveMarketplaceProductCode(t *testing.T) {
	var fetched atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched.Add(1)
	}))
	defer srv.Close()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.amazon.it/Il-nome-della-rosa/dp/881802731X/ref=sr_1_1", "isbn:881802731X"},
		{"https://www.amazon.com/gp/product/9788804668237", "isbn:9788804668"},
	}
	for _, tt := range tests {
		l := &recordingLookuper{found: true}
		r := NewResolver(l, srv.Client(), "")

		_, err := r.Resolve(context.Background(), tt.url)
		require.NoError(t, err)
		require.Len(t, l.requests, 1)
		assert.Equal(t, tt.want, l.requests[0].Query)
	}
	assert.Zero(t, fetched.Load(), "product code lookups never fetch the page")
}

func TestResolveMarketplaceTitleFromPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.UserAgent())
		_, _ = w.Write([]byte(`<html><body>
			<h1><span id="productTitle">
				Se questo è un uomo
			</span></h1>
		</body></html>`))
	}))
	defer srv.Close()

	l := &recordingLookuper{found: true}
	r := NewResolver(l, srv.Client(), "test-agent")

	_, err := r.Resolve(context.Background(), srv.URL+"/amazon/se-questo-e-un-uomo")
	require.NoError(t, err)
	require.Len(t, l.requests, 1)
	assert.Equal(t, "Se questo è un uomo", l.requests[0].Query)
}

func TestResolveMarketplaceWithoutTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>captcha</p></body></html>`))
	}))
	defer srv.Close()

	l := &recordingLookuper{found: true}
	r := NewResolver(l, srv.Client(), "")

	_, err := r.Resolve(context.Background(), srv.URL+"/amazon/unknown")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, l.requests)
}

func TestResolveMarketplaceTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := srv.Client()
	srv.Close()

	r := NewResolver(&recordingLookuper{found: true}, client, "")
	_, err := r.Resolve(context.Background(), srv.URL+"/amazon/offline")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveUnsupportedSource(t *testing.T) {
	l := &recordingLookuper{found: true}
	r := NewResolver(l, nil, "")

	_, err := r.Resolve(context.Background(), "https://www.ibs.it/libro/123")
	assert.ErrorIs(t, err, ErrUnsupportedSource)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, l.requests)
}

func TestResolveCatalogMiss(t *testing.T) {
	r := NewResolver(&recordingLookuper{}, nil, "")

	_, err := r.Resolve(context.Background(), "https://books.google.com/books?id=missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}
