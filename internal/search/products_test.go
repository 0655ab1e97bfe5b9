package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	handle   func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.handle(w, r)
}

func newIndex(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*ProductIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{handle: handle}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ProductIndex{ES: es, Index: "products"}, fake
}

func TestIndexProduct(t *testing.T) {
	idx, fake := newIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	p := &models.Product{ID: uuid.New(), Title: "Kettle", Price: decimal.RequireFromString("12.5"), Availability: true, CategoryID: uuid.New()}
	require.NoError(t, idx.IndexProduct(context.Background(), p))

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "/products/_doc/"+p.ID.String(), req.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.Body), &doc))
	assert.Equal(t, "Kettle", doc["title"])
	assert.Equal(t, "12.50", doc["price"])
}

func TestSearchProducts(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	idx, fake := newIndex(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":7},"hits":[` +
			`{"_source":{"id":"` + a.String() + `"}},` +
			`{"_source":{"id":"broken"}},` +
			`{"_source":{"id":"` + b.String() + `"}}]}}`))
	})

	total, ids, err := idx.SearchProducts(context.Background(), "kettle", 20, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, "/products/_search", fake.requests[0].Path)
	assert.True(t, strings.Contains(fake.requests[0].Body, `"from":20`))
}

func TestSearchProducts_ErrorStatus(t *testing.T) {
	idx, _ := newIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	})

	_, _, err := idx.SearchProducts(context.Background(), "kettle", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestEnsureIndex(t *testing.T) {
	idx, fake := newIndex(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.Len(t, fake.requests, 2)
	assert.Equal(t, http.MethodPut, fake.requests[1].Method)
	assert.Contains(t, fake.requests[1].Body, "scaled_float")
}
