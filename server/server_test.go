package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/ingestion"
	"github.com/poiesic/herbalist/lexicon"
	"github.com/poiesic/herbalist/search"
	badgerstore "github.com/poiesic/herbalist/storage/badger"
)

type failingSource struct{}

func (failingSource) ListPlants(context.Context) ([]*core.PlantRecord, error) {
	return nil, errors.New("connection refused")
}

type stubCounter struct {
	n   int
	err error
}

func (c stubCounter) CountPlants(context.Context) (int, error) { return c.n, c.err }

// newStoreServer wires a server over an in-memory catalog.
func newStoreServer(t *testing.T, plants ...*core.PlantRecord) *Server {
	t.Helper()
	repo, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	if len(plants) > 0 {
		_, err = repo.AddPlants(context.Background(), plants...)
		require.NoError(t, err)
	}

	searcher, err := search.NewSearcher(repo, lexicon.Default())
	require.NoError(t, err)
	importer, err := ingestion.NewImporter(repo)
	require.NoError(t, err)
	t.Cleanup(importer.Release)

	srv, err := New(searcher, repo, WithImporter(importer))
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_Validation(t *testing.T) {
	searcher, err := search.NewSearcher(failingSource{}, lexicon.Default())
	require.NoError(t, err)

	_, err = New(nil, stubCounter{})
	assert.ErrorIs(t, err, ErrSearcherRequired)
	_, err = New(searcher, nil)
	assert.ErrorIs(t, err, ErrCounterRequired)
	_, err = New(searcher, stubCounter{}, WithRequestTimeout(0))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	srv := newStoreServer(t,
		&core.PlantRecord{ID: "1", Name: "Turmeric", Benefits: []string{"anti-inflammatory", "pain relief"}},
		&core.PlantRecord{ID: "2", Name: "Chamomile", Benefits: []string{"sleep aid"}},
	)

	rec := do(t, srv, http.MethodGet, "/search?q="+url.QueryEscape("my joints hurt with arthritis"), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	resp := decodeBody[core.SearchResponse](t, rec)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "Turmeric", resp.Results[0].Plant.Name)
	assert.False(t, resp.Fallback)
	assert.NotEmpty(t, resp.SearchInsights.ExtractedKeywords)
}

func TestSearch_MissingQuery(t *testing.T) {
	srv := newStoreServer(t)

	rec := do(t, srv, http.MethodGet, "/search", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, msgQueryRequired, body["error"])
}

func TestSearch_EmptyCatalog(t *testing.T) {
	srv := newStoreServer(t)

	rec := do(t, srv, http.MethodGet, "/search?q=headache", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[core.SearchResponse](t, rec)
	assert.Empty(t, resp.Results)
	assert.Equal(t, search.SuggestionsEmptyCatalog, resp.SearchInsights.Suggestions)
}

func TestSearch_CatalogFailure(t *testing.T) {
	searcher, err := search.NewSearcher(failingSource{}, lexicon.Default(),
		search.WithConfig(search.NewConfig(search.WithCatalogRetry(1, 0))))
	require.NoError(t, err)
	srv, err := New(searcher, stubCounter{})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodGet, "/search?q=headache", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, msgCatalogFailed, body["error"])
}

func TestCount(t *testing.T) {
	srv := newStoreServer(t,
		&core.PlantRecord{ID: "1", Name: "Sage"},
		&core.PlantRecord{ID: "2", Name: "Thyme"},
	)

	rec := do(t, srv, http.MethodGet, "/plants/count", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeBody[countResponse](t, rec).Count)
}

func TestCount_Failure(t *testing.T) {
	searcher, err := search.NewSearcher(failingSource{}, lexicon.Default())
	require.NoError(t, err)
	srv, err := New(searcher, stubCounter{err: fmt.Errorf("closed")})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodGet, "/plants/count", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestImport(t *testing.T) {
	srv := newStoreServer(t)

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantStatus  int
	}{
		{"json", "/plants", "application/json; charset=utf-8", `[{"name":"Ginger","benefits":"nausea relief"},{"benefits":["x"]}]`, http.StatusOK},
		{"yaml", "/plants", "application/yaml", "plants:\n  - name: Garlic\n", http.StatusOK},
		{"format param", "/plants?format=yml", "text/plain", "- name: Sage\n", http.StatusOK},
		{"malformed", "/plants", "application/json", `{"plants":`, http.StatusBadRequest},
		{"unsupported type", "/plants", "text/csv", "name\nSage", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tt.target, tt.contentType, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, srv, http.MethodGet, "/plants/count", "", "")
	assert.Equal(t, 3, decodeBody[countResponse](t, rec).Count)
}

func TestImport_Report(t *testing.T) {
	srv := newStoreServer(t)

	rec := do(t, srv, http.MethodPost, "/plants", "application/json", `[{"name":"Ginger"},{"description":"no name"}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody[ingestion.ImportReport](t, rec)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 1, report.Skipped[0].Index)
}

func TestImport_Disabled(t *testing.T) {
	searcher, err := search.NewSearcher(failingSource{}, lexicon.Default())
	require.NoError(t, err)
	srv, err := New(searcher, stubCounter{})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodPost, "/plants", "application/json", `[]`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImport_TooLarge(t *testing.T) {
	repo, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	searcher, err := search.NewSearcher(repo, lexicon.Default())
	require.NoError(t, err)
	importer, err := ingestion.NewImporter(repo)
	require.NoError(t, err)
	t.Cleanup(importer.Release)
	srv, err := New(searcher, repo, WithImporter(importer), WithMaxUploadBytes(16))
	require.NoError(t, err)

	rec := do(t, srv, http.MethodPost, "/plants", "application/json", `[{"name":"a very long plant name"}]`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPreflightAndHealth(t *testing.T) {
	srv := newStoreServer(t)

	rec := do(t, srv, http.MethodOptions, "/search", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")

	rec = do(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
