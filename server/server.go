// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/ingestion"
	"github.com/poiesic/herbalist/search"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultMaxUploadBytes = 10 << 20

	msgQueryRequired   = `Query parameter "q" is required`
	msgCatalogFailed   = "Failed to fetch plants data"
	msgInternal        = "Internal server error"
	msgImportDisabled  = "Catalog import is not enabled"
	msgUnsupportedType = "Unsupported content type; send application/json or application/yaml"
)

// Searcher answers a query against the current catalog.
type Searcher interface {
	Search(ctx context.Context, query string) (*core.SearchResponse, error)
}

// PlantCounter reports the catalog size.
type PlantCounter interface {
	CountPlants(ctx context.Context) (int, error)
}

// Importer stores decoded catalog entries.
type Importer interface {
	Import(ctx context.Context, raws []ingestion.RawPlant) (*ingestion.ImportReport, error)
}

// Server routes HTTP requests to the search and catalog components.
type Server struct {
	router         chi.Router
	searcher       Searcher
	counter        PlantCounter
	importer       Importer
	requestTimeout time.Duration
	maxUploadBytes int64
	allowedOrigin  string
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithImporter enables POST /plants.
func WithImporter(importer Importer) Option {
	return func(s *Server) error {
		s.importer = importer
		return nil
	}
}

// WithRequestTimeout bounds the time spent on one request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be positive, got %s", d)
		}
		s.requestTimeout = d
		return nil
	}
}

// WithMaxUploadBytes limits the size of an imported catalog document.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) error {
		if n <= 0 {
			return fmt.Errorf("upload limit must be positive, got %d", n)
		}
		s.maxUploadBytes = n
		return nil
	}
}

// WithAllowedOrigin sets the Access-Control-Allow-Origin value.
// Default is "*".
func WithAllowedOrigin(origin string) Option {
	return func(s *Server) error {
		s.allowedOrigin = origin
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New builds the HTTP handler.
func New(searcher Searcher, counter PlantCounter, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if counter == nil {
		return nil, ErrCounterRequired
	}

	s := &Server{
		searcher:       searcher,
		counter:        counter,
		requestTimeout: defaultRequestTimeout,
		maxUploadBytes: defaultMaxUploadBytes,
		allowedOrigin:  "*",
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "server")
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.cors)
	r.Use(chimiddleware.Timeout(s.requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/search", s.handleSearch)
	r.Route("/plants", func(r chi.Router) {
		r.Get("/count", s.handleCount)
		r.Post("/", s.handleImport)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}

type countResponse struct {
	Count int `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	resp, err := s.searcher.Search(r.Context(), q)
	if err != nil {
		s.logger.Error("search failed", "query", q, "err", err)
		if errors.Is(err, search.ErrCatalogUnavailable) {
			s.writeError(w, http.StatusInternalServerError, msgCatalogFailed)
			return
		}
		s.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.counter.CountPlants(r.Context())
	if err != nil {
		s.logger.Error("count failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, msgCatalogFailed)
		return
	}
	s.writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.writeError(w, http.StatusNotFound, msgImportDisabled)
		return
	}

	format, err := requestFormat(r)
	if err != nil {
		s.writeError(w, http.StatusUnsupportedMediaType, msgUnsupportedType)
		return
	}

	raws, err := ingestion.Decode(http.MaxBytesReader(w, r.Body, s.maxUploadBytes), format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.importer.Import(r.Context(), raws)
	if err != nil {
		s.logger.Error("import failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// requestFormat takes the catalog format from ?format= or the Content-Type.
func requestFormat(r *http.Request) (ingestion.Format, error) {
	if name := r.URL.Query().Get("format"); name != "" {
		return ingestion.ParseFormat(name)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ingestion.FormatJSON, nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", err
	}
	switch mediaType {
	case "application/json", "text/json":
		return ingestion.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return ingestion.FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ingestion.ErrUnsupportedFormat, mediaType)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("failed to encode response", "err", err)
		status = http.StatusInternalServerError
		data = []byte(`{"error":"` + msgInternal + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
