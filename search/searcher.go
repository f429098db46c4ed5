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

package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/lexicon"
)

// CatalogSource supplies catalog snapshots. storage.PlantRepository
// satisfies it.
type CatalogSource interface {
	ListPlants(ctx context.Context) ([]*core.PlantRecord, error)
}

// Searcher answers queries against a live catalog.
type Searcher struct {
	source  CatalogSource
	engine  *Engine
	config  Config
	monitor SearchMonitor
	logger  *slog.Logger
}

// NewSearcher creates a new searcher.
func NewSearcher(source CatalogSource, vocab *lexicon.Vocabulary, opts ...Option) (*Searcher, error) {
	if source == nil {
		return nil, ErrCatalogRequired
	}
	if vocab == nil {
		return nil, ErrVocabularyRequired
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(vocab, o)
	if err != nil {
		return nil, err
	}

	policy := o.config.CatalogRetry
	policy.Logger = o.logger
	cfg := *o.config
	cfg.CatalogRetry = policy

	return &Searcher{
		source:  source,
		engine:  engine,
		config:  cfg,
		monitor: o.monitor,
		logger:  o.logger.With("component", "searcher"),
	}, nil
}

// Engine returns the searcher's engine.
func (s *Searcher) Engine() *Engine {
	return s.engine
}

// Search runs query against a fresh catalog snapshot.
func (s *Searcher) Search(ctx context.Context, query string) (*core.SearchResponse, error) {
	return s.SearchWithMonitor(ctx, query, s.monitor)
}

// SearchWithMonitor runs query against a fresh catalog snapshot and reports
// each stage to monitor.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (*core.SearchResponse, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	resp := s.engine.respond(query, catalog, monitor)
	s.logger.Info("search complete",
		"keywords", len(resp.SearchInsights.ExtractedKeywords),
		"results", len(resp.Results),
		"fallback", resp.Fallback)
	return &resp, nil
}

func (s *Searcher) loadCatalog(ctx context.Context) ([]*core.PlantRecord, error) {
	var catalog []*core.PlantRecord
	err := s.config.CatalogRetry.Do(ctx, func(ctx context.Context) error {
		var err error
		catalog, err = s.source.ListPlants(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("error reading catalog", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return catalog, nil
}
