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
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/lexicon"
	"github.com/poiesic/herbalist/query"
)

// Suggestion lists returned in SearchInsights.
var (
	SuggestionsEmptyCatalog = []string{
		"Try uploading plant data first",
		"Use more specific health terms",
	}
	SuggestionsFallback = []string{
		"Try more specific health terms",
		"Consider using common names for conditions",
		`Example: "diabetes", "high blood pressure", "stomach pain"`,
	}
	SuggestionsNoCondition = []string{
		"Try using more specific health terms",
		`Example: "diabetes", "high blood pressure", "stomach pain"`,
	}
)

// Option configures an Engine or a Searcher.
type Option func(*options) error

type options struct {
	config  *Config
	logger  *slog.Logger
	monitor SearchMonitor
}

// WithConfig sets the ranking configuration.
// Default is DefaultConfig().
func WithConfig(cfg *Config) Option {
	return func(o *options) error {
		if cfg == nil {
			cfg = DefaultConfig()
		}
		o.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithMonitor sets the monitor a Searcher uses when none is passed per call.
func WithMonitor(monitor SearchMonitor) Option {
	return func(o *options) error {
		o.monitor = monitor
		return nil
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	// Validate normalizes in place; keep the caller's Config untouched.
	cfg := *o.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o.config = &cfg
	return o, nil
}

// Engine understands queries and ranks catalog snapshots. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	processor *query.Processor
	config    Config
	weights   weights
	logger    *slog.Logger
}

// NewEngine creates an Engine over vocab.
func NewEngine(vocab *lexicon.Vocabulary, opts ...Option) (*Engine, error) {
	if vocab == nil {
		return nil, ErrVocabularyRequired
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return newEngine(vocab, o)
}

func newEngine(vocab *lexicon.Vocabulary, o *options) (*Engine, error) {
	processor, err := query.NewProcessor(vocab,
		query.WithMinKeywordLength(o.config.MinKeywordLength),
		query.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	return &Engine{
		processor: processor,
		config:    *o.config,
		weights: weights{
			benefit:            o.config.BenefitWeight,
			text:               o.config.TextWeight,
			component:          o.config.ComponentWeight,
			maxMatchedBenefits: o.config.MaxMatchedBenefits,
		},
		logger: o.logger.With("component", "search-engine"),
	}, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Processor returns the query processor.
func (e *Engine) Processor() *query.Processor {
	return e.processor
}

// ExtractSearchContext describes how query is understood, independent of
// any catalog.
func (e *Engine) ExtractSearchContext(q string) core.SearchInsights {
	return insightsFor(e.processor.Analyze(q), nil)
}

// RankCatalog scores catalog against keywords and returns the qualifying
// plants, best first. Ties keep catalog order.
func (e *Engine) RankCatalog(keywords []string, catalog []*core.PlantRecord) []core.MatchResult {
	conditions := e.processor.ExtractConditions(keywords)
	analysis := query.Analysis{
		Keywords:       keywords,
		Conditions:     conditions,
		TargetBenefits: e.processor.TargetBenefits(conditions),
	}
	return e.rank(analysis, catalog, &noopMonitor{})
}

// Respond runs the whole search for query against catalog, including the
// empty-catalog check and the name fallback.
func (e *Engine) Respond(q string, catalog []*core.PlantRecord) core.SearchResponse {
	return e.respond(q, catalog, &noopMonitor{})
}

func (e *Engine) respond(q string, catalog []*core.PlantRecord, monitor SearchMonitor) core.SearchResponse {
	monitor.Start(q)

	analysis := e.processor.Analyze(q)
	monitor.AfterKeywordExtraction(analysis.Keywords)
	monitor.AfterConditionExtraction(analysis.Conditions, analysis.TargetBenefits)
	monitor.AfterCatalogLoad(len(catalog))

	var resp core.SearchResponse
	switch {
	case !populated(catalog):
		e.logger.Debug("catalog has no plants with benefits", "plants", len(catalog))
		resp = core.SearchResponse{
			Results:        []core.MatchResult{},
			SearchInsights: insightsFor(analysis, SuggestionsEmptyCatalog),
		}
	default:
		results := e.rank(analysis, catalog, monitor)
		resp = core.SearchResponse{
			Results:        results,
			SearchInsights: insightsFor(analysis, nil),
		}
		if len(results) > 0 {
			break
		}
		if fb := e.fallback(analysis.Keywords, catalog); len(fb) > 0 {
			e.logger.Debug("no benefit matches, using name fallback", "matches", len(fb))
			monitor.FallbackUsed(fb)
			resp = core.SearchResponse{
				Results:        fb,
				SearchInsights: insightsFor(analysis, SuggestionsFallback),
				Fallback:       true,
			}
		}
	}

	monitor.Finish(resp)
	return resp
}

func (e *Engine) rank(analysis query.Analysis, catalog []*core.PlantRecord, monitor SearchMonitor) []core.MatchResult {
	terms := scoringTerms(analysis.Keywords, analysis.TargetBenefits)
	results := []core.MatchResult{}
	if len(terms) == 0 {
		return results
	}

	for _, plant := range catalog {
		if !scorable(plant) {
			continue
		}
		result, ok := scorePlant(plant, analysis.Keywords, terms, e.weights)
		if !ok || result.Score <= 0 {
			continue
		}
		monitor.PlantScored(result)
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > e.config.MaxResults {
		results = results[:e.config.MaxResults]
	}
	return results
}

func (e *Engine) fallback(keywords []string, catalog []*core.PlantRecord) []core.MatchResult {
	results := []core.MatchResult{}
	if len(keywords) == 0 {
		return results
	}
	for _, plant := range catalog {
		if len(results) >= e.config.FallbackMaxResults {
			break
		}
		if !scorable(plant) {
			continue
		}
		if result, ok := fallbackMatch(plant, keywords, e.config.FallbackScore); ok {
			results = append(results, result)
		}
	}
	return results
}

func insightsFor(a query.Analysis, suggestions []string) core.SearchInsights {
	if suggestions == nil {
		suggestions = []string{}
		if len(a.Conditions) == 0 {
			suggestions = SuggestionsNoCondition
		}
	}
	return core.SearchInsights{
		ExtractedKeywords: a.Keywords,
		Conditions:        a.Conditions,
		TargetBenefits:    a.TargetBenefits,
		Suggestions:       slices.Clone(suggestions),
	}
}

// scorable reports whether a record can take part in ranking at all.
func scorable(p *core.PlantRecord) bool {
	return p != nil && strings.TrimSpace(p.Name) != ""
}

// populated reports whether at least one scorable plant carries benefits.
func populated(catalog []*core.PlantRecord) bool {
	for _, p := range catalog {
		if scorable(p) && p.HasBenefits() {
			return true
		}
	}
	return false
}
