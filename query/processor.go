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

package query

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/herbalist/lexicon"
)

// Analysis is the full output of the query pipeline.
type Analysis struct {
	Keywords       []string
	Conditions     []string
	TargetBenefits []string
}

// Processor runs the query pipeline against one vocabulary.
type Processor struct {
	vocab            *lexicon.Vocabulary
	minKeywordLength int
	logger           *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithMinKeywordLength drops keywords shorter than n runes. Zero disables the
// filter.
func WithMinKeywordLength(n int) Option {
	return func(p *Processor) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidMinKeywordLength, n)
		}
		p.minKeywordLength = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a Processor over vocab.
func NewProcessor(vocab *lexicon.Vocabulary, opts ...Option) (*Processor, error) {
	if vocab == nil {
		return nil, ErrVocabularyRequired
	}
	p := &Processor{
		vocab:  vocab,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "query-processor")
	return p, nil
}

// Vocabulary returns the processor's vocabulary.
func (p *Processor) Vocabulary() *lexicon.Vocabulary {
	return p.vocab
}

// RemoveStopwords returns tokens without stopwords.
func (p *Processor) RemoveStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if !p.vocab.IsStopword(token) {
			out = append(out, token)
		}
	}
	return out
}

// ApplySynonyms rewrites phrases to their canonical terms in one left-to-right
// pass. At each position the longest matching window wins and its tokens are
// consumed; unmatched tokens pass through.
func (p *Processor) ApplySynonyms(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		matched := false
		for n := min(lexicon.MaxPhraseTokens, len(tokens)-i); n >= 1; n-- {
			if canonical, ok := p.vocab.Synonym(strings.Join(tokens[i:i+n], " ")); ok {
				out = append(out, canonical)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}

// ApplyStemming maps each token to its root.
func (p *Processor) ApplyStemming(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = p.vocab.Stem(token)
	}
	return out
}

// ExtractKeywords runs the pipeline over a raw query and returns the
// de-duplicated keyword set in first-occurrence order.
func (p *Processor) ExtractKeywords(query string) []string {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []string{}
	}
	stemmed := p.ApplyStemming(p.ApplySynonyms(p.RemoveStopwords(tokens)))

	keywords := make([]string, 0, len(stemmed))
	seen := make(map[string]struct{}, len(stemmed))
	for _, kw := range stemmed {
		if kw == "" || p.vocab.IsStopword(kw) {
			continue
		}
		if p.minKeywordLength > 0 && utf8.RuneCountInString(kw) < p.minKeywordLength {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	return keywords
}

// ExtractConditions selects every condition that contains a keyword or is
// contained by one. The result follows the vocabulary's condition order.
func (p *Processor) ExtractConditions(keywords []string) []string {
	conditions := []string{}
	if len(keywords) == 0 {
		return conditions
	}
	for _, condition := range p.vocab.Conditions() {
		for _, kw := range keywords {
			if Overlaps(condition, kw) {
				conditions = append(conditions, condition)
				break
			}
		}
	}
	return conditions
}

// TargetBenefits expands conditions into the benefit terms that address them.
func (p *Processor) TargetBenefits(conditions []string) []string {
	benefits := []string{}
	seen := make(map[string]struct{})
	for _, condition := range conditions {
		for _, b := range p.vocab.BenefitsFor(condition) {
			if _, dup := seen[b]; dup {
				continue
			}
			seen[b] = struct{}{}
			benefits = append(benefits, b)
		}
	}
	return benefits
}

// Analyze runs the complete pipeline.
func (p *Processor) Analyze(query string) Analysis {
	keywords := p.ExtractKeywords(query)
	conditions := p.ExtractConditions(keywords)
	a := Analysis{
		Keywords:       keywords,
		Conditions:     conditions,
		TargetBenefits: p.TargetBenefits(conditions),
	}
	p.logger.Debug("analyzed query",
		"keywords", len(a.Keywords),
		"conditions", len(a.Conditions),
		"target_benefits", len(a.TargetBenefits))
	return a
}
