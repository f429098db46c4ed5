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

package lexicon

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/herbalist/core"
)

// MaxPhraseTokens is the longest synonym phrase, in tokens.
const MaxPhraseTokens = 3

// Definition is the editable, serializable form of a vocabulary.
type Definition struct {
	Version           string              `yaml:"version"`
	Stopwords         []string            `yaml:"stopwords"`
	Synonyms          map[string]string   `yaml:"synonyms"`
	Stems             map[string]string   `yaml:"stems"`
	Conditions        []string            `yaml:"conditions"`
	ConditionBenefits map[string][]string `yaml:"condition_benefits"`
}

// Merge overlays other on d and returns the result. List sections present in
// other replace those of d; map sections are merged key by key with other
// winning. Neither input is modified.
func (d Definition) Merge(other Definition) Definition {
	out := Definition{
		Version:           d.Version,
		Stopwords:         slices.Clone(d.Stopwords),
		Synonyms:          mergeStrings(d.Synonyms, other.Synonyms),
		Stems:             mergeStrings(d.Stems, other.Stems),
		Conditions:        slices.Clone(d.Conditions),
		ConditionBenefits: make(map[string][]string, len(d.ConditionBenefits)+len(other.ConditionBenefits)),
	}
	if other.Version != "" {
		out.Version = other.Version
	}
	if other.Stopwords != nil {
		out.Stopwords = slices.Clone(other.Stopwords)
	}
	if other.Conditions != nil {
		out.Conditions = slices.Clone(other.Conditions)
	}
	for k, v := range d.ConditionBenefits {
		out.ConditionBenefits[k] = slices.Clone(v)
	}
	for k, v := range other.ConditionBenefits {
		out.ConditionBenefits[k] = slices.Clone(v)
	}
	return out
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Vocabulary is a validated, immutable set of lookup tables.
type Vocabulary struct {
	version           string
	stopwords         map[string]struct{}
	synonyms          map[string]string
	stems             map[string]string
	conditions        []string
	conditionBenefits map[string][]string
}

// New validates def and builds a Vocabulary from it. Stopwords, synonym
// phrases and replacements, stems and conditions go through Normalize so
// file entries line up with query tokens. A stopword that normalizes to
// several tokens ("don't") adds each of them. Benefit terms are only
// lower-cased and whitespace-collapsed; they are display text and scoring
// normalizes them itself.
func New(def Definition) (*Vocabulary, error) {
	v := &Vocabulary{
		version:           def.Version,
		stopwords:         make(map[string]struct{}, len(def.Stopwords)),
		synonyms:          make(map[string]string, len(def.Synonyms)),
		stems:             make(map[string]string, len(def.Stems)),
		conditions:        make([]string, 0, len(def.Conditions)),
		conditionBenefits: make(map[string][]string, len(def.ConditionBenefits)),
	}

	for i, word := range def.Stopwords {
		tokens := strings.Fields(Normalize(word))
		if len(tokens) == 0 {
			return nil, fmt.Errorf("%w: stopword at index %d: %w", ErrInvalidVocabulary, i, ErrEmptyPhrase)
		}
		for _, tok := range tokens {
			v.stopwords[tok] = struct{}{}
		}
	}

	for phrase, replacement := range def.Synonyms {
		key := Normalize(phrase)
		if key == "" {
			return nil, fmt.Errorf("%w: synonym: %w", ErrInvalidVocabulary, ErrEmptyPhrase)
		}
		if n := len(strings.Fields(key)); n > MaxPhraseTokens {
			return nil, fmt.Errorf("%w: synonym %q has %d tokens: %w", ErrInvalidVocabulary, phrase, n, ErrPhraseTooLong)
		}
		value := Normalize(replacement)
		if value == "" {
			return nil, fmt.Errorf("%w: synonym %q: %w", ErrInvalidVocabulary, phrase, ErrEmptyReplacement)
		}
		v.synonyms[key] = value
	}

	for token, root := range def.Stems {
		key := Normalize(token)
		if key == "" {
			return nil, fmt.Errorf("%w: stem: %w", ErrInvalidVocabulary, ErrEmptyPhrase)
		}
		if strings.Contains(key, " ") {
			return nil, fmt.Errorf("%w: stem %q must be a single token: %w", ErrInvalidVocabulary, token, ErrPhraseTooLong)
		}
		value := Normalize(root)
		if value == "" {
			return nil, fmt.Errorf("%w: stem %q: %w", ErrInvalidVocabulary, token, ErrEmptyReplacement)
		}
		v.stems[key] = value
	}

	seen := make(map[string]struct{}, len(def.Conditions))
	for i, condition := range def.Conditions {
		key := Normalize(condition)
		if key == "" {
			return nil, fmt.Errorf("%w: condition at index %d: %w", ErrInvalidVocabulary, i, ErrEmptyPhrase)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		v.conditions = append(v.conditions, key)
	}

	for condition, benefits := range def.ConditionBenefits {
		key := Normalize(condition)
		if key == "" {
			return nil, fmt.Errorf("%w: condition benefits: %w", ErrInvalidVocabulary, ErrEmptyPhrase)
		}
		terms := make([]string, 0, len(benefits))
		for _, b := range benefits {
			term := canonical(b)
			if term == "" {
				return nil, fmt.Errorf("%w: condition %q has an empty benefit: %w", ErrInvalidVocabulary, condition, ErrEmptyReplacement)
			}
			terms = append(terms, term)
		}
		v.conditionBenefits[key] = terms
	}

	return v, nil
}

// Parse decodes a YAML vocabulary document and merges it over the defaults.
func Parse(data []byte) (*Vocabulary, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)
	}
	return New(DefaultDefinition().Merge(def))
}

// Load reads a YAML vocabulary file and merges it over the defaults.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Version returns the vocabulary's version label.
func (v *Vocabulary) Version() string {
	return v.version
}

// IsStopword reports whether token is a stopword.
func (v *Vocabulary) IsStopword(token string) bool {
	_, ok := v.stopwords[token]
	return ok
}

// Synonym returns the canonical term for a space-joined phrase.
func (v *Vocabulary) Synonym(phrase string) (string, bool) {
	c, ok := v.synonyms[phrase]
	return c, ok
}

// Stem returns the root for token, or token itself when no rule applies.
func (v *Vocabulary) Stem(token string) string {
	if root, ok := v.stems[token]; ok {
		return root
	}
	return token
}

// Conditions returns the condition list in declaration order.
func (v *Vocabulary) Conditions() []string {
	return slices.Clone(v.conditions)
}

// BenefitsFor returns the target benefits for condition. A condition with no
// table entry targets itself.
func (v *Vocabulary) BenefitsFor(condition string) []string {
	if benefits, ok := v.conditionBenefits[condition]; ok {
		return slices.Clone(benefits)
	}
	return []string{condition}
}

// SynonymRules lists the synonym table sorted by phrase.
func (v *Vocabulary) SynonymRules() []core.SynonymRule {
	rules := make([]core.SynonymRule, 0, len(v.synonyms))
	for phrase, c := range v.synonyms {
		rules = append(rules, core.SynonymRule{Phrase: phrase, Canonical: c})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Phrase < rules[j].Phrase })
	return rules
}

// StemRules lists the stem table sorted by token.
func (v *Vocabulary) StemRules() []core.StemRule {
	rules := make([]core.StemRule, 0, len(v.stems))
	for token, root := range v.stems {
		rules = append(rules, core.StemRule{Token: token, Root: root})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].Token < rules[j].Token })
	return rules
}

// Stats summarizes table sizes for logging.
func (v *Vocabulary) Stats() map[string]int {
	return map[string]int{
		"stopwords":          len(v.stopwords),
		"synonyms":           len(v.synonyms),
		"stems":              len(v.stems),
		"conditions":         len(v.conditions),
		"condition_benefits": len(v.conditionBenefits),
	}
}

func canonical(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
