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
	"math"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/query"
)

// weights is the scoring slice of Config.
type weights struct {
	benefit            int
	text               int
	component          int
	maxMatchedBenefits int
}

// termSet collects matched terms once each, in discovery order.
type termSet struct {
	seen  map[string]struct{}
	terms []string
}

func (s *termSet) add(term string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[term]; ok {
		return
	}
	s.seen[term] = struct{}{}
	s.terms = append(s.terms, term)
}

func (s *termSet) list() []string {
	if s.terms == nil {
		return []string{}
	}
	return s.terms
}

// scoringTerms merges keywords and target benefits into one normalized,
// de-duplicated term list. Terms too short to match are left out.
func scoringTerms(keywords, targetBenefits []string) []string {
	var set termSet
	for _, list := range [][]string{keywords, targetBenefits} {
		for _, t := range list {
			if n := query.Normalize(t); query.Matchable(n) {
				set.add(n)
			}
		}
	}
	return set.list()
}

// scorePlant scores one plant. The boolean is false when the plant has no
// benefit hit and therefore does not qualify.
func scorePlant(plant *core.PlantRecord, keywords, terms []string, w weights) (core.MatchResult, bool) {
	var (
		score     int
		qualified bool
		matched   termSet
	)
	benefits := []string{}
	seenBenefit := make(map[string]struct{}, len(plant.Benefits))

	for _, benefit := range plant.Benefits {
		nb := query.Normalize(benefit)
		if nb == "" {
			continue
		}
		if _, dup := seenBenefit[nb]; dup {
			continue
		}
		seenBenefit[nb] = struct{}{}

		hit := false
		for _, term := range terms {
			if query.Contains(nb, term) {
				score = saturatingAdd(score, w.benefit)
				matched.add(term)
				hit = true
			}
		}
		if !hit {
			continue
		}
		qualified = true
		if len(benefits) < w.maxMatchedBenefits {
			benefits = append(benefits, benefit)
		}
	}
	if !qualified {
		return core.MatchResult{}, false
	}

	text := query.Normalize(plant.Name + " " + plant.ScientificName + " " + plant.Description)
	for _, kw := range keywords {
		if query.Contains(text, kw) {
			score = saturatingAdd(score, w.text)
			matched.add(kw)
		}
	}

	components := make([]string, 0, len(plant.Components))
	for _, c := range plant.Components {
		if nc := query.Normalize(c); nc != "" {
			components = append(components, nc)
		}
	}
	for _, kw := range keywords {
		for _, c := range components {
			if query.Contains(c, kw) {
				score = saturatingAdd(score, w.component)
				matched.add(kw)
				break
			}
		}
	}

	return core.MatchResult{
		Plant:           plant,
		Score:           score,
		MatchedBenefits: benefits,
		MatchedTerms:    matched.list(),
	}, true
}

// fallbackMatch matches keywords against the plant name in either direction.
func fallbackMatch(plant *core.PlantRecord, keywords []string, score int) (core.MatchResult, bool) {
	name := query.Normalize(plant.Name)
	var matched termSet
	for _, kw := range keywords {
		if query.Overlaps(name, kw) {
			matched.add(kw)
		}
	}
	if len(matched.terms) == 0 {
		return core.MatchResult{}, false
	}
	return core.MatchResult{
		Plant:           plant,
		Score:           score,
		MatchedBenefits: []string{},
		MatchedTerms:    matched.list(),
	}, true
}

func saturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
