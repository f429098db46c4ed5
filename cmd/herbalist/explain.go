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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/search"
)

// explainMonitor prints each search stage for --explain.
type explainMonitor struct {
	w      io.Writer
	scored int
}

var _ search.SearchMonitor = (*explainMonitor)(nil)

func newExplainMonitor(w io.Writer) *explainMonitor {
	return &explainMonitor{w: w}
}

func (m *explainMonitor) Start(query string) {
	m.scored = 0
	fmt.Fprintf(m.w, "query:      %q\n", query)
}

func (m *explainMonitor) AfterKeywordExtraction(keywords []string) {
	fmt.Fprintf(m.w, "keywords:   %s\n", list(keywords))
}

func (m *explainMonitor) AfterConditionExtraction(conditions, targetBenefits []string) {
	fmt.Fprintf(m.w, "conditions: %s\n", list(conditions))
	fmt.Fprintf(m.w, "targets:    %s\n", list(targetBenefits))
}

func (m *explainMonitor) AfterCatalogLoad(plants int) {
	fmt.Fprintf(m.w, "catalog:    %d plants\n", plants)
}

func (m *explainMonitor) PlantScored(result core.MatchResult) {
	m.scored++
	fmt.Fprintf(m.w, "  scored %-20s %3d  terms=%s\n", result.Plant.Name, result.Score, list(result.MatchedTerms))
}

func (m *explainMonitor) FallbackUsed(results []core.MatchResult) {
	fmt.Fprintf(m.w, "fallback:   %d name matches\n", len(results))
}

func (m *explainMonitor) Finish(response core.SearchResponse) {
	fmt.Fprintf(m.w, "done:       %d qualified, %d returned\n\n", m.scored, len(response.Results))
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
