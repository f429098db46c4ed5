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

import "github.com/poiesic/herbalist/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to trace how a query was understood and scored.
type SearchMonitor interface {
	Start(query string)
	AfterKeywordExtraction(keywords []string)
	AfterConditionExtraction(conditions, targetBenefits []string)
	AfterCatalogLoad(plants int)
	PlantScored(result core.MatchResult)
	FallbackUsed(results []core.MatchResult)
	Finish(response core.SearchResponse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterKeywordExtraction(_ []string)      {}
func (n *noopMonitor) AfterConditionExtraction(_, _ []string) {}
func (n *noopMonitor) AfterCatalogLoad(_ int)                 {}
func (n *noopMonitor) PlantScored(_ core.MatchResult)         {}
func (n *noopMonitor) FallbackUsed(_ []core.MatchResult)      {}
func (n *noopMonitor) Finish(_ core.SearchResponse)           {}
