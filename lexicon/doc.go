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

// Package lexicon holds the fixed vocabularies that drive query understanding.
//
// A Vocabulary bundles four tables:
//   - Stopwords: function words dropped before any other processing
//   - Synonyms: phrases of one to three tokens rewritten to a canonical term
//   - Stems: gerunds and participles rewritten to their root
//   - Conditions: the closed list of recognized health conditions, each
//     optionally expanded to the plant benefits that address it
//
// Vocabularies are immutable once built and safe for concurrent use.
//
// # Default tables
//
// Default returns a single table merged from two historical sources: a
// pipeline that carried the stopwords, synonyms, stems and a sixteen-entry
// condition list, and a matcher that carried a condition-to-benefit map.
// The merge keeps every entry of both:
//   - stopwords, synonyms and stems come from the pipeline tables unchanged
//   - conditions are the pipeline list followed by every matcher key not
//     already present (this keeps "elderly", "grandmother" and "grandfather")
//   - condition benefits are the matcher map, plus entries for the pipeline's
//     canonical names that denote a matcher condition ("hypertension" from
//     "blood pressure", "common cold" from "cold", "sleep problems" from
//     "sleep", "stomach problems" from "stomach")
//
// # Vocabulary files
//
// Load reads a YAML file and merges it over the defaults section by section.
// List sections (stopwords, conditions) replace the default list when present.
// Map sections (synonyms, stems, condition_benefits) are merged key by key,
// with file entries winning:
//
//	version: clinic-2
//	stopwords: [is, the, my, and]
//	synonyms:
//	  high bp: hypertension
//	stems:
//	  aching: ache
//	conditions: [hypertension, diabetes]
//	condition_benefits:
//	  hypertension: [cardiovascular health, circulation]
package lexicon
