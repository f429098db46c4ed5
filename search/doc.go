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

// Package search ranks a plant catalog against a free-text health query.
//
// An Engine is the pure core. It runs the query pipeline from package query
// and scores every plant in a catalog snapshot:
//   - each benefit tag containing a keyword or target benefit term
//   - the name, scientific name and description containing a keyword
//   - any component containing a keyword
//
// A plant qualifies only through a benefit hit; the other surfaces add to
// the score of plants that already qualify. Qualifying plants are sorted by
// score, ties keeping catalog order, and truncated to Config.MaxResults.
//
// When nothing qualifies, a weaker pass matches keywords against plant names
// and returns up to Config.FallbackMaxResults plants with a flat score.
//
// A Searcher wraps an Engine with a CatalogSource, fetching a fresh snapshot
// for every call and retrying transient failures.
package search
