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

// Package ingestion loads plant catalogs from JSON or YAML documents into a
// storage.PlantRepository.
//
// Catalog documents come from many hands and disagree on shape. Decode
// accepts a top-level list or an object with a "plants" list, and RawPlant
// accepts the field spellings seen in the wild:
//   - name or plantName
//   - scientificName or scientific_name
//   - usageMethods or usage_methods
//   - id as a number or a string
//
// List-valued fields (benefits, components, usage methods, precautions) may
// be a list or a single string delimited by commas, semicolons or newlines.
// Both forms normalize to a trimmed []string through TextList.
//
// An Importer converts and validates records on a worker pool, derives IDs
// for records that carry none, and writes valid records in batches with
// retry. Invalid records are reported, never fatal.
package ingestion
