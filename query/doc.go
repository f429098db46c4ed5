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

// Package query turns free-text health complaints into keywords, recognized
// conditions and the plant benefits those conditions call for.
//
// The pipeline runs in a fixed order:
//
//	normalize -> tokenize -> drop stopwords -> synonyms -> stems -> dedupe
//
// Synonyms run before stems, so a stem rule never sees a phrase that a
// synonym already consumed. The final de-duplication pass also drops any
// token that a stem rule turned into a stopword.
//
// A Processor is immutable and safe for concurrent use.
package query
