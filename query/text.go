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
	"strings"
	"unicode/utf8"

	"github.com/poiesic/herbalist/lexicon"
)

// MinMatchLength is the shortest term, in runes, that takes part in
// substring matching. Shorter fragments such as the "s" of "it's" would
// otherwise be found inside almost any text.
const MinMatchLength = 2

// Normalize is lexicon.Normalize.
func Normalize(text string) string {
	return lexicon.Normalize(text)
}

// Tokenize normalizes text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}

// Matchable reports whether term is long enough for substring matching.
func Matchable(term string) bool {
	return utf8.RuneCountInString(term) >= MinMatchLength
}

// Contains reports whether normalized text contains term as a substring.
// Terms shorter than MinMatchLength never match.
func Contains(text, term string) bool {
	return Matchable(term) && strings.Contains(text, term)
}

// Overlaps reports whether either string contains the other.
func Overlaps(a, b string) bool {
	return Contains(a, b) || Contains(b, a)
}
