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
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds text to NFKC, lower-cases it, turns every rune that is not
// a letter or digit into a space, and collapses runs of spaces. Combining
// marks are kept when they follow a letter or digit. Normalize is idempotent.
//
// Query text and vocabulary keys both pass through Normalize, so a table
// entry written as "don't" or "Ｆｌｕ" lines up with the tokens a query
// produces.
func Normalize(text string) string {
	folded := strings.ToLower(norm.NFKC.String(text))

	var b strings.Builder
	b.Grow(len(folded))
	inWord := false
	pendingSpace := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
		case inWord && unicode.IsMark(r):
		default:
			if inWord {
				pendingSpace = true
			}
			inWord = false
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
		inWord = true
	}
	return b.String()
}
