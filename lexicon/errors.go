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

import "errors"

var (
	// ErrInvalidVocabulary indicates a vocabulary definition failed validation.
	ErrInvalidVocabulary = errors.New("invalid vocabulary")

	// ErrEmptyPhrase indicates a synonym, stem or condition key is empty.
	ErrEmptyPhrase = errors.New("phrase cannot be empty")

	// ErrPhraseTooLong indicates a synonym phrase has more than MaxPhraseTokens tokens.
	ErrPhraseTooLong = errors.New("phrase has too many tokens")

	// ErrEmptyReplacement indicates a synonym or stem maps to an empty term.
	ErrEmptyReplacement = errors.New("replacement cannot be empty")
)
