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

package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// TextList is a list field that may arrive either as a list of text or as
// one delimited string. Entries are trimmed and empty entries dropped.
type TextList []string

// ParseTextList splits s on commas, semicolons and newlines.
func ParseTextList(s string) TextList {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	return clean(parts)
}

func clean(items []string) TextList {
	out := make(TextList, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Strings returns the entries as a plain slice.
func (t TextList) Strings() []string {
	if len(t) == 0 {
		return nil
	}
	return []string(t)
}

// UnmarshalJSON accepts an array of strings, a string, or null.
func (t *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = nil
		return nil
	case data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTextList, err)
		}
		*t = clean(items)
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTextList, err)
		}
		*t = ParseTextList(s)
		return nil
	default:
		return fmt.Errorf("%w: got %s", ErrInvalidTextList, data)
	}
}

// UnmarshalYAML accepts a sequence of scalars, a scalar, or null.
func (t *TextList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTextList, err)
		}
		*t = clean(items)
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*t = nil
			return nil
		}
		*t = ParseTextList(node.Value)
		return nil
	default:
		return fmt.Errorf("%w: line %d", ErrInvalidTextList, node.Line)
	}
}

// flexString accepts a JSON or YAML string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

func (f *flexString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("id must be a scalar (line %d)", node.Line)
	}
	if node.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = flexString(node.Value)
	return nil
}
