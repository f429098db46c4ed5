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
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/herbalist/core"
)

// Format is a catalog document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// RawPlant is one catalog entry as it appears in an upload.
type RawPlant struct {
	ID                flexString `json:"id" yaml:"id"`
	Name              string     `json:"name" yaml:"name"`
	PlantName         string     `json:"plantName" yaml:"plantName"`
	ScientificName    string     `json:"scientificName" yaml:"scientificName"`
	ScientificNameAlt string     `json:"scientific_name" yaml:"scientific_name"`
	Description       string     `json:"description" yaml:"description"`
	Benefits          TextList   `json:"benefits" yaml:"benefits"`
	Components        TextList   `json:"components" yaml:"components"`
	UsageMethods      TextList   `json:"usageMethods" yaml:"usageMethods"`
	UsageMethodsAlt   TextList   `json:"usage_methods" yaml:"usage_methods"`
	Precautions       TextList   `json:"precautions" yaml:"precautions"`
}

// Record resolves field aliases and returns a validated PlantRecord. A
// record without an ID gets one derived from its lower-cased name.
func (r *RawPlant) Record() (*core.PlantRecord, error) {
	rec := &core.PlantRecord{
		ID:             core.ID(strings.TrimSpace(string(r.ID))),
		Name:           firstNonEmpty(r.Name, r.PlantName),
		ScientificName: firstNonEmpty(r.ScientificName, r.ScientificNameAlt),
		Description:    strings.TrimSpace(r.Description),
		Benefits:       r.Benefits.Strings(),
		Components:     r.Components.Strings(),
		UsageMethods:   r.UsageMethods.Strings(),
		Precautions:    r.Precautions.Strings(),
	}
	if len(rec.UsageMethods) == 0 {
		rec.UsageMethods = r.UsageMethodsAlt.Strings()
	}
	if rec.ID == "" && rec.Name != "" {
		rec.ID = core.IDFromContent(strings.ToLower(rec.Name))
	}
	if err := core.ValidateStoredPlant(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DisplayName is the best available label for reports.
func (r *RawPlant) DisplayName() string {
	if name := firstNonEmpty(r.Name, r.PlantName); name != "" {
		return name
	}
	return string(r.ID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}

type catalogDocument struct {
	Plants []RawPlant `json:"plants" yaml:"plants"`
}

// Decode reads a catalog document: a list of plants, or an object with a
// "plants" list.
func Decode(r io.Reader, format Format) ([]RawPlant, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var plants []RawPlant
	switch format {
	case FormatJSON:
		plants, err = decodeJSON(data)
	case FormatYAML:
		plants, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCatalog, err)
	}
	if plants == nil {
		plants = []RawPlant{}
	}
	return plants, nil
}

func decodeJSON(data []byte) ([]RawPlant, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var plants []RawPlant
		err := json.Unmarshal(trimmed, &plants)
		return plants, err
	case '{':
		var doc catalogDocument
		err := json.Unmarshal(trimmed, &doc)
		return doc.Plants, err
	default:
		return nil, fmt.Errorf("expected an array or an object, got %q", trimmed[0])
	}
}

func decodeYAML(data []byte) ([]RawPlant, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, nil
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	switch node.Kind {
	case yaml.SequenceNode:
		var plants []RawPlant
		err := node.Decode(&plants)
		return plants, err
	case yaml.MappingNode:
		var doc catalogDocument
		err := node.Decode(&doc)
		return doc.Plants, err
	default:
		return nil, fmt.Errorf("expected a sequence or a mapping at line %d", node.Line)
	}
}
