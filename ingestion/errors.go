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

import "errors"

var (
	// ErrRepositoryRequired is returned when a plant repository is not provided.
	ErrRepositoryRequired = errors.New("plant repository required")

	// ErrUnsupportedFormat is returned for catalog formats other than JSON and YAML.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrMalformedCatalog is returned when a catalog document cannot be decoded.
	ErrMalformedCatalog = errors.New("malformed catalog")

	// ErrInvalidTextList is returned when a list field is neither a list nor a string.
	ErrInvalidTextList = errors.New("expected a list of text or a delimited string")

	// ErrInvalidBatchSize is returned when the batch size is < 1.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrImporterReleased is returned by Import after Release.
	ErrImporterReleased = errors.New("importer has been released")
)
