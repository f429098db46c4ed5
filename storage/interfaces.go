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

package storage

import (
	"context"

	"github.com/poiesic/herbalist/core"
)

// PlantRepository stores the plant catalog.
// Implementations must be thread-safe and support concurrent access.
type PlantRepository interface {
	// AddPlants inserts or replaces plants by ID.
	// New plants go to the end of the catalog; replaced plants keep their
	// position and original InsertedAt. Sets InsertedAt and UpdatedAt.
	// Every plant must pass core.ValidateStoredPlant.
	AddPlants(ctx context.Context, plants ...*core.PlantRecord) ([]*core.PlantRecord, error)

	// GetPlant retrieves a single plant by ID.
	// Returns ErrNotFound if the plant doesn't exist.
	GetPlant(ctx context.Context, id core.ID) (*core.PlantRecord, error)

	// GetPlants retrieves multiple plants by their IDs.
	// Returns only the plants that exist (no error for missing plants).
	GetPlants(ctx context.Context, ids ...core.ID) ([]*core.PlantRecord, error)

	// DeletePlants removes plants by their IDs.
	// Returns ErrNotFound if any plant doesn't exist; nothing is deleted then.
	DeletePlants(ctx context.Context, ids ...core.ID) error

	// ListPlants returns the whole catalog in catalog order.
	ListPlants(ctx context.Context) ([]*core.PlantRecord, error)

	// CountPlants returns the number of stored plants.
	CountPlants(ctx context.Context) (int, error)

	// Close releases the repository's resources.
	Close() error
}
