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

package core

import (
	"fmt"
	"strings"
)

// ValidatePlant validates a PlantRecord according to domain rules.
//
// Validation rules:
//   - Name must not be empty (after trimming)
//   - Every benefit tag must be non-empty after trimming
//
// NOT validated:
//   - ID (assigned by the catalog owner; see ValidateStoredPlant)
//   - Benefits may be empty; such a plant never matches on the primary pass
//   - Components, UsageMethods, Precautions (free text)
func ValidatePlant(plant *PlantRecord) error {
	if plant == nil {
		return fmt.Errorf("%w: plant is nil", ErrInvalidPlant)
	}

	if strings.TrimSpace(plant.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlant, ErrEmptyPlantName)
	}

	for i, benefit := range plant.Benefits {
		if strings.TrimSpace(benefit) == "" {
			return fmt.Errorf("%w: %w at index %d", ErrInvalidPlant, ErrEmptyBenefit, i)
		}
	}

	return nil
}

// ValidateStoredPlant applies ValidatePlant and additionally requires an ID.
func ValidateStoredPlant(plant *PlantRecord) error {
	if err := ValidatePlant(plant); err != nil {
		return err
	}
	if plant.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPlant, ErrEmptyPlantID)
	}
	return nil
}
