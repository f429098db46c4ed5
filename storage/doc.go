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

// Package storage provides the storage abstraction layer for the plant catalog.
//
// This package defines the repository interface that decouples the catalog
// store from search and import. Alternative backends can be swapped in
// without touching either.
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface, not the concrete type:
//
//	repo, err := badger.NewRepository(path)  // returns storage.PlantRepository
//
// Internal constructors (newPlantRepository, newBackend) may return concrete
// types since they're only used within the implementation package.
//
// # Catalog order
//
// Plants are listed in the order they were first added. Re-adding a plant
// with an existing ID replaces its contents but keeps its position, so
// search ties stay stable across re-imports.
//
// # Usage
//
//	repo, err := badger.NewRepository("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
