package badger

import "github.com/poiesic/herbalist/storage"

// NewMemoryRepository creates an in-memory plant repository for testing.
// Close releases the underlying store.
func NewMemoryRepository() (storage.PlantRepository, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	repo, err := NewPlantRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}
