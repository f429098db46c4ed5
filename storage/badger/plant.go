package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/storage"
)

// PlantRepository implements storage.PlantRepository using BadgerDB.
type PlantRepository struct {
	backend     *Backend
	seq         *badger.Sequence
	ownsBackend bool
}

var _ storage.PlantRepository = (*PlantRepository)(nil)

// NewPlantRepository creates a PlantRepository on an open backend.
// The caller keeps ownership of backend.
func NewPlantRepository(backend *Backend) (*PlantRepository, error) {
	seq, err := backend.GetSequence(plantSeq)
	if err != nil {
		return nil, err
	}
	return &PlantRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// NewRepository opens the database at path and returns a repository that
// closes it on Close.
func NewRepository(path string, opts ...BackendOption) (storage.PlantRepository, error) {
	backend, err := OpenBackend(path, false, opts...)
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

// Close releases the sequence and, for repositories from NewRepository or
// NewMemoryRepository, the backend.
func (r *PlantRepository) Close() error {
	err := r.seq.Release()
	if r.ownsBackend {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

// AddPlants inserts or replaces plants by ID.
func (r *PlantRepository) AddPlants(ctx context.Context, plants ...*core.PlantRecord) ([]*core.PlantRecord, error) {
	for _, plant := range plants {
		if err := core.ValidateStoredPlant(plant); err != nil {
			return nil, err
		}
	}

	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, plant := range plants {
			seq, found, err := readSeq(tx, plant.ID)
			if err != nil {
				return err
			}

			if found {
				old, err := readPlant(tx, makePlantKey(seq))
				if err != nil {
					return err
				}
				if old != nil {
					plant.InsertedAt = old.InsertedAt
				}
			} else {
				if seq, err = r.nextSeq(); err != nil {
					return err
				}
				if err := tx.Set(makePlantIDKey(plant.ID), encodeSeq(seq)); err != nil {
					return err
				}
				plant.InsertedAt = now
			}
			plant.UpdatedAt = now

			if err := tx.Set(makePlantKey(seq), storage.MarshalPlant(plant)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plants, nil
}

// GetPlant retrieves a single plant by ID.
func (r *PlantRepository) GetPlant(ctx context.Context, id core.ID) (*core.PlantRecord, error) {
	var result *core.PlantRecord
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		var err error
		result, err = r.lookup(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("%w: plant %s", storage.ErrNotFound, id)
		}
		return nil
	})
	return result, err
}

// GetPlants retrieves multiple plants by their IDs, skipping missing ones.
func (r *PlantRepository) GetPlants(ctx context.Context, ids ...core.ID) ([]*core.PlantRecord, error) {
	var result []*core.PlantRecord
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			plant, err := r.lookup(tx, id)
			if err != nil {
				return err
			}
			if plant != nil {
				result = append(result, plant)
			}
		}
		return nil
	})
	return result, err
}

// DeletePlants removes plants by their IDs.
func (r *PlantRepository) DeletePlants(ctx context.Context, ids ...core.ID) error {
	return r.backend.Update(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			seq, found, err := readSeq(tx, id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: plant %s", storage.ErrNotFound, id)
			}
			if err := tx.Delete(makePlantKey(seq)); err != nil {
				return err
			}
			if err := tx.Delete(makePlantIDKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPlants returns every plant in catalog order.
func (r *PlantRepository) ListPlants(ctx context.Context) ([]*core.PlantRecord, error) {
	plants := []*core.PlantRecord{}
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(plantRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var plant *core.PlantRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				plant, err = storage.UnmarshalPlant(val)
				return err
			})
			if err != nil {
				return err
			}
			plants = append(plants, plant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plants, nil
}

// CountPlants returns the number of stored plants.
func (r *PlantRepository) CountPlants(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.View(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(plantIDPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Helper methods

func (r *PlantRepository) nextSeq() (uint64, error) {
	seq, err := r.seq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if seq == 0 {
		return r.seq.Next()
	}
	return seq, nil
}

// lookup resolves id through the index. Returns nil for a missing plant.
func (r *PlantRepository) lookup(tx *badger.Txn, id core.ID) (*core.PlantRecord, error) {
	seq, found, err := readSeq(tx, id)
	if err != nil || !found {
		return nil, err
	}
	return readPlant(tx, makePlantKey(seq))
}

// readSeq reads the catalog position of id.
func readSeq(tx *badger.Txn, id core.ID) (uint64, bool, error) {
	item, err := tx.Get(makePlantIDKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	var seq uint64
	err = item.Value(func(val []byte) error {
		var err error
		seq, err = decodeSeq(val)
		return err
	})
	if err != nil {
		return 0, false, fmt.Errorf("%w: index for %s: %w", storage.ErrSerializationFailed, id, err)
	}
	return seq, true, nil
}

// readPlant reads a plant record. Returns nil for a missing key.
func readPlant(tx *badger.Txn, key []byte) (*core.PlantRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var plant *core.PlantRecord
	err = item.Value(func(val []byte) error {
		var err error
		plant, err = storage.UnmarshalPlant(val)
		return err
	})
	return plant, err
}
