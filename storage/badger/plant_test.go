package badger

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/storage"
)

func newTestRepo(t *testing.T) storage.PlantRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testPlant(id, name string, benefits ...string) *core.PlantRecord {
	return &core.PlantRecord{ID: core.ID(id), Name: name, Benefits: benefits}
}

func plantNames(plants []*core.PlantRecord) []string {
	out := make([]string, len(plants))
	for i, p := range plants {
		out[i] = p.Name
	}
	return out
}

func TestAddPlants(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddPlants(ctx,
		testPlant("1", "Turmeric", "anti-inflammatory"),
		testPlant("2", "Ginger", "digestive health"),
	)
	require.NoError(t, err)
	require.Len(t, added, 2)
	for _, p := range added {
		assert.False(t, p.InsertedAt.IsZero())
		assert.Equal(t, p.InsertedAt, p.UpdatedAt)
	}

	got, err := repo.GetPlant(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Turmeric", got.Name)
	assert.Equal(t, []string{"anti-inflammatory"}, got.Benefits)

	count, err := repo.CountPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddPlants_Invalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		plant   *core.PlantRecord
		wantErr error
	}{
		{name: "nil", plant: nil, wantErr: core.ErrInvalidPlant},
		{name: "no id", plant: testPlant("", "Ginger"), wantErr: core.ErrEmptyPlantID},
		{name: "no name", plant: testPlant("x", " "), wantErr: core.ErrEmptyPlantName},
		{name: "empty benefit", plant: testPlant("x", "Ginger", "ok", ""), wantErr: core.ErrEmptyBenefit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.AddPlants(ctx, testPlant("ok", "Fine"), tt.plant)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	count, err := repo.CountPlants(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "a rejected batch writes nothing")
}

func TestAddPlants_UpsertKeepsPosition(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddPlants(ctx,
		testPlant("a", "Aloe", "skin health"),
		testPlant("b", "Basil", "stress relief"),
		testPlant("c", "Clove", "toothache"),
	)
	require.NoError(t, err)
	original, err := repo.GetPlant(ctx, "a")
	require.NoError(t, err)

	_, err = repo.AddPlants(ctx, testPlant("a", "Aloe Vera", "skin health", "burns relief"))
	require.NoError(t, err)

	plants, err := repo.ListPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aloe Vera", "Basil", "Clove"}, plantNames(plants))
	assert.Equal(t, original.InsertedAt, plants[0].InsertedAt)
	assert.False(t, plants[0].UpdatedAt.Before(original.UpdatedAt))

	count, err := repo.CountPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAddPlants_DuplicateIDInBatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddPlants(ctx,
		testPlant("a", "First", "calming"),
		testPlant("a", "Second", "calming"),
	)
	require.NoError(t, err)

	plants, err := repo.ListPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second"}, plantNames(plants))
}

func TestListPlants_CatalogOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var want []string
	for i := range 25 {
		name := fmt.Sprintf("Plant %d", i)
		want = append(want, name)
		_, err := repo.AddPlants(ctx, testPlant(fmt.Sprint(i), name, "calming"))
		require.NoError(t, err)
	}

	plants, err := repo.ListPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, plantNames(plants))
}

func TestListPlants_Empty(t *testing.T) {
	repo := newTestRepo(t)
	plants, err := repo.ListPlants(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, plants)
	assert.Empty(t, plants)
}

func TestGetPlant_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetPlant(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetPlants_SkipsMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.AddPlants(ctx, testPlant("a", "Aloe"), testPlant("b", "Basil"))
	require.NoError(t, err)

	plants, err := repo.GetPlants(ctx, "b", "missing", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Basil", "Aloe"}, plantNames(plants))
}

func TestDeletePlants(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	_, err := repo.AddPlants(ctx, testPlant("a", "Aloe"), testPlant("b", "Basil"), testPlant("c", "Clove"))
	require.NoError(t, err)

	require.NoError(t, repo.DeletePlants(ctx, "b"))
	plants, err := repo.ListPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aloe", "Clove"}, plantNames(plants))

	err = repo.DeletePlants(ctx, "a", "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.GetPlant(ctx, "a")
	assert.NoError(t, err, "failed delete leaves the batch untouched")

	// a re-added plant goes to the end
	_, err = repo.AddPlants(ctx, testPlant("b", "Basil"))
	require.NoError(t, err)
	plants, err = repo.ListPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aloe", "Clove", "Basil"}, plantNames(plants))
}

func TestRepositoryCanceledContext(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListPlants(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.AddPlants(ctx, testPlant("a", "Aloe"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRepository_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")
	ctx := context.Background()

	repo, err := NewRepository(dir)
	require.NoError(t, err)
	_, err = repo.AddPlants(ctx, testPlant("a", "Aloe", "skin health"), testPlant("b", "Basil", "calming"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewRepository(dir)
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.AddPlants(ctx, testPlant("c", "Clove", "toothache"))
	require.NoError(t, err)
	plants, err := repo.ListPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Aloe", "Basil", "Clove"}, plantNames(plants))
}

func TestConcurrentAccess(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddPlants(ctx, testPlant(fmt.Sprint(i), fmt.Sprintf("Plant %d", i), "calming"))
			assert.NoError(t, err)
			_, err = repo.ListPlants(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := repo.CountPlants(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}
