package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/herbalist/core"
)

func TestMarshalUnmarshalPlant(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		plant *core.PlantRecord
	}{
		{
			name: "minimal plant",
			plant: &core.PlantRecord{
				ID:   core.IDFromContent("ginger"),
				Name: "Ginger",
			},
		},
		{
			name: "full plant",
			plant: &core.PlantRecord{
				ID:             "42",
				Name:           "Turmeric",
				ScientificName: "Curcuma longa",
				Description:    "Golden rhizome used in curries.",
				Benefits:       []string{"anti-inflammatory", "pain relief"},
				Components:     []string{"curcumin", "turmerone"},
				UsageMethods:   []string{"tea", "paste"},
				Precautions:    []string{"may thin blood"},
				InsertedAt:     now,
				UpdatedAt:      now.Add(time.Hour),
			},
		},
		{
			name: "unicode text",
			plant: &core.PlantRecord{
				ID:       "tulsi",
				Name:     "तुलसी",
				Benefits: []string{"immune support", "श्वसन स्वास्थ्य"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalPlant(tt.plant)
			require.NotEmpty(t, data)
			assert.Equal(t, PlantMUS.Size(*tt.plant), len(data))

			decoded, err := UnmarshalPlant(data)
			require.NoError(t, err)
			assert.Equal(t, tt.plant, decoded)

			n, err := PlantMUS.Skip(data)
			require.NoError(t, err)
			assert.Equal(t, len(data), n)
		})
	}
}

func TestZeroTimesSurvive(t *testing.T) {
	plant := &core.PlantRecord{ID: "a", Name: "Aloe"}
	decoded, err := UnmarshalPlant(MarshalPlant(plant))
	require.NoError(t, err)
	assert.True(t, decoded.InsertedAt.IsZero())
	assert.True(t, decoded.UpdatedAt.IsZero())
}

func TestUnmarshalPlant_Invalid(t *testing.T) {
	valid := MarshalPlant(&core.PlantRecord{
		ID:       "a",
		Name:     "Aloe",
		Benefits: []string{"skin health", "cooling"},
	})

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "empty data", data: []byte{}, wantErr: ErrTruncatedData},
		{name: "unknown version", data: append([]byte{9}, valid[1:]...), wantErr: ErrUnsupportedVersion},
		{name: "truncated", data: valid[:len(valid)/2]},
		{name: "oversized list length", data: []byte{plantFormatV1, 0, 0, 0, 0, 0x7f}, wantErr: ErrTruncatedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalPlant(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSerializationFailed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
