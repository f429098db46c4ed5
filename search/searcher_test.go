package search

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/lexicon"
)

type fakeCatalog struct {
	plants   []*core.PlantRecord
	failures int32
	calls    atomic.Int32
	err      error
}

func (f *fakeCatalog) ListPlants(_ context.Context) ([]*core.PlantRecord, error) {
	n := f.calls.Add(1)
	if f.err != nil && n <= f.failures {
		return nil, f.err
	}
	return f.plants, nil
}

type recordingMonitor struct {
	noopMonitor
	stages   []string
	scored   []string
	fallback bool
}

func (m *recordingMonitor) Start(_ string) { m.stages = append(m.stages, "start") }
func (m *recordingMonitor) AfterKeywordExtraction(_ []string) {
	m.stages = append(m.stages, "keywords")
}
func (m *recordingMonitor) AfterConditionExtraction(_, _ []string) {
	m.stages = append(m.stages, "conditions")
}
func (m *recordingMonitor) AfterCatalogLoad(_ int) { m.stages = append(m.stages, "catalog") }
func (m *recordingMonitor) PlantScored(r core.MatchResult) {
	m.scored = append(m.scored, r.Plant.Name)
}
func (m *recordingMonitor) FallbackUsed(_ []core.MatchResult) { m.fallback = true }
func (m *recordingMonitor) Finish(_ core.SearchResponse)      { m.stages = append(m.stages, "finish") }

func fastRetry() Option {
	return WithConfig(NewConfig(WithCatalogRetry(3, time.Millisecond)))
}

func TestNewSearcher(t *testing.T) {
	source := &fakeCatalog{}

	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewSearcher(source, lexicon.Default())
		require.NoError(t, err)
		assert.NotNil(t, s.Engine())
	})

	t.Run("with custom logger", func(t *testing.T) {
		s, err := NewSearcher(source, lexicon.Default(), WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("nil catalog source", func(t *testing.T) {
		_, err := NewSearcher(nil, lexicon.Default())
		assert.Equal(t, ErrCatalogRequired, err)
	})

	t.Run("nil vocabulary", func(t *testing.T) {
		_, err := NewSearcher(source, nil)
		assert.Equal(t, ErrVocabularyRequired, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewSearcher(source, lexicon.Default(), WithConfig(NewConfig(WithWeights(0, 0, 0))))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestSearch(t *testing.T) {
	source := &fakeCatalog{plants: []*core.PlantRecord{
		plant("Chamomile", "calming", "sleep aid"),
		plant("Ginger", "digestive health"),
	}}
	s, err := NewSearcher(source, lexicon.Default(), fastRetry())
	require.NoError(t, err)

	resp, err := s.Search(context.Background(), "insomnia, cannot sleep")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "Chamomile", resp.Results[0].Plant.Name)

	// every call reads a fresh snapshot
	source.plants = append(source.plants, plant("Valerian", "sleep aid", "calming", "relaxation"))
	resp, err = s.Search(context.Background(), "insomnia")
	require.NoError(t, err)
	assert.Equal(t, "Valerian", resp.Results[0].Plant.Name)
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestSearchRetriesCatalog(t *testing.T) {
	source := &fakeCatalog{
		plants:   []*core.PlantRecord{plant("Ginger", "digestive health")},
		failures: 2,
		err:      errors.New("store busy"),
	}
	s, err := NewSearcher(source, lexicon.Default(), fastRetry())
	require.NoError(t, err)

	resp, err := s.Search(context.Background(), "stomach ache")
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, int32(3), source.calls.Load())
}

func TestSearchCatalogUnavailable(t *testing.T) {
	storeErr := errors.New("store offline")
	source := &fakeCatalog{failures: 100, err: storeErr}
	s, err := NewSearcher(source, lexicon.Default(), fastRetry())
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "stomach ache")
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, int32(3), source.calls.Load())
}

func TestSearchCanceled(t *testing.T) {
	source := &fakeCatalog{}
	s, err := NewSearcher(source, lexicon.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Search(ctx, "stomach ache")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), source.calls.Load())
}

func TestSearchWithMonitor(t *testing.T) {
	source := &fakeCatalog{plants: []*core.PlantRecord{
		plant("Turmeric", "anti-inflammatory"),
		plant("Ginger", "warming tonic"),
	}}
	s, err := NewSearcher(source, lexicon.Default())
	require.NoError(t, err)

	t.Run("primary", func(t *testing.T) {
		m := &recordingMonitor{}
		_, err := s.SearchWithMonitor(context.Background(), "joint pain", m)
		require.NoError(t, err)
		assert.Equal(t, []string{"start", "keywords", "conditions", "catalog", "finish"}, m.stages)
		assert.Equal(t, []string{"Turmeric"}, m.scored)
		assert.False(t, m.fallback)
	})

	t.Run("fallback", func(t *testing.T) {
		m := &recordingMonitor{}
		resp, err := s.SearchWithMonitor(context.Background(), "ginger", m)
		require.NoError(t, err)
		assert.True(t, resp.Fallback)
		assert.True(t, m.fallback)
	})

	t.Run("default monitor option", func(t *testing.T) {
		m := &recordingMonitor{}
		withMonitor, err := NewSearcher(source, lexicon.Default(), WithMonitor(m))
		require.NoError(t, err)
		_, err = withMonitor.Search(context.Background(), "joint pain")
		require.NoError(t, err)
		assert.NotEmpty(t, m.stages)
	})

	t.Run("nil monitor", func(t *testing.T) {
		_, err := s.SearchWithMonitor(context.Background(), "joint pain", nil)
		assert.NoError(t, err)
	})
}
