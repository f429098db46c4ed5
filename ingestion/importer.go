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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/retry"
	"github.com/poiesic/herbalist/storage"
)

const defaultBatchSize = 100

// SkippedRecord names an entry that was not imported and why.
type SkippedRecord struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportReport summarizes one Import call.
type ImportReport struct {
	Total    int             `json:"total"`
	Imported int             `json:"imported"`
	Skipped  []SkippedRecord `json:"skipped"`
}

// Importer converts raw catalog entries and writes them to a repository.
// Conversion runs on a worker pool; writes go out in batches.
type Importer struct {
	repo      storage.PlantRepository
	pool      *ants.Pool
	batchSize int
	policy    retry.Policy
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the number of conversion workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if im.pool != nil {
			im.pool.Release()
		}
		im.pool = pool
		return nil
	}
}

// WithBatchSize sets how many plants go into one repository write.
func WithBatchSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			return ErrInvalidBatchSize
		}
		im.batchSize = size
		return nil
	}
}

// WithRetryPolicy sets the policy for repository writes.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(im *Importer) error {
		if err := policy.Validate(); err != nil {
			return err
		}
		im.policy = policy
		return nil
	}
}

// WithProgress writes progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(im *Importer) error {
		im.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger
		return nil
	}
}

// NewImporter creates an importer writing to repo.
func NewImporter(repo storage.PlantRepository, opts ...Option) (*Importer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	im := &Importer{
		repo:      repo,
		pool:      pool,
		batchSize: defaultBatchSize,
		policy:    retry.DefaultPolicy(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(im); optErr != nil {
			im.Release()
			return nil, optErr
		}
	}
	im.logger = im.logger.With("component", "importer")
	im.policy.Logger = im.logger
	return im, nil
}

// Release stops the worker pool. Import returns ErrImporterReleased
// afterwards. Release must not run concurrently with Import.
func (im *Importer) Release() {
	if im.pool != nil {
		im.pool.Release()
		im.pool = nil
	}
}

type converted struct {
	record *core.PlantRecord
	err    error
}

// Import converts and stores raws. Entries that fail validation are
// reported in ImportReport.Skipped and do not stop the import. When two
// entries share an ID the later one wins.
//
// A write failure that survives retrying stops the import; the returned
// report then covers the batches already written.
func (im *Importer) Import(ctx context.Context, raws []RawPlant) (*ImportReport, error) {
	report := &ImportReport{Total: len(raws), Skipped: []SkippedRecord{}}
	if im.pool == nil {
		return report, ErrImporterReleased
	}
	if len(raws) == 0 {
		return report, nil
	}

	results, err := im.convert(ctx, raws)
	if err != nil {
		return report, err
	}

	progress := NewProgress(im.progress, len(raws), im.batchSize)
	progress.Begin()
	defer progress.End()

	records := make([]*core.PlantRecord, 0, len(raws))
	position := make(map[core.ID]int, len(raws))
	origin := make([]int, 0, len(raws))
	for i, res := range results {
		if res.err != nil {
			report.Skipped = append(report.Skipped, SkippedRecord{Index: i, Name: raws[i].DisplayName(), Reason: res.err.Error()})
			progress.Skipped(1)
			continue
		}
		if at, dup := position[res.record.ID]; dup {
			prev := origin[at]
			report.Skipped = append(report.Skipped, SkippedRecord{
				Index:  prev,
				Name:   raws[prev].DisplayName(),
				Reason: fmt.Sprintf("replaced by entry %d with the same id", i),
			})
			progress.Skipped(1)
			records[at] = res.record
			origin[at] = i
			continue
		}
		position[res.record.ID] = len(records)
		records = append(records, res.record)
		origin = append(origin, i)
	}

	for start := 0; start < len(records); start += im.batchSize {
		batch := records[start:min(start+im.batchSize, len(records))]
		if err := im.write(ctx, batch); err != nil {
			im.logger.Error("import stopped", "imported", report.Imported, "err", err)
			return report, err
		}
		report.Imported += len(batch)
		progress.Stored(len(batch))
	}

	im.logger.Info("import finished", "total", report.Total, "imported", report.Imported, "skipped", len(report.Skipped))
	return report, nil
}

func (im *Importer) convert(ctx context.Context, raws []RawPlant) ([]converted, error) {
	results := make([]converted, len(raws))
	var wg sync.WaitGroup
	for i := range raws {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		submitErr := im.pool.Submit(func() {
			defer wg.Done()
			rec, err := raws[i].Record()
			results[i] = converted{record: rec, err: err}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to schedule conversion: %w", submitErr)
		}
	}
	wg.Wait()
	return results, nil
}

func (im *Importer) write(ctx context.Context, batch []*core.PlantRecord) error {
	return im.policy.Do(ctx, func(ctx context.Context) error {
		_, err := im.repo.AddPlants(ctx, batch...)
		if errors.Is(err, core.ErrInvalidPlant) || errors.Is(err, storage.ErrStorageClosed) {
			return retry.Permanent(err)
		}
		return err
	})
}
