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

// Package herbalist ties the plant catalog store to the search, import and
// HTTP components.
package herbalist

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/poiesic/herbalist/ingestion"
	"github.com/poiesic/herbalist/lexicon"
	"github.com/poiesic/herbalist/search"
	"github.com/poiesic/herbalist/server"
	"github.com/poiesic/herbalist/storage"
	"github.com/poiesic/herbalist/storage/badger"
)

// Database is an open plant catalog together with the vocabulary used to
// search it.
type Database struct {
	backend   *badger.Backend
	plantRepo *badger.PlantRepository
	vocab     *lexicon.Vocabulary
	logger    *slog.Logger

	mu        sync.Mutex
	importers []*ingestion.Importer
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	vocab     *lexicon.Vocabulary
	vocabPath string
	inMemory  bool
	logger    *slog.Logger
}

// WithVocabulary sets the search vocabulary. Default is lexicon.Default().
func WithVocabulary(vocab *lexicon.Vocabulary) DatabaseOption {
	return func(o *databaseOptions) {
		o.vocab = vocab
	}
}

// WithVocabularyFile loads the search vocabulary from a YAML file merged
// over the defaults.
func WithVocabularyFile(path string) DatabaseOption {
	return func(o *databaseOptions) {
		o.vocabPath = path
	}
}

// WithInMemory keeps the catalog in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens (or creates) the catalog at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	vocab := options.vocab
	if vocab == nil && options.vocabPath != "" {
		loaded, err := lexicon.Load(options.vocabPath)
		if err != nil {
			return nil, err
		}
		vocab = loaded
	}
	if vocab == nil {
		vocab = lexicon.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	plantRepo, err := badger.NewPlantRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	options.logger.Debug("catalog opened", "path", filePath, "inMemory", options.inMemory, "vocabulary", vocab.Version())
	return &Database{
		backend:   backend,
		plantRepo: plantRepo,
		vocab:     vocab,
		logger:    options.logger,
	}, nil
}

// Close releases importers created by the database, then the store.
func (db *Database) Close() error {
	db.mu.Lock()
	for _, im := range db.importers {
		im.Release()
	}
	db.importers = nil
	db.mu.Unlock()

	var errs []error
	if err := db.plantRepo.Close(); err != nil {
		db.logger.Error("error closing plant repository", "err", err)
		errs = append(errs, err)
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (db *Database) PlantRepository() storage.PlantRepository {
	return db.plantRepo
}

func (db *Database) Vocabulary() *lexicon.Vocabulary {
	return db.vocab
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewSearcher(db.plantRepo, db.vocab, opts...)
}

// NewImporter creates an importer writing to this catalog. The caller
// releases it.
func (db *Database) NewImporter(opts ...ingestion.Option) (*ingestion.Importer, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	return ingestion.NewImporter(db.plantRepo, opts...)
}

// NewServer builds the HTTP handler over this catalog with catalog import
// enabled. Its importer is released by Close.
func (db *Database) NewServer(searchOpts []search.Option, opts ...server.Option) (*server.Server, error) {
	searcher, err := db.NewSearcher(searchOpts...)
	if err != nil {
		return nil, err
	}
	importer, err := db.NewImporter()
	if err != nil {
		return nil, err
	}

	opts = append([]server.Option{server.WithLogger(db.logger), server.WithImporter(importer)}, opts...)
	srv, err := server.New(searcher, db.plantRepo, opts...)
	if err != nil {
		importer.Release()
		return nil, err
	}

	db.mu.Lock()
	db.importers = append(db.importers, importer)
	db.mu.Unlock()
	return srv, nil
}
