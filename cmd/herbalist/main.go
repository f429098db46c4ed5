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

package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/herbalist"
	"github.com/poiesic/herbalist/core"
	"github.com/poiesic/herbalist/ingestion"
	"github.com/poiesic/herbalist/lexicon"
	"github.com/poiesic/herbalist/retry"
	"github.com/poiesic/herbalist/search"
	"github.com/poiesic/herbalist/server"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "herbalist",
		Usage:     "Match plain-language health complaints to plant remedies",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import plant catalog files (JSON or YAML)",
				ArgsUsage: "FILE...",
				Action:    importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Catalog format (json, yaml); default is taken from each file's extension",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of plants written per batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of conversion workers",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for a failed batch write",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 100 * time.Millisecond,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Rank catalog plants for a query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "max-results",
						Usage: "Maximum number of ranked results",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print each pipeline stage as the query is processed",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the response as JSON",
					},
				}, analysisFlags()...),
			},
			{
				Name:      "insights",
				Usage:     "Show how a query is understood, without a catalog",
				ArgsUsage: "QUERY...",
				Action:    insightsCommand,
				Flags:     analysisFlags(),
			},
			{
				Name:   "count",
				Usage:  "Print the number of catalog plants",
				Action: countCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "serve",
				Usage:  "Serve search over HTTP",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.DurationFlag{
						Name:  "request-timeout",
						Usage: "Maximum time spent on one request",
						Value: 30 * time.Second,
					},
					&cli.StringFlag{
						Name:  "allowed-origin",
						Usage: "Access-Control-Allow-Origin header value",
						Value: "*",
					},
				}, analysisFlags()...),
			},
			{
				Name:   "vocabulary",
				Usage:  "Print the effective vocabulary tables as YAML",
				Action: vocabularyCommand,
				Flags: []cli.Flag{
					vocabularyFlag(),
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func vocabularyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "vocabulary",
		Usage: "YAML vocabulary file merged over the built-in tables",
	}
}

func analysisFlags() []cli.Flag {
	return []cli.Flag{
		vocabularyFlag(),
		&cli.IntFlag{
			Name:  "min-keyword-length",
			Usage: "Drop keywords shorter than this many characters (0 keeps all)",
			Value: 0,
		},
	}
}

func loadVocabulary(c *cli.Context) (*lexicon.Vocabulary, error) {
	path := c.String("vocabulary")
	if path == "" {
		return lexicon.Default(), nil
	}
	vocab, err := lexicon.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return vocab, nil
}

func searchConfig(c *cli.Context) *search.Config {
	opts := []search.ConfigOption{search.WithMinKeywordLength(c.Int("min-keyword-length"))}
	if c.IsSet("max-results") {
		opts = append(opts, search.WithMaxResults(c.Int("max-results")))
	}
	return search.NewConfig(opts...)
}

func openDatabase(c *cli.Context) (*herbalist.Database, error) {
	vocab, err := loadVocabulary(c)
	if err != nil {
		return nil, err
	}
	db, err := herbalist.NewDatabase(c.String("db"), herbalist.WithVocabulary(vocab))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func queryArg(c *cli.Context) (string, error) {
	q := strings.Join(c.Args().Slice(), " ")
	if q == "" {
		return "", fmt.Errorf("a query is required")
	}
	return q, nil
}

func importCommand(c *cli.Context) error {
	ctx := c.Context
	if c.NArg() == 0 {
		return fmt.Errorf("at least one catalog file is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := db.NewImporter(
		ingestion.WithPoolSize(c.Int("workers")),
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithRetryPolicy(retry.Policy{
			MaxAttempts: c.Int("max-retries"),
			BaseDelay:   c.Duration("retry-delay"),
			MaxDelay:    10 * c.Duration("retry-delay"),
		}),
		ingestion.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return fmt.Errorf("failed to create importer: %w", err)
	}
	defer importer.Release()

	for _, path := range c.Args().Slice() {
		raws, err := readCatalog(path, c.String("format"))
		if err != nil {
			return err
		}
		report, err := importer.Import(ctx, raws)
		if err != nil {
			return fmt.Errorf("import of %s failed: %w", path, err)
		}
		fmt.Fprintf(c.App.Writer, "%s: imported %d of %d plants\n", filepath.Base(path), report.Imported, report.Total)
		for _, s := range report.Skipped {
			fmt.Fprintf(c.App.Writer, "  skipped #%d %q: %s\n", s.Index, s.Name, s.Reason)
		}
	}
	return nil
}

func readCatalog(path, formatName string) ([]ingestion.RawPlant, error) {
	var (
		format ingestion.Format
		err    error
	)
	if formatName != "" {
		format, err = ingestion.ParseFormat(formatName)
	} else {
		format, err = ingestion.FormatFromPath(path)
	}
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raws, err := ingestion.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raws, nil
}

func searchCommand(c *cli.Context) error {
	q, err := queryArg(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(search.WithConfig(searchConfig(c)))
	if err != nil {
		return err
	}

	var resp *core.SearchResponse
	if c.Bool("explain") {
		resp, err = searcher.SearchWithMonitor(c.Context, q, newExplainMonitor(c.App.ErrWriter))
	} else {
		resp, err = searcher.Search(c.Context, q)
	}
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, resp)
	}
	printResponse(c.App.Writer, resp)
	return nil
}

func insightsCommand(c *cli.Context) error {
	q, err := queryArg(c)
	if err != nil {
		return err
	}
	vocab, err := loadVocabulary(c)
	if err != nil {
		return err
	}
	engine, err := search.NewEngine(vocab, search.WithConfig(searchConfig(c)))
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, engine.ExtractSearchContext(q))
}

func countCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.PlantRepository().CountPlants(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, n)
	return nil
}

func serveCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := db.NewServer(
		[]search.Option{search.WithConfig(searchConfig(c))},
		server.WithRequestTimeout(c.Duration("request-timeout")),
		server.WithAllowedOrigin(c.String("allowed-origin")),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, c.String("addr"), 5*time.Second)
}

type vocabularyDump struct {
	Version    string            `yaml:"version"`
	Sizes      map[string]int    `yaml:"sizes"`
	Synonyms   map[string]string `yaml:"synonyms"`
	Stems      map[string]string `yaml:"stems"`
	Conditions []conditionDump   `yaml:"conditions"`
}

type conditionDump struct {
	Name     string   `yaml:"name"`
	Benefits []string `yaml:"benefits,flow"`
}

func vocabularyCommand(c *cli.Context) error {
	vocab, err := loadVocabulary(c)
	if err != nil {
		return err
	}

	dump := vocabularyDump{
		Version:  vocab.Version(),
		Sizes:    vocab.Stats(),
		Synonyms: make(map[string]string),
		Stems:    make(map[string]string),
	}
	for _, r := range vocab.SynonymRules() {
		dump.Synonyms[r.Phrase] = r.Canonical
	}
	for _, r := range vocab.StemRules() {
		dump.Stems[r.Token] = r.Root
	}
	for _, cond := range vocab.Conditions() {
		dump.Conditions = append(dump.Conditions, conditionDump{Name: cond, Benefits: vocab.BenefitsFor(cond)})
	}

	enc := yaml.NewEncoder(c.App.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(dump); err != nil {
		return err
	}
	return enc.Close()
}

func printResponse(w io.Writer, resp *core.SearchResponse) {
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No matching plants.")
	}
	if resp.Fallback {
		fmt.Fprintln(w, "No benefit matched; showing plants whose names match the query.")
	}
	for i, r := range resp.Results {
		name := r.Plant.Name
		if r.Plant.ScientificName != "" {
			name = fmt.Sprintf("%s (%s)", name, r.Plant.ScientificName)
		}
		fmt.Fprintf(w, "%2d. %s  score %d\n", i+1, name, r.Score)
		if len(r.MatchedBenefits) > 0 {
			fmt.Fprintf(w, "    benefits: %s\n", strings.Join(r.MatchedBenefits, ", "))
		}
		if len(r.Plant.Precautions) > 0 {
			fmt.Fprintf(w, "    precautions: %s\n", strings.Join(r.Plant.Precautions, "; "))
		}
	}
	for _, s := range resp.SearchInsights.Suggestions {
		fmt.Fprintf(w, "Tip: %s\n", s)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
