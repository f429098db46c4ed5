package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/herbalist/core"
)

const testCatalog = `[
  {"name": "Turmeric", "scientificName": "Curcuma longa",
   "benefits": ["anti-inflammatory", "pain relief"], "precautions": "may thin blood"},
  {"plantName": "Ginger", "benefits": "nausea relief, digestive aid"},
  {"description": "entry without a name"}
]`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"herbalist"}, args...))
	return stdout.String(), stderr.String(), err
}

func seededDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	catalog := filepath.Join(dir, "plants.json")
	require.NoError(t, os.WriteFile(catalog, []byte(testCatalog), 0644))

	db := filepath.Join(dir, "db")
	out, _, err := run(t, "import", "--db", db, catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "plants.json: imported 2 of 3 plants")
	assert.Contains(t, out, "skipped #2")
	return db
}

func findFlag[T cli.Flag](t *testing.T, cmd *cli.Command, name string) T {
	t.Helper()
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok && flag.Names()[0] == name {
			return f
		}
	}
	t.Fatalf("flag %s not found on %s", name, cmd.Name)
	var zero T
	return zero
}

func TestCommandFlags(t *testing.T) {
	app := newApp(&bytes.Buffer{}, &bytes.Buffer{})

	for _, name := range []string{"import", "search", "count", "serve"} {
		t.Run(name+" requires db", func(t *testing.T) {
			cmd := app.Command(name)
			require.NotNil(t, cmd)
			assert.True(t, findFlag[*cli.StringFlag](t, cmd, "db").Required)
		})
	}

	t.Run("min-keyword-length defaults to 0", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](t, app.Command("search"), "min-keyword-length")
		assert.Equal(t, 0, f.Value)
	})

	t.Run("serve address default", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, app.Command("serve"), "addr")
		assert.Equal(t, ":8080", f.Value)
	})
}

func TestMissingRequiredFlags(t *testing.T) {
	_, _, err := run(t, "count")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := run(t, "--log-level", "loud", "insights", "headache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestImportAndCount(t *testing.T) {
	db := seededDB(t)

	out, _, err := run(t, "count", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))
}

func TestImport_Errors(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")

	_, _, err := run(t, "import", "--db", db)
	assert.Error(t, err)

	csv := filepath.Join(dir, "plants.csv")
	require.NoError(t, os.WriteFile(csv, []byte("name\n"), 0644))
	_, _, err = run(t, "import", "--db", db, csv)
	assert.Error(t, err)

	_, _, err = run(t, "import", "--db", db, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestImport_FormatOverride(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(catalog, []byte("- name: Sage\n  benefits: sore throat\n"), 0644))

	out, _, err := run(t, "import", "--db", filepath.Join(dir, "db"), "--format", "yaml", catalog)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 of 1 plants")
}

func TestSearch(t *testing.T) {
	db := seededDB(t)

	out, _, err := run(t, "search", "--db", db, "my", "joints", "hurt", "with", "arthritis")
	require.NoError(t, err)
	assert.Contains(t, out, " 1. Turmeric (Curcuma longa)")
	assert.Contains(t, out, "precautions: may thin blood")
	assert.NotContains(t, out, "Ginger")
}

func TestSearch_JSON(t *testing.T) {
	db := seededDB(t)

	out, _, err := run(t, "search", "--db", db, "--json", "ginger")
	require.NoError(t, err)

	var resp core.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Fallback)
	assert.Equal(t, "Ginger", resp.Results[0].Plant.Name)
	assert.Equal(t, 1, resp.Results[0].Score)
}

func TestSearch_Explain(t *testing.T) {
	db := seededDB(t)

	_, errOut, err := run(t, "search", "--db", db, "--explain", "nausea")
	require.NoError(t, err)
	assert.Contains(t, errOut, `query:      "nausea"`)
	assert.Contains(t, errOut, "catalog:    2 plants")
	assert.Contains(t, errOut, "scored Ginger")
}

func TestSearch_RequiresQuery(t *testing.T) {
	db := seededDB(t)
	_, _, err := run(t, "search", "--db", db)
	assert.Error(t, err)
}

func TestInsights(t *testing.T) {
	out, _, err := run(t, "insights", "my joints hurt with arthritis")
	require.NoError(t, err)

	var insights core.SearchInsights
	require.NoError(t, json.Unmarshal([]byte(out), &insights))
	assert.Equal(t, []string{"arthritis", "joint"}, insights.Conditions)
	assert.NotEmpty(t, insights.TargetBenefits)
	assert.Empty(t, insights.Suggestions)
}

func TestInsights_MinKeywordLength(t *testing.T) {
	out, _, err := run(t, "insights", "--min-keyword-length", "5", "bad headache")
	require.NoError(t, err)

	var insights core.SearchInsights
	require.NoError(t, json.Unmarshal([]byte(out), &insights))
	assert.Equal(t, []string{"headache"}, insights.ExtractedKeywords)
}

func TestVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: local-1\nsynonyms:\n  tummy: stomach\n"), 0644))

	out, _, err := run(t, "vocabulary", "--vocabulary", path)
	require.NoError(t, err)

	var dump vocabularyDump
	require.NoError(t, yaml.Unmarshal([]byte(out), &dump))
	assert.Equal(t, "local-1", dump.Version)
	assert.Equal(t, "stomach", dump.Synonyms["tummy"])
	assert.Equal(t, len(dump.Conditions), dump.Sizes["conditions"])
	assert.NotEmpty(t, dump.Stems)
}
