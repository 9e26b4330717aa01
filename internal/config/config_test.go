package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonldlint"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, ".jsonld", cfg.FileExtension)
	rules, err := cfg.LintRules()
	require.NoError(t, err)
	require.Equal(t, jsonldlint.DefaultLintingRules, rules)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
}

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(`
fileExtension: .json
recursive: true
rules: [unmapped-term]
cacheSize: 10
contexts:
  https://example.com/ctx: ctx.json
`))
	require.NoError(t, err)
	require.Equal(t, ".json", cfg.FileExtension)
	require.True(t, cfg.Recursive)
	require.Equal(t, 10, cfg.CacheSize)
	require.Equal(t, "ctx.json", cfg.Contexts["https://example.com/ctx"])
	rules, err := cfg.LintRules()
	require.NoError(t, err)
	require.Equal(t, []jsonldlint.LintRule{jsonldlint.UnmappedTerm}, rules)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default().FileExtension, cfg.FileExtension)
}

func TestParse_SchemaViolations(t *testing.T) {
	for name, doc := range map[string]string{
		"extension without dot": "fileExtension: jsonld\n",
		"unknown rule":          "rules: [no-such-rule]\n",
		"unknown key":           "colour: red\n",
		"bad cache size":        "cacheSize: 0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestParseRule(t *testing.T) {
	r, err := ParseRule("jsonld-lint/unrecognized-jsonld-keyword")
	require.NoError(t, err)
	require.Equal(t, jsonldlint.UnrecognizedJsonLdKeyword, r)
	_, err = ParseRule("bogus")
	require.Error(t, err)
}

func TestResolver_PreloadsContextsRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ctx.json"), []byte(`{"@context":{"name":"http://schema.org/name"}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("contexts:\n  https://example.com/ctx: ctx.json\n"), 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	r, err := cfg.Resolver()
	require.NoError(t, err)
	doc, err := r.Resolve(context.Background(), "https://example.com/ctx")
	require.NoError(t, err)
	require.Contains(t, doc, "@context")
}

func TestResolver_BadContextFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ctx.json"), []byte(`not json`), 0o644))
	cfg := Default()
	cfg.dir = dir
	cfg.Contexts = map[string]string{"https://example.com/ctx": "ctx.json"}
	_, err := cfg.Resolver()
	require.ErrorContains(t, err, "is not JSON")
}
