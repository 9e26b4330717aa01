package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonldlint/internal/cli"
)

const unmappedDoc = `{
  "@context": {"name": "http://schema.org/name"},
  "name": "x",
  "foo": 1
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootRunsLint(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.jsonld"), []byte(unmappedDoc), 0o644))

	out, err := execute(t, "doc.jsonld")
	require.ErrorIs(t, err, cli.ErrFindings)
	require.Contains(t, out, "LINT: doc.jsonld:4:3")

	out, err = execute(t, "lint", "--rule", "unrecognized-jsonld-keyword", "doc.jsonld")
	require.NoError(t, err)
	require.Contains(t, out, "SUCCESS: doc.jsonld")
}

func TestConfigFileIsApplied(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json"), []byte(unmappedDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jsonld-lint.yaml"), []byte("fileExtension: .json\nrules: []\n"), 0o644))

	out, err := execute(t, "lint", ".")
	require.NoError(t, err)
	require.Contains(t, out, "SUCCESS: doc.json")
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jsonld-lint.yaml"), []byte("fileExtension: json\n"), 0o644))

	_, err := execute(t, "lint", ".")
	require.ErrorContains(t, err, "invalid config")
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.jsonld"), []byte(unmappedDoc), 0o644))

	out, err := execute(t, "process", "doc.jsonld")
	require.NoError(t, err)
	require.Contains(t, out, "jsonld-lint-result/term-definition")
}

func TestUnknownFormat(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "lint", "--format", "xml", ".")
	require.ErrorContains(t, err, "unknown output format")
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.jsonld"), []byte("not json"), 0o644))
	require.Equal(t, 1, run([]string{"bad.jsonld"}))
	require.Equal(t, 1, run([]string{"lint", "missing.jsonld"}))
}
