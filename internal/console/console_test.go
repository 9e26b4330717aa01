package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonldlint/internal/textpos"
)

func TestNewDiagnostic(t *testing.T) {
	text := []byte("{\n  \"é\": 1,\n  \"bad\": 2\n}")
	idx := textpos.New(text)
	off := strings.Index(string(text), `"bad"`)

	d := NewDiagnostic("doc.jsonld", idx, off, "warning", "jsonld-lint/unmapped-term", "unmapped")
	require.Equal(t, Location{File: "doc.jsonld", Line: 3, Column: 3}, d.Location)
	require.Equal(t, `  "bad": 2`, d.Source)

	off = strings.Index(string(text), ": 1")
	d = NewDiagnostic("doc.jsonld", idx, off, "error", "", "x")
	require.Equal(t, 6, d.Location.Column, "columns count runes, not bytes")
}

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		name     string
		d        Diagnostic
		expected []string
	}{
		{
			name: "error with source",
			d: Diagnostic{
				Location: Location{File: "a.jsonld", Line: 2, Column: 3},
				Severity: "error",
				Rule:     "jsonld-lint/duplicate-property",
				Message:  "duplicate",
				Source:   `  "a": 1`,
			},
			expected: []string{
				"a.jsonld:2:3: error: duplicate [jsonld-lint/duplicate-property]\n",
				"2 | " + `  "a": 1` + "\n",
				strings.Repeat(" ", 6) + "^\n",
			},
		},
		{
			name: "warning without file",
			d:    Diagnostic{Severity: "warning", Message: "careful"},
			expected: []string{
				"warning: careful\n",
			},
		},
		{
			name: "info",
			d:    Diagnostic{Severity: "info", Message: "note"},
			expected: []string{
				"info: note",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatDiagnostic(tt.d)
			for _, want := range tt.expected {
				require.Contains(t, out, want)
			}
		})
	}
}

func TestFormatDiagnostic_NoSourceNoContext(t *testing.T) {
	out := FormatDiagnostic(Diagnostic{Location: Location{File: "x", Line: 1, Column: 1}, Message: "m"})
	require.Equal(t, "x:1:1: error: m\n", out)
}

func TestMessages(t *testing.T) {
	require.Equal(t, "✓ ok", FormatSuccessMessage("ok"))
	require.Equal(t, "✗ bad", FormatErrorMessage("bad"))
	require.Equal(t, "ℹ fyi", FormatInfoMessage("fyi"))
	require.Equal(t, "⚠ hmm", FormatWarningMessage("hmm"))
	require.Contains(t, FormatVerboseMessage("trace"), "trace")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"File", "Errors"}, [][]string{{"a.jsonld", "1"}, {"b", "10"}})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Equal(t, []string{
		"File     | Errors",
		"-------- | ------",
		"a.jsonld | 1     ",
		"b        | 10    ",
	}, lines)
	require.Empty(t, RenderTable(nil, nil))
}

func TestSpinnerStartStop(t *testing.T) {
	s := NewSpinner("working")
	s.Start()
	s.UpdateMessage("still working")
	s.Stop()
}
