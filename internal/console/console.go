// Package console renders linter output for terminals.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/reoring/jsonldlint/internal/textpos"
)

// Location is a one-based line and column in a file.
type Location struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is one finding ready for display.
type Diagnostic struct {
	Location Location
	Severity string // "error", "warning", "info"
	Rule     string
	Message  string
	Source   string // the line the finding is on
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	ruleStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6272A4"))
)

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to one relative to the working
// directory when possible.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}

// NewDiagnostic locates offset in the indexed text. Columns count runes.
func NewDiagnostic(file string, idx *textpos.Index, offset int, severity, rule, message string) Diagnostic {
	line, byteCol := idx.Position(offset)
	source := idx.LineText(line)
	if byteCol > len(source) {
		byteCol = len(source)
	}
	return Diagnostic{
		Location: Location{
			File:   file,
			Line:   line + 1,
			Column: utf8.RuneCountInString(source[:byteCol]) + 1,
		},
		Severity: severity,
		Rule:     rule,
		Message:  message,
		Source:   source,
	}
}

// FormatDiagnostic renders d as "file:line:col: severity: message [rule]"
// followed by the source line and a caret.
func FormatDiagnostic(d Diagnostic) string {
	var out strings.Builder

	style, prefix := errorStyle, "error"
	switch d.Severity {
	case "warning":
		style, prefix = warningStyle, "warning"
	case "info":
		style, prefix = infoStyle, "info"
	}

	if d.Location.File != "" {
		loc := fmt.Sprintf("%s:%d:%d:", ToRelativePath(d.Location.File), d.Location.Line, d.Location.Column)
		out.WriteString(applyStyle(filePathStyle, loc))
		out.WriteString(" ")
	}
	out.WriteString(applyStyle(style, prefix+":"))
	out.WriteString(" ")
	out.WriteString(d.Message)
	if d.Rule != "" {
		out.WriteString(" ")
		out.WriteString(applyStyle(ruleStyle, "["+d.Rule+"]"))
	}
	out.WriteString("\n")

	if d.Source != "" && d.Location.Line > 0 {
		num := fmt.Sprintf("%d", d.Location.Line)
		out.WriteString(applyStyle(lineNumberStyle, num))
		out.WriteString(" | ")
		out.WriteString(d.Source)
		out.WriteString("\n")
		if d.Location.Column > 0 {
			out.WriteString(strings.Repeat(" ", len(num)+3+d.Location.Column-1))
			out.WriteString(applyStyle(style, "^"))
			out.WriteString("\n")
		}
	}
	return out.String()
}

// FormatSuccessMessage formats a success message.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatErrorMessage formats an error message.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatVerboseMessage formats verbose output.
func FormatVerboseMessage(message string) string {
	verboseStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("#6272A4"))

	return applyStyle(verboseStyle, "🔍 ") + message
}

var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#BD93F9"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6272A4"))
)

// RenderTable renders rows under headers with padded columns.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	var out strings.Builder
	out.WriteString(renderRow(headers, widths, tableHeaderStyle))
	out.WriteString("\n")
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	out.WriteString(renderRow(sep, widths, tableBorderStyle))
	out.WriteString("\n")
	for _, row := range rows {
		out.WriteString(renderRow(row, widths, lipgloss.NewStyle()))
		out.WriteString("\n")
	}
	return out.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var row strings.Builder
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		pad := widths[i] - utf8.RuneCountInString(cell)
		row.WriteString(applyStyle(style, cell+strings.Repeat(" ", pad)))
		if i < len(cells)-1 && i < len(widths)-1 {
			row.WriteString(applyStyle(tableBorderStyle, " | "))
		}
	}
	return row.String()
}
