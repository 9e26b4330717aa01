// Package cli implements the jsonld-lint commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/sourcegraph/conc/pool"
	"github.com/tliron/commonlog"

	"github.com/reoring/jsonldlint"
	"github.com/reoring/jsonldlint/internal/config"
	"github.com/reoring/jsonldlint/internal/console"
	"github.com/reoring/jsonldlint/internal/textpos"
)

var log = commonlog.GetLogger("jsonldlint.cli")

// ErrFindings is returned when linting reported at least one finding or
// failed on at least one file. Commands map it to exit status 1.
var ErrFindings = errors.New("jsonld-lint: problems found")

// Output formats for lint results.
const (
	FormatText   = "text"
	FormatPretty = "pretty"
)

// Runner holds what one CLI session shares between files.
type Runner struct {
	Config   *config.Config
	Resolver jsonldlint.ContextResolver
	Out      io.Writer
	Format   string
	Summary  bool
	Verbose  bool

	options []jsonldlint.Option
}

// NewRunner builds a runner whose resolver preloads the configured
// contexts.
func NewRunner(cfg *config.Config, out io.Writer) (*Runner, error) {
	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options(resolver)
	if err != nil {
		return nil, err
	}
	return &Runner{
		Config:   cfg,
		Resolver: resolver,
		Out:      out,
		Format:   FormatText,
		options:  opts,
	}, nil
}

// FileReport is the outcome of linting one file.
type FileReport struct {
	Path    string
	Text    []byte
	Results []jsonldlint.Result
	Err     error
}

// Failed reports whether the file produced findings or could not be
// analyzed.
func (r FileReport) Failed() bool {
	return r.Err != nil || len(r.Results) > 0
}

// LintFile lints one file.
func (r *Runner) LintFile(ctx context.Context, path string) FileReport {
	rep := FileReport{Path: path}
	text, err := os.ReadFile(path)
	if err != nil {
		rep.Err = err
		return rep
	}
	rep.Text = text
	rep.Results, rep.Err = jsonldlint.Lint(ctx, text, r.options...)
	return rep
}

// LintFiles lints paths concurrently and returns reports in path order.
func (r *Runner) LintFiles(ctx context.Context, paths []string) []FileReport {
	workers := r.Config.Concurrency
	if workers < 1 {
		workers = 1
	}
	p := pool.NewWithResults[FileReport]().WithMaxGoroutines(workers)
	for _, path := range paths {
		p.Go(func() FileReport {
			log.Debugf("linting %s", path)
			return r.LintFile(ctx, path)
		})
	}
	reports := p.Wait()
	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return reports
}

// Lint lints a file or directory and prints the results. It returns
// ErrFindings when anything was reported.
func (r *Runner) Lint(ctx context.Context, target string) error {
	dir := IsDir(target)
	if !dir && r.Config.Recursive {
		fmt.Fprintln(r.Out, console.FormatWarningMessage("ignoring recursive option, not valid when linting a file"))
	}
	paths, err := Discover(target, r.Config.FileExtension, r.Config.Recursive)
	if err != nil {
		return err
	}
	if dir {
		mode := ""
		if r.Config.Recursive {
			mode = " recursively"
		}
		fmt.Fprintln(r.Out, console.FormatInfoMessage(fmt.Sprintf("Linting directory %s with file filter %s%s", console.ToRelativePath(target), r.Config.FileExtension, mode)))
		if len(paths) == 0 {
			fmt.Fprintln(r.Out, console.FormatInfoMessage("No files found for linting"))
			return nil
		}
	}

	spin := console.NewSpinner(fmt.Sprintf("Linting %d files...", len(paths)))
	if dir {
		spin.Start()
	}
	reports := r.LintFiles(ctx, paths)
	spin.Stop()

	failed := false
	for _, rep := range reports {
		r.printReport(rep)
		failed = failed || rep.Failed()
	}
	if r.Summary && len(reports) > 1 {
		fmt.Fprint(r.Out, console.RenderTable([]string{"File", "Syntax errors", "Lint", "Status"}, summaryRows(reports)))
	}
	if failed {
		return ErrFindings
	}
	return nil
}

func (r *Runner) printReport(rep FileReport) {
	name := console.ToRelativePath(rep.Path)
	if rep.Err != nil {
		fmt.Fprintln(r.Out, console.FormatErrorMessage(fmt.Sprintf("ERROR: %s - %s", name, errorMessage(rep.Err))))
		return
	}
	if len(rep.Results) == 0 {
		fmt.Fprintln(r.Out, console.FormatSuccessMessage("SUCCESS: "+name))
		return
	}
	idx := textpos.New(rep.Text)
	for _, d := range Diagnostics(rep.Path, idx, rep.Results) {
		if r.Format == FormatPretty {
			fmt.Fprint(r.Out, console.FormatDiagnostic(d))
			continue
		}
		label := "LINT"
		if d.Severity == "error" {
			label = "SYNTAX ERROR"
		}
		fmt.Fprintf(r.Out, "%s: %s:%d:%d - %s\n", label, name, d.Location.Line, d.Location.Column, d.Message)
	}
}

// Diagnostics converts findings into console diagnostics, syntax errors
// first. Terms and term values are skipped.
func Diagnostics(path string, idx *textpos.Index, results []jsonldlint.Result) []console.Diagnostic {
	var syntax, lint []console.Diagnostic
	for _, res := range results {
		switch v := res.(type) {
		case jsonldlint.SyntaxError:
			syntax = append(syntax, console.NewDiagnostic(path, idx, v.Position.StartOffset, "error", string(v.Rule), v.Message))
		case jsonldlint.LintResult:
			lint = append(lint, console.NewDiagnostic(path, idx, v.Position.StartOffset, "warning", string(v.Rule), v.Message))
		}
	}
	return append(syntax, lint...)
}

func errorMessage(err error) string {
	if e, ok := jsonldlint.AsError(err); ok {
		return e.Message
	}
	return err.Error()
}

func summaryRows(reports []FileReport) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, rep := range reports {
		var syntax, lint int
		for _, res := range rep.Results {
			switch res.Kind() {
			case jsonldlint.KindSyntaxError:
				syntax++
			case jsonldlint.KindLintResult:
				lint++
			}
		}
		status := "ok"
		if rep.Err != nil {
			status = "error"
		} else if syntax+lint > 0 {
			status = "failed"
		}
		rows = append(rows, []string{console.ToRelativePath(rep.Path), strconv.Itoa(syntax), strconv.Itoa(lint), status})
	}
	return rows
}
