package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/reoring/jsonldlint"
)

// Process prints the full result list of one file as indented JSON.
func (r *Runner) Process(ctx context.Context, path string) error {
	if IsDir(path) {
		return fmt.Errorf("supplied path is a directory, expected a file: %s", path)
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	results, err := jsonldlint.Process(ctx, text, r.options...)
	if err != nil {
		return err
	}
	if results == nil {
		results = []jsonldlint.Result{}
	}
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = fmt.Fprintln(r.Out, string(out))
	return err
}
