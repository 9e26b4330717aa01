package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reoring/jsonldlint/internal/config"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch_RelintsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.jsonld", validDoc)

	out := &syncBuffer{}
	r, err := NewRunner(config.Default(), out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx, dir) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "SUCCESS: ")
	}, 5*time.Second, 20*time.Millisecond, "initial lint")

	require.NoError(t, os.WriteFile(path, []byte(unmappedDoc), 0o644))
	writeFile(t, dir, "ignored.txt", "not linted")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "LINT: ")
	}, 5*time.Second, 20*time.Millisecond, "lint after change")
	require.NotContains(t, out.String(), "ignored.txt")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	require.FileExists(t, filepath.Join(dir, "doc.jsonld"))
}
