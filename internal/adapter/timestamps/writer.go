// Package timestamps writes observation times as a plain-text list,
// one second-precision timestamp per line.
package timestamps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-besttrack/internal/domain"
)

// Layout is the per-line format, e.g. 2015-07-03T12:00:00.
const Layout = "2006-01-02T15:04:05"

// Write emits ts in the given order, truncated to whole seconds in UTC.
func Write(w io.Writer, ts []time.Time) error {
	bw := bufio.NewWriter(w)
	for _, t := range ts {
		if _, err := bw.WriteString(t.UTC().Truncate(time.Second).Format(Layout)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FileLoader writes the concatenated timestamps of a batch to one file.
// It implements pipeline.Loader.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader that overwrites path on each Load.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Name() string { return "timestamps" }

// Load concatenates track timestamps in slice order and writes them out.
func (l *FileLoader) Load(_ context.Context, tracks []domain.StormTrack) (int, error) {
	var ts []time.Time
	for _, tr := range tracks {
		ts = append(ts, tr.Timestamps()...)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(l.path)
	if err != nil {
		return 0, fmt.Errorf("create timestamp file: %w", err)
	}
	if err := Write(f, ts); err != nil {
		f.Close()
		return 0, fmt.Errorf("write timestamps: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close timestamp file: %w", err)
	}
	return len(ts), nil
}
