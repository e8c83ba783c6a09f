// Package bstfile reads best-track files from disk. Every call opens its own
// handle, so one File is safe to use from several goroutines.
package bstfile

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/storm-besttrack/internal/domain"
)

// File is a best-track file on disk.
type File struct {
	path   string
	logger *slog.Logger
}

// New returns a File for path. The file is not opened until Index or Decode.
func New(path string, logger *slog.Logger) *File {
	return &File{path: path, logger: logger}
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Index scans the file once and builds its storm index.
func (f *File) Index(opts domain.IndexOptions) (*domain.Index, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open best-track file: %w", err)
	}
	defer fh.Close()

	idx, err := domain.BuildIndex(fh, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	f.logger.Debug("best-track index built", "path", f.path, "storms", idx.Len(), "lines", idx.Lines())
	return idx, nil
}

// Decode re-reads the file and decodes one storm's rows.
func (f *File) Decode(idx *domain.Index, id string) ([]domain.StormTrackRecord, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open best-track file: %w", err)
	}
	defer fh.Close()

	recs, err := domain.Decode(fh, idx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return recs, nil
}

// Track decodes one storm and pairs it with its index entry.
func (f *File) Track(idx *domain.Index, id string) (domain.StormTrack, error) {
	recs, err := f.Decode(idx, id)
	if err != nil {
		return domain.StormTrack{}, err
	}
	entry, _ := idx.Get(id)
	return domain.StormTrack{Storm: entry, Records: recs}, nil
}
