// Package parquet exports decoded best-track records as Parquet files,
// one row per observation.
package parquet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/couchcryptid/storm-besttrack/internal/domain"
)

// CompressionType represents a Parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionGzip
)

// ErrUnknownCompression is returned for compression names other than
// none, snappy, zstd and gzip.
var ErrUnknownCompression = errors.New("compression must be none, snappy, zstd or gzip")

// ParseCompressionType parses a compression name. An empty name means none.
func ParseCompressionType(s string) (CompressionType, error) {
	switch strings.ToLower(s) {
	case "snappy":
		return CompressionSnappy, nil
	case "zstd":
		return CompressionZstd, nil
	case "gzip":
		return CompressionGzip, nil
	case "none", "":
		return CompressionNone, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrUnknownCompression, s)
	}
}

func getCompression(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// TrackRow is one observation in Parquet form. Absent optional values are null.
type TrackRow struct {
	StormID       string  `parquet:"storm_id"`
	StormName     string  `parquet:"storm_name"`
	Year          int32   `parquet:"year"`
	Sequence      int32   `parquet:"sequence"`
	Row           int32   `parquet:"row"`
	TimestampMs   int64   `parquet:"timestamp_ms"`
	Grade         int32   `parquet:"grade"`
	Latitude      float64 `parquet:"latitude"`
	Longitude     float64 `parquet:"longitude"`
	Pressure      int32   `parquet:"pressure"`
	MaxWind       *int32  `parquet:"max_wind,optional"`
	Dir50         *int32  `parquet:"dir50,optional"`
	Radius50Long  *int32  `parquet:"radius50_long,optional"`
	Radius50Short *int32  `parquet:"radius50_short,optional"`
	Dir30         *int32  `parquet:"dir30,optional"`
	Radius30Long  *int32  `parquet:"radius30_long,optional"`
	Radius30Short *int32  `parquet:"radius30_short,optional"`
	Landfall      bool    `parquet:"landfall_or_passage"`
	ExportedAtMs  int64   `parquet:"exported_at_ms"`
}

func optional32(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

// TrackToRows flattens a storm track into rows stamped with exportedAtMs.
func TrackToRows(tr domain.StormTrack, exportedAtMs int64) []TrackRow {
	rows := make([]TrackRow, len(tr.Records))
	for i := range tr.Records {
		r := &tr.Records[i]
		rows[i] = TrackRow{
			StormID:       tr.Storm.ID,
			StormName:     tr.Storm.Name,
			Year:          int32(tr.Storm.FullYear),
			Sequence:      int32(tr.Storm.Sequence),
			Row:           int32(i),
			TimestampMs:   r.Timestamp.UnixMilli(),
			Grade:         int32(r.Grade),
			Latitude:      r.Latitude,
			Longitude:     r.Longitude,
			Pressure:      int32(r.Pressure),
			MaxWind:       optional32(r.MaxWind),
			Dir50:         optional32(r.Dir50),
			Radius50Long:  optional32(r.Radius50Long),
			Radius50Short: optional32(r.Radius50Short),
			Dir30:         optional32(r.Dir30),
			Radius30Long:  optional32(r.Radius30Long),
			Radius30Short: optional32(r.Radius30Short),
			Landfall:      r.LandfallOrPassage,
			ExportedAtMs:  exportedAtMs,
		}
	}
	return rows
}

// ErrWriterClosed is returned when writing to a closed writer.
var ErrWriterClosed = errors.New("parquet writer is closed")

// TrackWriter writes track rows to a Parquet file.
type TrackWriter struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	writer   *parquet.GenericWriter[TrackRow]
	rowCount int64
	closed   bool
}

// NewTrackWriter creates the file at path, replacing any existing one.
func NewTrackWriter(path string, ct CompressionType) (*TrackWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	writer := parquet.NewGenericWriter[TrackRow](f, parquet.Compression(getCompression(ct)))

	return &TrackWriter{
		path:   path,
		file:   f,
		writer: writer,
	}, nil
}

// Write appends rows.
func (w *TrackWriter) Write(rows []TrackRow) error {
	if len(rows) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}

	n, err := w.writer.Write(rows)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	w.rowCount += int64(n)
	return nil
}

// Close flushes the footer and closes the file. Safe to call twice.
func (w *TrackWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close writer: %w", err)
	}
	return w.file.Close()
}

// RowCount returns the number of rows written.
func (w *TrackWriter) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// Path returns the file path.
func (w *TrackWriter) Path() string { return w.path }

// Loader writes each batch to a fresh Parquet file.
// It implements pipeline.Loader.
type Loader struct {
	path        string
	compression CompressionType
}

// NewLoader creates a Loader for path.
func NewLoader(path string, ct CompressionType) *Loader {
	return &Loader{path: path, compression: ct}
}

func (l *Loader) Name() string { return "parquet" }

// Load writes all tracks in order, stamping rows with the domain clock.
func (l *Loader) Load(ctx context.Context, tracks []domain.StormTrack) (int, error) {
	w, err := NewTrackWriter(l.path, l.compression)
	if err != nil {
		return 0, err
	}

	// A failed export leaves no file behind.
	abort := func(err error) (int, error) {
		w.Close()
		os.Remove(l.path)
		return 0, err
	}

	stamp := domain.Now().UnixMilli()
	for _, tr := range tracks {
		if err := ctx.Err(); err != nil {
			return abort(err)
		}
		if err := w.Write(TrackToRows(tr, stamp)); err != nil {
			return abort(err)
		}
	}

	if err := w.Close(); err != nil {
		os.Remove(l.path)
		return 0, err
	}
	return int(w.RowCount()), nil
}
