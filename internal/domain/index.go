package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	headerIndicator = "66666"
	noName          = "NONAME"

	// DefaultCenturyBoundary splits two-digit years: >= 51 is 19xx, < 51 is 20xx.
	DefaultCenturyBoundary = 51
)

var errShortHeader = errors.New("header line too short")

// IndexOptions controls how a best-track file is indexed.
type IndexOptions struct {
	Format          Format
	CenturyBoundary int
	// StrictDuplicates fails the build on a repeated storm code instead of
	// letting the later header replace the earlier one.
	StrictDuplicates bool
}

// DefaultIndexOptions returns JMA options with the 51 century boundary.
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{
		Format:          FormatJMA,
		CenturyBoundary: DefaultCenturyBoundary,
	}
}

// Index is the read-only storm lookup table of one file.
type Index struct {
	format  Format
	entries map[string]IndexEntry
	order   []string
	lines   int
}

// Format reports the layout the index was built for.
func (x *Index) Format() Format { return x.format }

// Len returns the number of storms.
func (x *Index) Len() int { return len(x.order) }

// Lines returns the number of lines scanned.
func (x *Index) Lines() int { return x.lines }

// Get looks up a storm by code.
func (x *Index) Get(id string) (IndexEntry, bool) {
	e, ok := x.entries[id]
	return e, ok
}

// IDs returns storm codes in header order.
func (x *Index) IDs() []string {
	return append([]string(nil), x.order...)
}

// Entries returns all entries in header order.
func (x *Index) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, len(x.order))
	for _, id := range x.order {
		out = append(out, x.entries[id])
	}
	return out
}

// Since returns entries whose FullYear is at or after year, in header order.
func (x *Index) Since(year int) []IndexEntry {
	var out []IndexEntry
	for _, id := range x.order {
		if e := x.entries[id]; e.FullYear >= year {
			out = append(out, e)
		}
	}
	return out
}

// FullYear widens a two-digit year with the century boundary.
func FullYear(yy, boundary int) int {
	if yy >= boundary {
		return 1900 + yy
	}
	return 2000 + yy
}

// BuildIndex scans r once and records every storm header.
func BuildIndex(r io.Reader, opts IndexOptions) (*Index, error) {
	if opts.Format != FormatJMA {
		return nil, fmt.Errorf("build index: %w: %s", ErrUnsupportedFormat, opts.Format)
	}
	if opts.CenturyBoundary < 0 || opts.CenturyBoundary > 99 {
		return nil, fmt.Errorf("build index: century boundary %d outside 0-99", opts.CenturyBoundary)
	}

	idx := &Index{
		format:  opts.Format,
		entries: make(map[string]IndexEntry),
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for ; sc.Scan(); lineNo++ {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if !strings.HasPrefix(line, headerIndicator) {
			continue
		}

		entry, err := parseHeader(line, lineNo, opts.CenturyBoundary)
		if err != nil {
			return nil, err
		}

		if prev, dup := idx.entries[entry.ID]; dup {
			if opts.StrictDuplicates {
				return nil, &DuplicateStormError{ID: entry.ID, FirstLine: prev.StartLine, Line: lineNo}
			}
		} else {
			idx.order = append(idx.order, entry.ID)
		}
		idx.entries[entry.ID] = entry
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	idx.lines = lineNo

	return idx, nil
}

// parseHeader extracts the fixed-position fields of a "66666" line.
func parseHeader(line string, lineNo, boundary int) (IndexEntry, error) {
	if len(line) < 15 {
		return IndexEntry{}, &ParseError{Line: lineNo, Field: "header", Value: line, Err: errShortHeader}
	}

	// The storm code is four digits, YYNN. ParseUint rejects a sign.
	id := line[6:10]
	yy, err := strconv.ParseUint(id[:2], 10, 8)
	if err != nil {
		return IndexEntry{}, &ParseError{Line: lineNo, Field: "storm_code", Value: id, Err: err}
	}
	seq, err := strconv.ParseUint(id[2:], 10, 8)
	if err != nil {
		return IndexEntry{}, &ParseError{Line: lineNo, Field: "storm_code", Value: id, Err: err}
	}

	rawCount := line[12:15]
	count, err := strconv.Atoi(strings.TrimSpace(rawCount))
	if err != nil {
		return IndexEntry{}, &ParseError{Line: lineNo, Field: "record_count", Value: rawCount, Err: err}
	}
	if count < 0 {
		return IndexEntry{}, &ParseError{Line: lineNo, Field: "record_count", Value: rawCount, Err: errors.New("negative count")}
	}

	return IndexEntry{
		ID:          id,
		Name:        headerName(line),
		FullYear:    FullYear(int(yy), boundary),
		Sequence:    int(seq),
		StartLine:   lineNo,
		RecordCount: count,
	}, nil
}

func headerName(line string) string {
	if len(line) <= 30 {
		return noName
	}
	name := strings.TrimSpace(line[30:min(50, len(line))])
	if name == "" {
		return noName
	}
	return name
}
