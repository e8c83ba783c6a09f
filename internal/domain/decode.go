package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	landfallMarker = "#"

	// dateLayout is YYMMDDHH. Go's two-digit year pivot applies, not the index century boundary.
	dateLayout = "06010215"
)

var (
	errTokenCount = errors.New("unexpected token count")
	errCompound   = errors.New("compound token needs a direction digit and a radius")
)

// Decode re-reads r and returns the observation rows of storm id.
// r must be positioned at the start of the same file the index was built from.
func Decode(r io.Reader, idx *Index, id string) ([]StormTrackRecord, error) {
	if idx.Format() != FormatJMA {
		return nil, fmt.Errorf("decode storm %s: %w: %s", id, ErrUnsupportedFormat, idx.Format())
	}
	entry, ok := idx.Get(id)
	if !ok {
		return nil, &UnknownStormError{ID: id}
	}

	records := make([]StormTrackRecord, 0, entry.RecordCount)
	first := entry.StartLine + 1

	sc := bufio.NewScanner(r)
	for lineNo := 0; len(records) < entry.RecordCount && sc.Scan(); lineNo++ {
		if lineNo < first {
			continue
		}
		row := lineNo - first
		rec, err := DecodeLine(sc.Text())
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.ID, pe.Row, pe.Line = id, row, lineNo
			}
			return nil, err
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("decode storm %s: %w", id, err)
	}

	if len(records) < entry.RecordCount {
		return nil, &ParseError{
			Line:  entry.StartLine,
			ID:    id,
			Row:   len(records),
			Field: "record_count",
			Value: strconv.Itoa(entry.RecordCount),
			Err:   io.ErrUnexpectedEOF,
		}
	}
	return records, nil
}

// DecodeLine splits an observation line into schema columns and decodes it.
func DecodeLine(line string) (StormTrackRecord, error) {
	tokens, err := SplitRow(line)
	if err != nil {
		return StormTrackRecord{}, err
	}
	return DecodeRow(tokens)
}

// SplitRow splits a JMA observation line on whitespace and pads it to the
// full column count. Trailing optional columns are often omitted; a final
// "#" on such a short row is moved to the landfall column.
func SplitRow(line string) ([]string, error) {
	fields := strings.Fields(line)
	n := len(fields)
	if n < colMaxWind || n > len(jmaSchema) {
		return nil, &ParseError{Line: -1, Field: "tokens", Value: strconv.Itoa(n), Err: errTokenCount}
	}

	tokens := make([]string, len(jmaSchema))
	copy(tokens, fields)
	if n < len(jmaSchema) && n > colMaxWind && fields[n-1] == landfallMarker {
		tokens[n-1] = ""
		tokens[colLandfall] = landfallMarker
	}
	return tokens, nil
}

// DecodeRow converts padded schema tokens into a record. Empty tokens are
// absent values. It has no side effects.
func DecodeRow(tokens []string) (StormTrackRecord, error) {
	if len(tokens) != len(jmaSchema) {
		return StormTrackRecord{}, &ParseError{Line: -1, Field: "tokens", Value: strconv.Itoa(len(tokens)), Err: errTokenCount}
	}

	var (
		rec StormTrackRecord
		err error
	)

	if rec.Timestamp, err = time.Parse(dateLayout, tokens[colDate]); err != nil {
		return StormTrackRecord{}, fieldError(colDate, tokens, err)
	}
	if rec.Grade, err = strconv.Atoi(tokens[colGrade]); err != nil {
		return StormTrackRecord{}, fieldError(colGrade, tokens, err)
	}
	if rec.Latitude, err = parseTenths(tokens[colLat]); err != nil {
		return StormTrackRecord{}, fieldError(colLat, tokens, err)
	}
	if rec.Longitude, err = parseTenths(tokens[colLon]); err != nil {
		return StormTrackRecord{}, fieldError(colLon, tokens, err)
	}
	if rec.Pressure, err = strconv.Atoi(tokens[colPressure]); err != nil {
		return StormTrackRecord{}, fieldError(colPressure, tokens, err)
	}
	if rec.MaxWind, err = optionalInt(tokens[colMaxWind]); err != nil {
		return StormTrackRecord{}, fieldError(colMaxWind, tokens, err)
	}

	if rec.Dir50, rec.Radius50Long, err = splitCompound(tokens[colCompound50]); err != nil {
		return StormTrackRecord{}, fieldError(colCompound50, tokens, err)
	}
	if rec.Radius50Short, err = optionalMeters(tokens[colShort50]); err != nil {
		return StormTrackRecord{}, fieldError(colShort50, tokens, err)
	}
	if rec.Dir30, rec.Radius30Long, err = splitCompound(tokens[colCompound30]); err != nil {
		return StormTrackRecord{}, fieldError(colCompound30, tokens, err)
	}
	if rec.Radius30Short, err = optionalMeters(tokens[colShort30]); err != nil {
		return StormTrackRecord{}, fieldError(colShort30, tokens, err)
	}

	rec.LandfallOrPassage = tokens[colLandfall] == landfallMarker
	return rec, nil
}

func fieldError(col int, tokens []string, err error) error {
	return &ParseError{Line: -1, Field: jmaSchema[col].Name, Value: tokens[col], Err: err}
}

func parseTenths(s string) (float64, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return float64(v) / 10, nil
}

// optionalInt parses an unsigned wind speed or radius. A sign is rejected.
func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	u, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return nil, err
	}
	v := int(u)
	return &v, nil
}

func optionalMeters(s string) (*int, error) {
	nm, err := optionalInt(s)
	if err != nil || nm == nil {
		return nil, err
	}
	m := *nm * MetersPerNauticalMile
	return &m, nil
}

// splitCompound splits "3045" into direction 3 and 45 nm, returned as meters.
func splitCompound(s string) (dir, radius *int, err error) {
	if s == "" {
		return nil, nil, nil
	}
	if len(s) < 2 || s[0] < '0' || s[0] > '9' {
		return nil, nil, errCompound
	}
	d := int(s[0] - '0')
	r, err := optionalMeters(s[1:])
	if err != nil {
		return nil, nil, err
	}
	return &d, r, nil
}
