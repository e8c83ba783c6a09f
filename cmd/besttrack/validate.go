package main

import (
	"fmt"
	"time"

	"github.com/couchcryptid/storm-besttrack/internal/adapter/bstfile"
	"github.com/couchcryptid/storm-besttrack/internal/domain"
)

// validGrades are the JMA grade codes.
var validGrades = map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 9: true}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func (a *app) runValidate(args []string) error {
	var sf sourceFlags
	fs := a.newFlagSet("validate", &sf)
	if err := fs.Parse(args); err != nil {
		return err
	}

	src, idx, err := a.open(&sf)
	if err != nil {
		return err
	}

	out := a.stdout
	fmt.Fprintln(out, "=== Best-Track Integrity Validation ===")
	fmt.Fprintln(out)

	tracks, decodePhase := decodeAll(src, idx)
	phases := []*phase{
		validateIndexLayout(idx),
		decodePhase,
		validateValues(tracks),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}

	rows := 0
	for _, tr := range tracks {
		rows += len(tr.Records)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Storms: %d indexed, %d decoded, %d rows\n", idx.Len(), len(tracks), rows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return nil
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return fmt.Errorf("validation failed: %s", sf.in)
}

// validateIndexLayout checks that every storm's rows end right where the
// next header begins.
func validateIndexLayout(idx *domain.Index) *phase {
	p := &phase{name: "Index layout"}
	entries := idx.Entries()
	for i, e := range entries {
		end := e.StartLine + e.RecordCount + 1
		if i+1 < len(entries) {
			next := entries[i+1]
			if end != next.StartLine {
				p.errorf("storm %s: %d rows from line %d end at line %d, next header %s at line %d",
					e.ID, e.RecordCount, e.StartLine+1, end, next.ID, next.StartLine+1)
			}
			continue
		}
		if end > idx.Lines() {
			p.errorf("storm %s: %d rows from line %d run past end of file (%d lines)",
				e.ID, e.RecordCount, e.StartLine+1, idx.Lines())
		}
	}
	return p
}

// decodeAll decodes every indexed storm, collecting failures instead of
// stopping at the first.
func decodeAll(src *bstfile.File, idx *domain.Index) ([]domain.StormTrack, *phase) {
	p := &phase{name: "Row decoding"}
	var tracks []domain.StormTrack
	for _, id := range idx.IDs() {
		tr, err := src.Track(idx, id)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		tracks = append(tracks, tr)
	}
	return tracks, p
}

func validateValues(tracks []domain.StormTrack) *phase {
	p := &phase{name: "Value ranges"}
	for _, tr := range tracks {
		id := tr.Storm.ID
		for i, r := range tr.Records {
			if !validGrades[r.Grade] {
				p.errorf("storm %s row %d: grade %d", id, i, r.Grade)
			}
			if r.Latitude < -90 || r.Latitude > 90 {
				p.errorf("storm %s row %d: latitude %.1f", id, i, r.Latitude)
			}
			if r.Longitude < 0 || r.Longitude > 360 {
				p.errorf("storm %s row %d: longitude %.1f", id, i, r.Longitude)
			}
			if r.Pressure < 850 || r.Pressure > 1100 {
				p.errorf("storm %s row %d: pressure %d", id, i, r.Pressure)
			}
			if i > 0 && !followsInTime(tr.Records[i-1].Timestamp, r.Timestamp) {
				p.errorf("storm %s row %d: timestamp %s not after previous row",
					id, i, r.Timestamp.Format("2006-01-02T15:04"))
			}
		}
	}
	return p
}

// followsInTime reports whether cur comes after prev. Two-digit years are
// decoded raw, so a storm crossing 31 Dec 1968 reads as 2068 then 1969;
// prev is moved back a century in that case before comparing.
func followsInTime(prev, cur time.Time) bool {
	if prev.Year() >= 2000 && cur.Year() < 2000 {
		prev = prev.AddDate(-100, 0, 0)
	}
	return cur.After(prev)
}
