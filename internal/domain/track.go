package domain

import "time"

// MetersPerNauticalMile converts best-track radii to meters.
const MetersPerNauticalMile = 1852

// IndexEntry locates one storm inside a best-track file.
type IndexEntry struct {
	ID          string `json:"id"`   // storm code as written, e.g. "1513"
	Name        string `json:"name"` // "NONAME" when blank
	FullYear    int    `json:"full_year"`
	Sequence    int    `json:"sequence_number"`
	StartLine   int    `json:"start_offset"` // 0-based line of the header
	RecordCount int    `json:"record_count"`
}

// StormTrackRecord is one decoded observation row.
type StormTrackRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Grade     int       `json:"grade"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Pressure  int       `json:"pressure"`
	MaxWind   *int      `json:"max_wind,omitempty"`

	Dir50         *int `json:"dir50,omitempty"`
	Radius50Long  *int `json:"radius50_long,omitempty"` // meters
	Radius50Short *int `json:"radius50_short,omitempty"`
	Dir30         *int `json:"dir30,omitempty"`
	Radius30Long  *int `json:"radius30_long,omitempty"`
	Radius30Short *int `json:"radius30_short,omitempty"`

	LandfallOrPassage bool `json:"landfall_or_passage"`
}

// StormTrack pairs an index entry with its freshly decoded rows.
type StormTrack struct {
	Storm   IndexEntry         `json:"storm"`
	Records []StormTrackRecord `json:"records"`
}

// Timestamps returns the observation times of the track in row order.
func (t StormTrack) Timestamps() []time.Time {
	out := make([]time.Time, len(t.Records))
	for i := range t.Records {
		out[i] = t.Records[i].Timestamp
	}
	return out
}
