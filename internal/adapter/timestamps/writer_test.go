package timestamps

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/storm-besttrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	ts := []time.Time{
		time.Date(2015, 7, 3, 12, 0, 0, 0, time.UTC),
		time.Date(2015, 7, 3, 18, 0, 0, 999_000_000, time.UTC),
		time.Date(2015, 7, 4, 9, 0, 0, 0, jst),
		time.Date(2015, 1, 13, 0, 0, 0, 0, time.UTC), // out of order on purpose
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ts))

	assert.Equal(t, "2015-07-03T12:00:00\n"+
		"2015-07-03T18:00:00\n"+
		"2015-07-04T00:00:00\n"+
		"2015-01-13T00:00:00\n", buf.String())
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestFileLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bt_time_after_2015.txt")
	loader := NewFileLoader(path)

	tracks := []domain.StormTrack{
		{
			Storm: domain.IndexEntry{ID: "1502"},
			Records: []domain.StormTrackRecord{
				{Timestamp: time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			Storm: domain.IndexEntry{ID: "1501"},
			Records: []domain.StormTrackRecord{
				{Timestamp: time.Date(2015, 1, 13, 12, 0, 0, 0, time.UTC)},
				{Timestamp: time.Date(2015, 1, 13, 18, 0, 0, 0, time.UTC)},
			},
		},
	}

	n, err := loader.Load(context.Background(), tracks)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "timestamps", loader.Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2015-02-01T00:00:00\n2015-01-13T12:00:00\n2015-01-13T18:00:00\n", string(data))
}
