package domain

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func mustIndex(t *testing.T, file string) *Index {
	t.Helper()
	idx, err := BuildIndex(strings.NewReader(file), DefaultIndexOptions())
	require.NoError(t, err)
	return idx
}

func TestDecode_TwoStormFile(t *testing.T) {
	file := twoStormFile()
	idx := mustIndex(t, file)

	t.Run("first storm", func(t *testing.T) {
		recs, err := Decode(strings.NewReader(file), idx, "1501")
		require.NoError(t, err)
		require.Len(t, recs, 2)

		weak := recs[0]
		assert.Equal(t, time.Date(2015, 1, 13, 12, 0, 0, 0, time.UTC), weak.Timestamp)
		assert.Equal(t, 2, weak.Grade)
		assert.Equal(t, 8.0, weak.Latitude)
		assert.Equal(t, 136.0, weak.Longitude)
		assert.Equal(t, 1004, weak.Pressure)
		assert.Nil(t, weak.MaxWind)
		assert.Nil(t, weak.Dir50)
		assert.Nil(t, weak.Radius50Long)
		assert.Nil(t, weak.Radius50Short)
		assert.Nil(t, weak.Dir30)
		assert.Nil(t, weak.Radius30Long)
		assert.Nil(t, weak.Radius30Short)
		assert.False(t, weak.LandfallOrPassage)

		storm := recs[1]
		assert.Equal(t, time.Date(2015, 1, 13, 18, 0, 0, 0, time.UTC), storm.Timestamp)
		assert.Equal(t, 3, storm.Grade)
		assert.Equal(t, 8.5, storm.Latitude)
		assert.Equal(t, 135.0, storm.Longitude)
		assert.Equal(t, intPtr(35), storm.MaxWind)
		assert.Equal(t, intPtr(3), storm.Dir50)
		assert.Equal(t, intPtr(45*1852), storm.Radius50Long)
		assert.Equal(t, intPtr(30*1852), storm.Radius50Short)
		assert.Equal(t, intPtr(9), storm.Dir30)
		assert.Equal(t, intPtr(120*1852), storm.Radius30Long)
		assert.Equal(t, intPtr(80*1852), storm.Radius30Short)
		assert.False(t, storm.LandfallOrPassage)
	})

	t.Run("second storm", func(t *testing.T) {
		recs, err := Decode(strings.NewReader(file), idx, "1502")
		require.NoError(t, err)
		require.Len(t, recs, 1)

		r := recs[0]
		assert.Equal(t, time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC), r.Timestamp)
		assert.Equal(t, 21.0, r.Latitude)
		assert.Equal(t, 138.0, r.Longitude)
		assert.Equal(t, 935, r.Pressure)
		assert.Equal(t, intPtr(100), r.MaxWind)
		assert.Equal(t, intPtr(370400), r.Radius50Long)
		assert.Equal(t, intPtr(333360), r.Radius50Short)
		assert.Equal(t, intPtr(926000), r.Radius30Long)
		assert.Equal(t, intPtr(555600), r.Radius30Short)
		assert.True(t, r.LandfallOrPassage)
	})
}

func TestDecode_RecordCountFidelity(t *testing.T) {
	file := strings.Join([]string{
		header("1601", 3, "A"),
		"16010100 002 2 100 1300 1002",
		"16010106 002 2 101 1301 1002",
		"16010112 002 2 102 1302 1002",
		header("1602", 1, "B"),
		"16020100 002 2 200 1400 1000",
		header("1603", 2, "C"),
		"16030100 002 2 300 1500 998",
		"16030106 002 2 301 1501 996",
	}, "\n")
	idx := mustIndex(t, file)

	for _, e := range idx.Entries() {
		recs, err := Decode(strings.NewReader(file), idx, e.ID)
		require.NoError(t, err)
		assert.Len(t, recs, e.RecordCount, e.ID)
	}

	recs, err := Decode(strings.NewReader(file), idx, "1603")
	require.NoError(t, err)
	assert.Equal(t, 996, recs[1].Pressure)
}

func TestDecode_Idempotent(t *testing.T) {
	file := twoStormFile()
	idx := mustIndex(t, file)

	a, err := Decode(strings.NewReader(file), idx, "1501")
	require.NoError(t, err)
	b, err := Decode(strings.NewReader(file), idx, "1501")
	require.NoError(t, err)

	assert.Equal(t, a, b)

	// Results are independent allocations.
	*a[1].Dir50 = 7
	assert.Equal(t, intPtr(3), b[1].Dir50)
}

func TestDecode_UnknownStorm(t *testing.T) {
	file := twoStormFile()
	idx := mustIndex(t, file)

	_, err := Decode(strings.NewReader(file), idx, "9901")

	var unknown *UnknownStormError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "9901", unknown.ID)
	assert.Contains(t, err.Error(), "9901")
}

func TestDecode_MalformedRow(t *testing.T) {
	file := strings.Join([]string{
		header("1701", 2, "BAD"),
		"17010100 002 2 100 1300 1002",
		"17010106 002 X 101 1301 1002",
	}, "\n")
	idx := mustIndex(t, file)

	recs, err := Decode(strings.NewReader(file), idx, "1701")
	assert.Nil(t, recs)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "1701", pe.ID)
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "grade", pe.Field)
	assert.Contains(t, err.Error(), "storm 1701 row 1: field grade")
}

func TestDecode_TruncatedFile(t *testing.T) {
	file := strings.Join([]string{
		header("1801", 3, "SHORT"),
		"18010100 002 2 100 1300 1002",
	}, "\n")
	idx := mustIndex(t, file)

	_, err := Decode(strings.NewReader(file), idx, "1801")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "record_count", pe.Field)
	assert.Equal(t, 1, pe.Row)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	idx := &Index{format: FormatJTWC, entries: map[string]IndexEntry{}}
	_, err := Decode(strings.NewReader(""), idx, "1501")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDecodeLine_Scaling(t *testing.T) {
	rec, err := DecodeLine("20080100 002 3 123 1456 990 50 3045 50 9100")
	require.NoError(t, err)

	assert.Equal(t, 12.3, rec.Latitude)
	assert.Equal(t, 145.6, rec.Longitude)
	assert.Equal(t, intPtr(50), rec.MaxWind)
	assert.Equal(t, intPtr(3), rec.Dir50)
	assert.Equal(t, intPtr(83340), rec.Radius50Long)
	assert.Equal(t, intPtr(92600), rec.Radius50Short)
	assert.Equal(t, intPtr(9), rec.Dir30)
	assert.Equal(t, intPtr(100*1852), rec.Radius30Long)
	assert.Nil(t, rec.Radius30Short)
}

func TestDecodeLine_Landfall(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"hash marker", "15070312 002 5 210 1380 935 100 30200 00180 90500 00300 #", true},
		{"other marker", "15070312 002 5 210 1380 935 100 30200 00180 90500 00300 X", false},
		{"no marker", "15070312 002 5 210 1380 935 100 30200 00180 90500 00300", false},
		{"marker without radii", "15070312 002 3 210 1380 996 40 #", true},
		{"marker without wind", "15070312 002 2 210 1380 1002 #", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rec.LandfallOrPassage)
		})
	}

	rec, err := DecodeLine("15070312 002 3 210 1380 996 40 #")
	require.NoError(t, err)
	assert.Nil(t, rec.Dir50, "marker must not be read as a compound token")
}

func TestDecodeLine_Errors(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"too few tokens", "15070312 002 5 210 1380", "tokens"},
		{"too many tokens", "15070312 002 5 210 1380 935 100 30200 00180 90500 00300 # extra", "tokens"},
		{"bad date", "15133112 002 5 210 1380 935", "date"},
		{"bad latitude", "15070312 002 5 2x0 1380 935", "lat"},
		{"bad longitude", "15070312 002 5 210 13.0 935", "lon"},
		{"bad pressure", "15070312 002 5 210 1380 hPa", "pres"},
		{"bad wind", "15070312 002 5 210 1380 935 fast", "vmax"},
		{"bad compound direction", "15070312 002 5 210 1380 935 100 X0200", "hiiii"},
		{"compound without radius", "15070312 002 5 210 1380 935 100 3", "hiiii"},
		{"bad short radius", "15070312 002 5 210 1380 935 100 30200 abc", "r50_short"},
		{"bad 30kt compound", "15070312 002 5 210 1380 935 100 30200 00180 9x", "kllll"},
		{"bad 30kt short", "15070312 002 5 210 1380 935 100 30200 00180 90500 ?", "r30_short"},
		{"negative wind", "15070312 002 5 210 1380 935 -10", "vmax"},
		{"signed compound radius", "15070312 002 5 210 1380 935 100 3-045", "hiiii"},
		{"negative short radius", "15070312 002 5 210 1380 935 100 30200 -10", "r50_short"},
		{"plus sign in 30kt compound", "15070312 002 5 210 1380 935 100 30200 00180 9+120", "kllll"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLine(tt.line)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestSplitCompound(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		dir    *int
		radius *int
	}{
		{"four chars", "3045", intPtr(3), intPtr(83340)},
		{"five chars", "90500", intPtr(9), intPtr(926000)},
		{"zero radius", "00000", intPtr(0), intPtr(0)},
		{"empty", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, radius, err := splitCompound(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.radius, radius)
		})
	}
}

func TestOptionalMeters_Absence(t *testing.T) {
	m, err := optionalMeters("")
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = optionalMeters("50")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 92600, *m)
}

func TestOptionalMeters_RejectsSign(t *testing.T) {
	for _, s := range []string{"-10", "+10", "-0"} {
		_, err := optionalMeters(s)
		assert.Error(t, err, s)
	}
}

func TestDecodeRow_RequiresPaddedTokens(t *testing.T) {
	_, err := DecodeRow([]string{"15070312", "002", "5"})

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "tokens", pe.Field)
}

func TestDecodeLine_TwoDigitYearIsRaw(t *testing.T) {
	// 1951 storms decode with Go's 69 pivot, not the index boundary.
	rec, err := DecodeLine("51031006 002 2 200 1380 1000")
	require.NoError(t, err)
	assert.Equal(t, 2051, rec.Timestamp.Year())

	rec, err = DecodeLine("79031006 002 2 200 1380 1000")
	require.NoError(t, err)
	assert.Equal(t, 1979, rec.Timestamp.Year())
}
