// Package domain models tropical-cyclone best-track data.
//
// # Data Source
//
// The RSMC Tokyo (JMA) best-track archive, bst_all.txt, is a single flat text
// file covering every western North Pacific storm since 1951. Each storm is a
// header line followed by a fixed number of observation lines, usually six
// hours apart.
//
// # JMA Header Line
//
// Column ranges are 0-indexed and half-open:
//
//	[0:5)    "66666" indicator
//	[6:10)   international number, YYNN (two-digit year, sequence in year)
//	[12:15)  number of observation lines that follow
//	[30:50)  storm name, blank for unnamed depressions ("NONAME")
//
// The two-digit year is widened with a century boundary: values at or above
// the boundary (default 51) are 19xx, values below are 20xx. See [FullYear].
//
// # JMA Observation Line
//
// Whitespace-delimited tokens in fixed order:
//
//	"15070312 002 5 210 1380 935 100 30200 00180 90500 00300 #"
//	 date     --- g lat lon  prs wnd h+r50  r50s  k+r30  r30s  landfall
//
//	date      YYMMDDHH in UTC, parsed without the century boundary
//	002       legacy indicator, ignored
//	grade     2 TD, 3 TS, 4 STS, 5 TY, 6 extratropical, 7 just entering, 9 TS or stronger
//	lat, lon  tenths of a degree
//	pressure  central pressure in hPa
//	wind      maximum sustained wind in knots, omitted for weak systems
//	h+r50     direction digit of the longest 50-kt radius followed by the radius in nm
//	r50s      shortest 50-kt radius in nm
//	k+r30     same as h+r50 for the 30-kt extent
//	r30s      shortest 30-kt radius in nm
//	landfall  "#" when the storm made landfall or passed over Japan
//
// Radii are converted to meters (1 nm = 1852 m). Empty optional columns decode
// to nil, never to zero.
//
// # JTWC
//
// The JTWC b-deck layout is declared in [Schema] for reference but has no
// parser; requests for it fail with [ErrUnsupportedFormat].
package domain
