package domain

import (
	"fmt"
	"strings"
)

// Format identifies the agency layout of a best-track file.
type Format int

const (
	FormatJMA Format = iota
	FormatJTWC
)

func (f Format) String() string {
	switch f {
	case FormatJMA:
		return "JMA"
	case FormatJTWC:
		return "JTWC"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat maps an agency name to a Format. RSMC-Tokyo is an alias for JMA.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "JMA", "RSMC-TOKYO", "":
		return FormatJMA, nil
	case "JTWC":
		return FormatJTWC, nil
	default:
		return 0, fmt.Errorf("unknown best-track agency %q", s)
	}
}

// FieldKind is the value type a column decodes to.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindFloat
	KindTime
	KindBool
	KindCompound // direction digit followed by a radius
	KindSkip
)

// FieldDescriptor names one column of a format's observation row.
type FieldDescriptor struct {
	Name     string
	Kind     FieldKind
	Optional bool
}

// JMA observation columns, in file order.
const (
	colDate = iota
	colLegacy
	colGrade
	colLat
	colLon
	colPressure
	colMaxWind
	colCompound50
	colShort50
	colCompound30
	colShort30
	colLandfall
)

var jmaSchema = []FieldDescriptor{
	{Name: "date", Kind: KindTime},
	{Name: "002", Kind: KindSkip},
	{Name: "grade", Kind: KindInt},
	{Name: "lat", Kind: KindFloat},
	{Name: "lon", Kind: KindFloat},
	{Name: "pres", Kind: KindInt},
	{Name: "vmax", Kind: KindInt, Optional: true},
	{Name: "hiiii", Kind: KindCompound, Optional: true},
	{Name: "r50_short", Kind: KindInt, Optional: true},
	{Name: "kllll", Kind: KindCompound, Optional: true},
	{Name: "r30_short", Kind: KindInt, Optional: true},
	{Name: "landfall_or_passage", Kind: KindBool, Optional: true},
}

var jtwcSchema = []FieldDescriptor{
	{Name: "basin", Kind: KindString},
	{Name: "cy", Kind: KindInt},
	{Name: "date", Kind: KindTime},
	{Name: "technum", Kind: KindInt, Optional: true},
	{Name: "tech", Kind: KindString},
	{Name: "tau", Kind: KindInt},
	{Name: "latN/S", Kind: KindString},
	{Name: "lonE/W", Kind: KindString},
	{Name: "vmax", Kind: KindInt},
	{Name: "pres", Kind: KindInt},
	{Name: "grade", Kind: KindString},
	{Name: "rad", Kind: KindInt, Optional: true},
	{Name: "windcode", Kind: KindString, Optional: true},
	{Name: "rad1", Kind: KindInt, Optional: true},
	{Name: "rad2", Kind: KindInt, Optional: true},
	{Name: "rad3", Kind: KindInt, Optional: true},
	{Name: "rad4", Kind: KindInt, Optional: true},
	{Name: "radp", Kind: KindInt, Optional: true},
	{Name: "rrp", Kind: KindInt, Optional: true},
	{Name: "mrd", Kind: KindInt, Optional: true},
	{Name: "gusts", Kind: KindInt, Optional: true},
	{Name: "eye", Kind: KindInt, Optional: true},
	{Name: "subregion", Kind: KindString, Optional: true},
	{Name: "maxseas", Kind: KindInt, Optional: true},
	{Name: "initials", Kind: KindString, Optional: true},
	{Name: "dir", Kind: KindInt, Optional: true},
	{Name: "speed", Kind: KindInt, Optional: true},
	{Name: "stormname", Kind: KindString, Optional: true},
	{Name: "depth", Kind: KindString, Optional: true},
	{Name: "seas", Kind: KindInt, Optional: true},
	{Name: "seascode", Kind: KindString, Optional: true},
	{Name: "seas1", Kind: KindInt, Optional: true},
	{Name: "seas2", Kind: KindInt, Optional: true},
	{Name: "seas3", Kind: KindInt, Optional: true},
	{Name: "seas4", Kind: KindInt, Optional: true},
	{Name: "_1", Kind: KindSkip, Optional: true},
	{Name: "_2", Kind: KindSkip, Optional: true},
	{Name: "_3", Kind: KindSkip, Optional: true},
	{Name: "_4", Kind: KindSkip, Optional: true},
}

// Schema returns the ordered observation columns for a format.
// The returned slice is a copy.
func Schema(f Format) ([]FieldDescriptor, error) {
	var s []FieldDescriptor
	switch f {
	case FormatJMA:
		s = jmaSchema
	case FormatJTWC:
		s = jtwcSchema
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	return append([]FieldDescriptor(nil), s...), nil
}
