package domain

import (
	"fmt"
	"strings"
)

// header renders a JMA "66666" line with fields at their fixed columns.
func header(id string, count int, name string) string {
	return fmt.Sprintf("66666 %s  %03d %04d %s 0 6 %-20s20150605", id, count, 1, id, name)
}

// twoStormFile is a header with two rows followed by a header with one row.
func twoStormFile() string {
	return strings.Join([]string{
		header("1501", 2, "MEKKHALA"),
		"15011312 002 2 080 1360 1004",
		"15011318 002 3 085 1350 1000 035 30045 00030 90120 00080",
		header("1502", 1, ""),
		"15020100 002 5 210 1380 935 100 30200 00180 90500 00300 #",
	}, "\n") + "\n"
}
