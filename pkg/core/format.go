package core

import "strconv"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize renders a byte count with 1024-based units and one decimal.
// The unit is picked before rounding, so 1048575 renders as "1024.0 KB".
func FormatSize(size int64) string {
	v := float64(size)
	for _, unit := range sizeUnits {
		if v < 1024 {
			return strconv.FormatFloat(v, 'f', 1, 64) + " " + unit
		}
		v /= 1024
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " TB"
}
