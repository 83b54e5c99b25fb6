package sim

import "strconv"

// ftoa formats a float64 for CSV log rows using the shortest round-trip
// representation, matching the teacher's plain fmt-based CSV writers.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
