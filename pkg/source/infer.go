package source

import "regexp"

// Coordinate column heuristics, matched case-insensitively as substrings.
// First matching column in declared order wins, not best match; the
// precision trade-off is deliberate and preserved for compatibility.
var (
	latPattern = regexp.MustCompile(`(?i)lat|latitude`)
	lonPattern = regexp.MustCompile(`(?i)lng|long|longitude`)
)

// InferCoordinateColumns guesses the latitude and longitude columns from the
// declared column order. An axis with no match returns the empty string and
// the caller must require an explicit selection. Latitude is evaluated
// first, so a column matching both patterns (e.g. "lat_long") is only ever
// offered as the latitude candidate.
func InferCoordinateColumns(columns []string) (latCol, lonCol string) {
	for _, col := range columns {
		if latPattern.MatchString(col) {
			latCol = col
			break
		}
	}

	for _, col := range columns {
		if col == latCol {
			continue
		}
		if lonPattern.MatchString(col) {
			lonCol = col
			break
		}
	}

	return latCol, lonCol
}
