package source

import (
	"fmt"
	"strconv"

	"gis-tools/pkg/recordset"

	"github.com/paulmach/orb"
)

// BuildPoints attaches Point(lon, lat) geometries to a tabular record set
// using the given coordinate columns. Rows whose latitude or longitude is
// null or non-numeric are dropped, not errored; the drop count is returned
// and recorded on the result so callers can report it. Coordinate values
// are passed through without range validation: a latitude outside [-90, 90]
// survives as-is.
func BuildPoints(rs *recordset.RecordSet, latCol, lonCol string) (*recordset.RecordSet, int, error) {
	schema := rs.Schema()
	if schema.Index(latCol) < 0 {
		return nil, 0, fmt.Errorf("latitude column %q not in schema", latCol)
	}
	if schema.Index(lonCol) < 0 {
		return nil, 0, fmt.Errorf("longitude column %q not in schema", lonCol)
	}

	records := make([]recordset.Record, 0, rs.Len())
	dropped := 0
	for _, rec := range rs.Records() {
		lat, ok := coordinate(rec.Attrs[latCol])
		if !ok {
			dropped++
			continue
		}
		lon, ok := coordinate(rec.Attrs[lonCol])
		if !ok {
			dropped++
			continue
		}

		out := rec
		out.Geometry = orb.Point{lon, lat}
		records = append(records, out)
	}

	result := rs.Derive(records)
	result.SetDroppedRows(dropped)
	return result, dropped, nil
}

// coordinate resolves an attribute value to a float64. String cells are
// parsed so explicit column overrides work on string-kind columns too.
func coordinate(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
