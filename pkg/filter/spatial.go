package filter

import (
	"gis-tools/pkg/geom"
	"gis-tools/pkg/recordset"
)

// ByBounds derives the subset of records whose point geometry lies inside
// the viewport box, inclusive on all four edges. Records carrying non-point
// geometries pass through unaffected; in practice only point record sets
// are ever spatially filtered, and that asymmetry is preserved. An
// undefined or inverted box yields an empty set, never an error.
func ByBounds(rs *recordset.RecordSet, box geom.BoundingBox) *recordset.RecordSet {
	if box.IsEmpty() {
		return rs.Derive(nil)
	}

	var records []recordset.Record
	for _, rec := range rs.Records() {
		if p, ok := rec.Point(); ok {
			if box.Contains(p) {
				records = append(records, rec)
			}
			continue
		}
		records = append(records, rec)
	}

	return rs.Derive(records)
}
