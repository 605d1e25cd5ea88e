package geom

import "github.com/paulmach/orb"

// WGS84 is the coordinate reference convention used throughout the pipeline.
// Tabular sources always produce wgs84 point geometries; native geospatial
// sources pass their geometries through unexamined.
const WGS84 = "wgs84"

// Envelope returns the bounding extent of a geometry's coordinates.
func Envelope(g orb.Geometry) BoundingBox {
	if g == nil {
		return EmptyBox()
	}
	return FromBound(g.Bound())
}
