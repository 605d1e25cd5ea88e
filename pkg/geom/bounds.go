package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// BoundingBox is an axis-aligned rectangle in longitude/latitude space.
// Once populated, min <= max holds on each axis. The empty box is inverted
// (min > max) so that Union treats it as the identity.
type BoundingBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// EmptyBox returns a BoundingBox that has observed no geometry yet.
func EmptyBox() BoundingBox {
	return BoundingBox{
		MinLon: math.Inf(1),
		MinLat: math.Inf(1),
		MaxLon: math.Inf(-1),
		MaxLat: math.Inf(-1),
	}
}

// NewBoundingBox builds a populated box from explicit edges.
func NewBoundingBox(minLon, minLat, maxLon, maxLat float64) BoundingBox {
	return BoundingBox{MinLon: minLon, MinLat: minLat, MaxLon: maxLon, MaxLat: maxLat}
}

// FromBound converts an orb envelope into a BoundingBox.
func FromBound(b orb.Bound) BoundingBox {
	return BoundingBox{
		MinLon: b.Min[0],
		MinLat: b.Min[1],
		MaxLon: b.Max[0],
		MaxLat: b.Max[1],
	}
}

// IsEmpty reports whether the box has not observed any geometry, or is
// otherwise inverted on an axis.
func (b BoundingBox) IsEmpty() bool {
	return b.MinLon > b.MaxLon || b.MinLat > b.MaxLat
}

// Union returns the componentwise min/max of both boxes. The operation is
// associative and commutative, and the empty box is its identity.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return BoundingBox{
		MinLon: math.Min(b.MinLon, o.MinLon),
		MinLat: math.Min(b.MinLat, o.MinLat),
		MaxLon: math.Max(b.MaxLon, o.MaxLon),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
	}
}

// Extend grows the box to include the given point.
func (b BoundingBox) Extend(p orb.Point) BoundingBox {
	return b.Union(BoundingBox{MinLon: p[0], MinLat: p[1], MaxLon: p[0], MaxLat: p[1]})
}

// ExtendGeometry grows the box to include the coordinate envelope of g.
func (b BoundingBox) ExtendGeometry(g orb.Geometry) BoundingBox {
	if g == nil {
		return b
	}
	return b.Union(Envelope(g))
}

// Contains reports whether the point lies inside the box, inclusive on all
// four edges.
func (b BoundingBox) Contains(p orb.Point) bool {
	if b.IsEmpty() {
		return false
	}
	return p[0] >= b.MinLon && p[0] <= b.MaxLon && p[1] >= b.MinLat && p[1] <= b.MaxLat
}

func (b BoundingBox) String() string {
	if b.IsEmpty() {
		return "BoundingBox(empty)"
	}
	return fmt.Sprintf("BoundingBox(%g, %g, %g, %g)", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}
