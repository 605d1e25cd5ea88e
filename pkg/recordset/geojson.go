package recordset

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

// ToGeoJSON serializes the set as a GeoJSON FeatureCollection. This is the
// handoff shape consumed by the rendering collaborator. Records without a
// geometry are skipped.
func (s *RecordSet) ToGeoJSON() ([]byte, error) {
	if len(s.records) == 0 {
		return nil, fmt.Errorf("no records to convert")
	}

	fc := geojson.NewFeatureCollection()
	for _, rec := range s.records {
		if rec.Geometry == nil {
			continue
		}
		f := geojson.NewFeature(rec.Geometry)
		for k, v := range rec.Attrs {
			f.Properties[k] = v
		}
		fc.Append(f)
	}

	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("no records with geometry to convert")
	}

	return json.MarshalIndent(fc, "", "  ")
}
