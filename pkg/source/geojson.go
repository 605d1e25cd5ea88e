package source

import (
	"fmt"
	"sort"

	"gis-tools/pkg/recordset"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func decodeGeoJSON(name string, data []byte) (*recordset.RecordSet, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, &ParseError{Format: GeoJSON, Err: err}
	}

	props := make([]map[string]any, 0, len(fc.Features))
	geoms := make([]orb.Geometry, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		props = append(props, f.Properties)
		geoms = append(geoms, f.Geometry)
	}

	if len(geoms) == 0 {
		return nil, &ParseError{Format: GeoJSON, Err: fmt.Errorf("no features with geometry")}
	}

	return featuresToRecordSet(name, props, geoms), nil
}

// featuresToRecordSet builds a geometry-bearing record set from parallel
// property/geometry slices. The schema is the union of property keys in
// sorted order, with kinds inferred from the first non-nil value per key.
func featuresToRecordSet(name string, props []map[string]any, geoms []orb.Geometry) *recordset.RecordSet {
	keys := make(map[string]struct{})
	for _, p := range props {
		for k := range p {
			keys[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(keys))
	for k := range keys {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	schema := make(recordset.Schema, 0, len(columns))
	for _, col := range columns {
		kind := recordset.KindString
		for _, p := range props {
			if v, ok := p[col]; ok && v != nil {
				kind = kindOfValue(v)
				break
			}
		}
		schema = append(schema, recordset.Field{Name: col, Kind: kind})
	}

	records := make([]recordset.Record, 0, len(geoms))
	for i, g := range geoms {
		attrs := make(map[string]any, len(schema))
		for _, f := range schema {
			attrs[f.Name] = normalizeValue(props[i][f.Name])
		}
		records = append(records, recordset.Record{Attrs: attrs, Geometry: g})
	}

	return recordset.New(name, schema, records)
}

func kindOfValue(v any) recordset.Kind {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return recordset.KindNumber
	case bool:
		return recordset.KindBool
	default:
		return recordset.KindString
	}
}

// normalizeValue collapses JSON scalars to the record value domain:
// float64, string, bool, or nil.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case bool:
		return val
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
