package source

import (
	"encoding/json"
	"fmt"

	"gis-tools/pkg/recordset"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// arcGISCollection is the feature collection shape returned by ArcGIS REST
// feature services. Depending on the requested output format the rows carry
// either ESRI-style "attributes" or GeoJSON-style "properties".
type arcGISCollection struct {
	Features []arcGISFeature `json:"features"`
}

type arcGISFeature struct {
	Attributes map[string]any  `json:"attributes"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// esriGeometry covers the ESRI JSON geometry variants: point (x/y),
// polyline (paths), polygon (rings).
type esriGeometry struct {
	X     *float64      `json:"x"`
	Y     *float64      `json:"y"`
	Paths [][][]float64 `json:"paths"`
	Rings [][][]float64 `json:"rings"`
}

func decodeArcGIS(name string, data []byte) (*recordset.RecordSet, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ParseError{Format: ArcGISJSON, Err: err}
	}
	if _, ok := probe["features"]; !ok {
		return nil, &ParseError{Format: ArcGISJSON, Err: fmt.Errorf(`missing "features" key`)}
	}

	var coll arcGISCollection
	if err := json.Unmarshal(data, &coll); err != nil {
		return nil, &ParseError{Format: ArcGISJSON, Err: err}
	}

	props := make([]map[string]any, 0, len(coll.Features))
	geoms := make([]orb.Geometry, 0, len(coll.Features))
	for i, f := range coll.Features {
		g, err := parseArcGISGeometry(f.Geometry)
		if err != nil {
			return nil, &ParseError{Format: ArcGISJSON, Err: fmt.Errorf("feature %d: %w", i, err)}
		}
		if g == nil {
			continue
		}

		p := f.Attributes
		if p == nil {
			p = f.Properties
		}
		if p == nil {
			p = map[string]any{}
		}
		props = append(props, p)
		geoms = append(geoms, g)
	}

	if len(geoms) == 0 {
		return nil, &ParseError{Format: ArcGISJSON, Err: fmt.Errorf("no features with geometry")}
	}

	return featuresToRecordSet(name, props, geoms), nil
}

func parseArcGISGeometry(raw json.RawMessage) (orb.Geometry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var eg esriGeometry
	if err := json.Unmarshal(raw, &eg); err == nil {
		switch {
		case eg.X != nil && eg.Y != nil:
			return orb.Point{*eg.X, *eg.Y}, nil
		case len(eg.Paths) > 0:
			return pathsToMultiLineString(eg.Paths), nil
		case len(eg.Rings) > 0:
			return ringsToPolygon(eg.Rings), nil
		}
	}

	// Fall back to a GeoJSON geometry, which some feature services emit.
	var gj geojson.Geometry
	if err := json.Unmarshal(raw, &gj); err != nil {
		return nil, fmt.Errorf("unrecognized geometry: %w", err)
	}
	return gj.Geometry(), nil
}

func pathsToMultiLineString(paths [][][]float64) orb.MultiLineString {
	out := make(orb.MultiLineString, 0, len(paths))
	for _, path := range paths {
		line := make(orb.LineString, 0, len(path))
		for _, v := range path {
			if len(v) < 2 {
				continue
			}
			line = append(line, orb.Point{v[0], v[1]})
		}
		out = append(out, line)
	}
	return out
}

func ringsToPolygon(rings [][][]float64) orb.Polygon {
	out := make(orb.Polygon, 0, len(rings))
	for _, ring := range rings {
		r := make(orb.Ring, 0, len(ring))
		for _, v := range ring {
			if len(v) < 2 {
				continue
			}
			r = append(r, orb.Point{v[0], v[1]})
		}
		out = append(out, r)
	}
	return out
}
