package source

import "testing"

func TestInferCoordinateColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		wantLat string
		wantLon string
	}{
		{
			name:    "first match per axis wins",
			columns: []string{"id", "Lat", "latitude", "Lng"},
			wantLat: "Lat",
			wantLon: "Lng",
		},
		{
			name:    "case insensitive substrings",
			columns: []string{"ID", "LATITUDE", "LONGITUDE"},
			wantLat: "LATITUDE",
			wantLon: "LONGITUDE",
		},
		{
			name:    "embedded substrings match",
			columns: []string{"site_lat_deg", "site_lng_deg"},
			wantLat: "site_lat_deg",
			wantLon: "site_lng_deg",
		},
		{
			name:    "no match returns empty",
			columns: []string{"id", "name", "value"},
			wantLat: "",
			wantLon: "",
		},
		{
			name:    "column matching both patterns is latitude only",
			columns: []string{"lat_long", "longitude"},
			wantLat: "lat_long",
			wantLon: "longitude",
		},
		{
			name:    "missing longitude axis",
			columns: []string{"lat", "value"},
			wantLat: "lat",
			wantLon: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon := InferCoordinateColumns(tt.columns)
			if lat != tt.wantLat {
				t.Errorf("latitude: expected %q, got %q", tt.wantLat, lat)
			}
			if lon != tt.wantLon {
				t.Errorf("longitude: expected %q, got %q", tt.wantLon, lon)
			}
		})
	}
}
