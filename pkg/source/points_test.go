package source

import (
	"testing"

	"gis-tools/pkg/recordset"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func tabularSet(rows []map[string]any) *recordset.RecordSet {
	schema := recordset.Schema{
		{Name: "lat", Kind: recordset.KindNumber},
		{Name: "lon", Kind: recordset.KindNumber},
		{Name: "name", Kind: recordset.KindString},
	}
	records := make([]recordset.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordset.Record{Attrs: row})
	}
	return recordset.New("test", schema, records)
}

func TestBuildPointsDropsMissingCoordinates(t *testing.T) {
	rs := tabularSet([]map[string]any{
		{"lat": 1.0, "lon": 2.0, "name": "a"},
		{"lat": nil, "lon": 3.0, "name": "b"},
	})

	built, dropped, err := BuildPoints(rs, "lat", "lon")
	assert.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, built.Len())
	assert.Equal(t, 1, built.DroppedRows())

	p, ok := built.Records()[0].Point()
	assert.True(t, ok)
	assert.Equal(t, orb.Point{2, 1}, p)

	// Original set untouched
	assert.Equal(t, 2, rs.Len())
	assert.False(t, rs.HasGeometry())
}

func TestBuildPointsParsesStringCells(t *testing.T) {
	rs := tabularSet([]map[string]any{
		{"lat": "5.5", "lon": "95.3", "name": "a"},
		{"lat": "not-a-number", "lon": "95.3", "name": "b"},
	})

	built, dropped, err := BuildPoints(rs, "lat", "lon")
	assert.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, built.Len())
}

func TestBuildPointsNoRangeValidation(t *testing.T) {
	// Latitudes outside [-90, 90] pass through untouched.
	rs := tabularSet([]map[string]any{
		{"lat": 120.0, "lon": 200.0, "name": "a"},
	})

	built, dropped, err := BuildPoints(rs, "lat", "lon")
	assert.NoError(t, err)
	assert.Equal(t, 0, dropped)

	p, _ := built.Records()[0].Point()
	assert.Equal(t, orb.Point{200, 120}, p)
}

func TestBuildPointsUnknownColumn(t *testing.T) {
	rs := tabularSet(nil)

	_, _, err := BuildPoints(rs, "missing", "lon")
	assert.Error(t, err)

	_, _, err = BuildPoints(rs, "lat", "missing")
	assert.Error(t, err)
}
