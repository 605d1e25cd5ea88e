package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gis-tools/pkg/source"

	"github.com/stretchr/testify/assert"
)

const townsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-76.6, 39.3]}, "properties": {"name": "Baltimore"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-77.0, 38.9]}, "properties": {"name": "DC"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-76.9, 39.0]}, "properties": {"name": "Laurel"}}
	]
}`

func TestLoadSingleGeoJSONSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(townsGeoJSON))
	}))
	defer server.Close()

	d, err := source.NewURL(server.URL + "/towns.geojson")
	assert.NoError(t, err)

	result, err := New(Options{}).Load(context.Background(), []source.Descriptor{d}, LoadOptions{})
	assert.NoError(t, err)
	assert.Len(t, result.Layers, 1)
	assert.Empty(t, result.Failures)

	layer := result.Layers[0]
	assert.Equal(t, StateLoaded, layer.State)
	assert.Equal(t, 3, layer.Set.Len())

	// Combined bounds equal the envelope over the three features.
	assert.Equal(t, -77.0, result.Bounds.MinLon)
	assert.Equal(t, 38.9, result.Bounds.MinLat)
	assert.Equal(t, -76.6, result.Bounds.MaxLon)
	assert.Equal(t, 39.3, result.Bounds.MaxLat)
}

func TestLoadTabularWithInference(t *testing.T) {
	csvUpload, err := source.NewUpload("sites.csv", []byte("id,Latitude,Longitude\n1,5.5,95.3\n2,,95.4\n"))
	assert.NoError(t, err)

	result, err := New(Options{}).Load(context.Background(), []source.Descriptor{csvUpload}, LoadOptions{})
	assert.NoError(t, err)
	assert.Len(t, result.Layers, 1)

	layer := result.Layers[0]
	assert.Equal(t, 1, layer.Set.Len())
	assert.Equal(t, 1, layer.Dropped)
	assert.Equal(t, 5.5, layer.Bounds.MinLat)
	assert.Equal(t, 95.3, layer.Bounds.MinLon)
}

func TestLoadColumnOverrideBeatsInference(t *testing.T) {
	// "platitude" matches the latitude pattern; force the real column.
	csvUpload, err := source.NewUpload("odd.csv", []byte("platitude,y,x\nhello,5.5,95.3\n"))
	assert.NoError(t, err)

	result, err := New(Options{}).Load(context.Background(), []source.Descriptor{csvUpload}, LoadOptions{
		LatColumn: "y",
		LonColumn: "x",
	})
	assert.NoError(t, err)
	assert.Len(t, result.Layers, 1)
	assert.Equal(t, 1, result.Layers[0].Set.Len())
}

func TestLoadNoCoordinateColumns(t *testing.T) {
	csvUpload, err := source.NewUpload("plain.csv", []byte("id,name\n1,alpha\n"))
	assert.NoError(t, err)

	result, err := New(Options{}).Load(context.Background(), []source.Descriptor{csvUpload}, LoadOptions{})
	assert.NoError(t, err)
	assert.Empty(t, result.Layers)
	assert.Len(t, result.Failures, 1)
	assert.ErrorIs(t, result.Failures[0].Err, ErrNoCoordinateColumns)
}

func TestLoadMultiSourceIsolatesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(townsGeoJSON))
	}))
	defer good.Close()

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	descs := make([]source.Descriptor, 0, 3)
	for _, u := range []string{good.URL + "/a.geojson", bad.URL + "/b.geojson", good.URL + "/c.geojson"} {
		d, err := source.NewURL(u)
		assert.NoError(t, err)
		descs = append(descs, d)
	}

	result, err := New(Options{Workers: 3}).Load(context.Background(), descs, LoadOptions{})
	assert.NoError(t, err)

	// One reported failure, two correctly bounded layers.
	assert.Len(t, result.Layers, 2)
	assert.Len(t, result.Failures, 1)
	assert.Equal(t, "b", result.Failures[0].Source)

	var fetchErr *source.FetchError
	assert.ErrorAs(t, result.Failures[0].Err, &fetchErr)

	for _, layer := range result.Layers {
		assert.Equal(t, 3, layer.Set.Len())
		assert.False(t, layer.Bounds.IsEmpty())
	}
	assert.Equal(t, -77.0, result.Bounds.MinLon)
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(townsGeoJSON))
	}))
	defer server.Close()

	d, err := source.NewURL(server.URL + "/towns.geojson")
	assert.NoError(t, err)

	_, err = New(Options{}).Load(ctx, []source.Descriptor{d}, LoadOptions{})
	assert.Error(t, err)
}
