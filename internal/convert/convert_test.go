package convert

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsSkipsInvalidCoordinates(t *testing.T) {
	records, err := Decode([]byte(`[
		{"name": "ok-number", "latitude": 37.77, "longitude": -122.41},
		{"name": "ok-string", "latitude": "37.80", "longitude": " -122.27 "},
		{"name": "zero-lat", "latitude": 0, "longitude": -122.41},
		{"name": "zero-string", "latitude": "0.0", "longitude": "-122.41"},
		{"name": "empty", "latitude": "", "longitude": "-122.41"},
		{"name": "missing", "longitude": -122.41},
		{"name": "garbage", "latitude": "north", "longitude": "-122.41"},
		{"name": "null", "latitude": null, "longitude": -122.41}
	]`))
	require.NoError(t, err)

	fc, stats := Records(records, Options{})
	assert.Equal(t, Stats{Read: 8, Converted: 2, Skipped: 6}, stats)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, orb.Point{-122.41, 37.77}, first.Geometry)
	assert.Equal(t, "ok-number", first.Properties["name"])
	assert.NotContains(t, first.Properties, "latitude")
	assert.NotContains(t, first.Properties, "longitude")

	assert.Equal(t, orb.Point{-122.27, 37.80}, fc.Features[1].Geometry)
}

func TestRecordsCustomFields(t *testing.T) {
	records := []map[string]any{
		{"Lat": 51.5, "Lon": -0.12, "latitude": "kept"},
	}

	fc, stats := Records(records, Options{LatitudeField: "Lat", LongitudeField: "Lon"})
	assert.Equal(t, 1, stats.Converted)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, orb.Point{-0.12, 51.5}, fc.Features[0].Geometry)
	assert.Equal(t, "kept", fc.Features[0].Properties["latitude"])
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode([]byte(`{"latitude": 1}`))
	assert.Error(t, err)
}

func TestFileWritesFeatureCollection(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "housing.json")
	output := filepath.Join(dir, "provider-data", "housing.geojson")
	require.NoError(t, os.WriteFile(input, []byte(`[
		{"Address": "1 Main St", "Units": 12, "latitude": "37.1", "longitude": "-122.1"},
		{"Address": "nowhere", "Units": 3, "latitude": "", "longitude": ""}
	]`), 0o600))

	stats, err := File(context.Background(), input, output, Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 2, Converted: 1, Skipped: 1}, stats)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "1 Main St", fc.Features[0].Properties["Address"])
	assert.Equal(t, float64(12), fc.Features[0].Properties["Units"])

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `"FeatureCollection"`, string(raw["type"]))
}

func TestFileMissingInput(t *testing.T) {
	_, err := File(context.Background(), filepath.Join(t.TempDir(), "nope.json"), filepath.Join(t.TempDir(), "out.geojson"), Options{})
	assert.Error(t, err)
}

func TestFileHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(input, []byte(`[]`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := File(ctx, input, filepath.Join(dir, "out.geojson"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
