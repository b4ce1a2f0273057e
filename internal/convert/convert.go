// Package convert turns flat JSON records with latitude/longitude columns into
// GeoJSON point features.
package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	DefaultLatitudeField  = "latitude"
	DefaultLongitudeField = "longitude"
)

// Options name the coordinate columns.
type Options struct {
	LatitudeField  string
	LongitudeField string
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.LatitudeField) == "" {
		o.LatitudeField = DefaultLatitudeField
	}
	if strings.TrimSpace(o.LongitudeField) == "" {
		o.LongitudeField = DefaultLongitudeField
	}
	return o
}

// Stats summarises one conversion.
type Stats struct {
	Read      int
	Converted int
	Skipped   int
}

// Records converts records into point features. Records whose coordinates are
// missing, empty, unparsable or zero are skipped. Every other field is copied
// into the feature properties.
func Records(records []map[string]any, opts Options) (*geojson.FeatureCollection, Stats) {
	opts = opts.withDefaults()
	fc := geojson.NewFeatureCollection()
	stats := Stats{Read: len(records)}

	for _, record := range records {
		lat, okLat := coordinate(record[opts.LatitudeField])
		lon, okLon := coordinate(record[opts.LongitudeField])
		if !okLat || !okLon {
			stats.Skipped++
			continue
		}

		feature := geojson.NewFeature(orb.Point{lon, lat})
		for key, value := range record {
			if key == opts.LatitudeField || key == opts.LongitudeField {
				continue
			}
			feature.Properties[key] = value
		}
		fc.Append(feature)
		stats.Converted++
	}
	return fc, stats
}

func coordinate(value any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch v := value.(type) {
	case float64:
		f = v
	case json.Number:
		f, err = v.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, false
	}
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Decode reads a JSON array of records. Numbers keep their original text.
func Decode(data []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// File converts the records in input and writes the collection to output.
func File(ctx context.Context, input, output string, opts Options) (Stats, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return Stats{}, fmt.Errorf("read input: %w", err)
	}
	records, err := Decode(data)
	if err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	fc, stats := Records(records, opts)
	body, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return Stats{}, fmt.Errorf("encode collection: %w", err)
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, append(body, '\n'), 0o644); err != nil {
		return Stats{}, fmt.Errorf("write output: %w", err)
	}
	return stats, nil
}
