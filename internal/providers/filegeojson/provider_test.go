package filegeojson

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/fr0stylo/geocatalog/internal/featureserver"
)

const parks = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-122.4, 37.7]}, "properties": {"name": "Civic"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-122.5, 37.8]}, "properties": {"name": "Golden Gate"}}
  ]
}`

func TestGetDataParsesFeatureCollection(t *testing.T) {
	t.Parallel()

	p := NewFS(fstest.MapFS{"parks.geojson": {Data: []byte(parks)}}, nil)
	fc, err := p.GetData(context.Background(), "parks")
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	if got := fc.Features[1].Properties.MustString("name"); got != "Golden Gate" {
		t.Fatalf("unexpected property: %q", got)
	}
}

func TestGetDataReadsFromDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "parks.geojson"), []byte(parks), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fc, err := New(dir, nil).GetData(context.Background(), "parks")
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
}

func TestGetDataErrors(t *testing.T) {
	t.Parallel()

	p := NewFS(fstest.MapFS{
		"broken.geojson": {Data: []byte("{not json")},
		"notes.txt":      {Data: []byte("notes")},
	}, nil)

	cases := []struct {
		id      string
		wantErr error
	}{
		{id: "missing", wantErr: featureserver.ErrNotFound},
		{id: "notes", wantErr: featureserver.ErrNotFound},
		{id: "", wantErr: featureserver.ErrInvalidID},
		{id: "..", wantErr: featureserver.ErrInvalidID},
		{id: "a/b", wantErr: featureserver.ErrInvalidID},
		{id: `a\b`, wantErr: featureserver.ErrInvalidID},
	}
	for _, tc := range cases {
		_, err := p.GetData(context.Background(), tc.id)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("GetData(%q): got %v want %v", tc.id, err, tc.wantErr)
		}
	}

	_, err := p.GetData(context.Background(), "broken")
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.Is(err, featureserver.ErrNotFound) || errors.Is(err, featureserver.ErrInvalidID) {
		t.Fatalf("parse error must not look like a client error: %v", err)
	}
}

func TestProviderName(t *testing.T) {
	t.Parallel()

	if got := NewFS(fstest.MapFS{}, nil).Name(); got != "file-geojson" {
		t.Fatalf("unexpected provider name: %q", got)
	}
}

func TestGetDataWrapsSingleFeature(t *testing.T) {
	t.Parallel()

	p := NewFS(fstest.MapFS{
		"single.geojson":   {Data: []byte(`{"type": "Feature", "geometry": {"type": "Point", "coordinates": [1, 2]}, "properties": {"name": "only"}}`)},
		"geometry.geojson": {Data: []byte(`{"type": "Point", "coordinates": [1, 2]}`)},
	}, nil)

	fc, err := p.GetData(context.Background(), "single")
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected one wrapped feature, got %d", len(fc.Features))
	}
	if got := fc.Features[0].Properties.MustString("name"); got != "only" {
		t.Fatalf("unexpected property: %q", got)
	}

	if _, err := p.GetData(context.Background(), "geometry"); err == nil {
		t.Fatal("expected bare geometry to be rejected")
	}
}
