// Package filegeojson serves GeoJSON files from a data directory, one dataset
// per "<id>.geojson" file.
package filegeojson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/fr0stylo/geocatalog/internal/catalog"
	"github.com/fr0stylo/geocatalog/internal/featureserver"
	"github.com/fr0stylo/geocatalog/internal/observability"
)

// Name is the namespace the provider is mounted under.
const Name = "file-geojson"

// Provider reads datasets from a directory.
type Provider struct {
	fsys    fs.FS
	log     *slog.Logger
	metrics observability.ProviderMetrics
}

// New returns a provider reading from dataDir.
func New(dataDir string, log *slog.Logger) *Provider {
	return NewFS(os.DirFS(dataDir), log)
}

// NewFS returns a provider reading from fsys.
func NewFS(fsys fs.FS, log *slog.Logger) *Provider {
	if log == nil {
		log = slog.Default()
	}
	return &Provider{fsys: fsys, log: log, metrics: observability.NewProviderMetrics()}
}

// Name implements featureserver.Provider.
func (p *Provider) Name() string {
	return Name
}

// GetData loads and parses "<id>.geojson".
func (p *Provider) GetData(ctx context.Context, id string) (*geojson.FeatureCollection, error) {
	if !validID(id) {
		p.metrics.RecordRead(ctx, Name, "invalid")
		return nil, fmt.Errorf("%w: %q", featureserver.ErrInvalidID, id)
	}
	file := id + catalog.Extension

	ctx, span := observability.StartFileSpan(ctx, "read", file)
	defer span.End()

	data, err := fs.ReadFile(p.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.metrics.RecordRead(ctx, Name, "not_found")
			p.log.DebugContext(ctx, "Dataset not found", "file", file)
			return nil, fmt.Errorf("%w: %s", featureserver.ErrNotFound, id)
		}
		span.RecordError(err)
		p.metrics.RecordRead(ctx, Name, "error")
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	fc, err := decode(data)
	if err != nil {
		span.RecordError(err)
		p.metrics.RecordRead(ctx, Name, "error")
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	p.metrics.RecordRead(ctx, Name, "ok")
	return fc, nil
}

// decode accepts a FeatureCollection or a single Feature, which is wrapped in a
// one-element collection.
func decode(data []byte) (*geojson.FeatureCollection, error) {
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	switch doc.Type {
	case "FeatureCollection":
		return geojson.UnmarshalFeatureCollection(data)
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return geojson.NewFeatureCollection().Append(f), nil
	default:
		return nil, fmt.Errorf("unsupported GeoJSON type %q", doc.Type)
	}
}

func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	if strings.ContainsAny(id, `/\`) {
		return false
	}
	return fs.ValidPath(id)
}
