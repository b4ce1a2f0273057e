// Package featureserver hosts data providers and the output plugins that
// expose them over HTTP.
//
// A provider supplies feature collections by dataset id. An output owns a set
// of routes and renders provider data. Host mounts every output route once per
// provider, under the provider's name:
//
//	/<provider><route>
//
// so registering the "file-geojson" provider and the "geoservices" output
// serves /file-geojson/rest/services/:id/FeatureServer.
package featureserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrNotFound is returned by providers for unknown dataset ids.
	ErrNotFound = errors.New("dataset not found")
	// ErrInvalidID is returned by providers for ids they refuse to resolve.
	ErrInvalidID = errors.New("invalid dataset id")
)

// Provider supplies feature data for one kind of data source.
type Provider interface {
	Name() string
	GetData(ctx context.Context, id string) (*geojson.FeatureCollection, error)
}

// Output exposes provider data over HTTP.
type Output interface {
	Name() string
	Routes() []Route
}

// Route is one output endpoint. Path is relative to the provider namespace.
type Route struct {
	Method  string
	Path    string
	Handler func(Provider) echo.HandlerFunc
}

// HTTPError maps provider errors onto HTTP errors.
func HTTPError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "dataset not found")
	case errors.Is(err, ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid dataset id")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "unable to load dataset").SetInternal(err)
	}
}
