// Package geojson returns provider datasets unchanged as GeoJSON.
package geojson

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/geocatalog/internal/featureserver"
	"github.com/fr0stylo/geocatalog/internal/observability"
)

const (
	// Name is the output plugin name.
	Name = "geojson"

	// MIMEGeoJSON is the registered media type for GeoJSON (RFC 7946).
	MIMEGeoJSON = "application/geo+json"
)

// Output implements featureserver.Output.
type Output struct{}

func New() Output {
	return Output{}
}

func (Output) Name() string {
	return Name
}

func (Output) Routes() []featureserver.Route {
	return []featureserver.Route{
		{Method: http.MethodGet, Path: "/:id/geojson", Handler: handleGeoJSON},
	}
}

func handleGeoJSON(p featureserver.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		fc, err := p.GetData(observability.WithLayer(c.Request().Context(), id), id)
		if err != nil {
			return featureserver.HTTPError(err)
		}
		body, err := json.Marshal(fc)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "unable to encode dataset").SetInternal(err)
		}
		return c.Blob(http.StatusOK, MIMEGeoJSON, body)
	}
}
