// Package geoservices exposes provider data through FeatureServer style
// routes: service info, layer info and a feature query.
package geoservices

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/fr0stylo/geocatalog/internal/featureserver"
	"github.com/fr0stylo/geocatalog/internal/observability"
)

const (
	// Name is the output plugin name.
	Name = "geoservices"

	// MaxRecordCount caps the number of features one query returns.
	MaxRecordCount = 2000

	currentVersion = 10.51
	objectIDField  = "OBJECTID"
	wgs84          = 4326
)

// Output implements featureserver.Output.
type Output struct{}

// New returns the output plugin.
func New() Output {
	return Output{}
}

// Name implements featureserver.Output.
func (Output) Name() string {
	return Name
}

// Routes implements featureserver.Output.
func (Output) Routes() []featureserver.Route {
	return []featureserver.Route{
		{Method: http.MethodGet, Path: "/rest/services/:id/FeatureServer", Handler: handleServiceInfo},
		{Method: http.MethodGet, Path: "/rest/services/:id/FeatureServer/:layer", Handler: handleLayerInfo},
		{Method: http.MethodGet, Path: "/rest/services/:id/FeatureServer/:layer/query", Handler: handleQuery},
	}
}

type layerSummary struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	GeometryType string `json:"geometryType,omitempty"`
}

type extent struct {
	XMin             float64          `json:"xmin"`
	YMin             float64          `json:"ymin"`
	XMax             float64          `json:"xmax"`
	YMax             float64          `json:"ymax"`
	SpatialReference spatialReference `json:"spatialReference"`
}

type spatialReference struct {
	WKID int `json:"wkid"`
}

type serviceInfo struct {
	ServiceDescription string         `json:"serviceDescription"`
	CurrentVersion     float64        `json:"currentVersion"`
	MaxRecordCount     int            `json:"maxRecordCount"`
	Layers             []layerSummary `json:"layers"`
	Tables             []layerSummary `json:"tables"`
	FullExtent         *extent        `json:"fullExtent,omitempty"`
}

type field struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Alias string `json:"alias"`
}

type layerInfo struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	GeometryType     string  `json:"geometryType,omitempty"`
	ObjectIDField    string  `json:"objectIdField"`
	Extent           *extent `json:"extent,omitempty"`
	Fields           []field `json:"fields"`
	MaxRecordCount   int     `json:"maxRecordCount"`
	CurrentVersion   float64 `json:"currentVersion"`
	SupportedFormats string  `json:"supportedQueryFormats"`
}

func handleServiceInfo(p featureserver.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		fc, err := p.GetData(observability.WithLayer(c.Request().Context(), id), id)
		if err != nil {
			return featureserver.HTTPError(err)
		}
		return c.JSON(http.StatusOK, serviceInfo{
			ServiceDescription: id,
			CurrentVersion:     currentVersion,
			MaxRecordCount:     MaxRecordCount,
			Layers:             []layerSummary{{ID: 0, Name: id, GeometryType: GeometryType(fc)}},
			Tables:             []layerSummary{},
			FullExtent:         collectionExtent(fc),
		})
	}
}

func handleLayerInfo(p featureserver.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := requireLayerZero(c); err != nil {
			return err
		}
		id := c.Param("id")
		fc, err := p.GetData(observability.WithLayer(c.Request().Context(), id), id)
		if err != nil {
			return featureserver.HTTPError(err)
		}
		return c.JSON(http.StatusOK, layerInfo{
			ID:               0,
			Name:             id,
			Type:             "Feature Layer",
			GeometryType:     GeometryType(fc),
			ObjectIDField:    objectIDField,
			Extent:           collectionExtent(fc),
			Fields:           inferFields(fc),
			MaxRecordCount:   MaxRecordCount,
			CurrentVersion:   currentVersion,
			SupportedFormats: "JSON, geoJSON",
		})
	}
}

func requireLayerZero(c echo.Context) error {
	if c.Param("layer") != "0" {
		return echo.NewHTTPError(http.StatusNotFound, "layer not found")
	}
	return nil
}

// GeometryType reports the GeoServices geometry type of the first feature that
// has a geometry, or "" for an empty collection.
func GeometryType(fc *geojson.FeatureCollection) string {
	if fc == nil {
		return ""
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch f.Geometry.GeoJSONType() {
		case "Point":
			return "esriGeometryPoint"
		case "MultiPoint":
			return "esriGeometryMultipoint"
		case "LineString", "MultiLineString":
			return "esriGeometryPolyline"
		case "Polygon", "MultiPolygon":
			return "esriGeometryPolygon"
		default:
			return ""
		}
	}
	return ""
}

func collectionExtent(fc *geojson.FeatureCollection) *extent {
	if fc == nil {
		return nil
	}
	var (
		bound orb.Bound
		found bool
	)
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if !found {
			bound = f.Geometry.Bound()
			found = true
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}
	if !found {
		return nil
	}
	return &extent{
		XMin:             bound.Min.X(),
		YMin:             bound.Min.Y(),
		XMax:             bound.Max.X(),
		YMax:             bound.Max.Y(),
		SpatialReference: spatialReference{WKID: wgs84},
	}
}

func inferFields(fc *geojson.FeatureCollection) []field {
	fields := []field{{Name: objectIDField, Type: "esriFieldTypeOID", Alias: objectIDField}}
	if fc == nil || len(fc.Features) == 0 || fc.Features[0] == nil {
		return fields
	}
	props := fc.Features[0].Properties
	names := make([]string, 0, len(props))
	for name := range props {
		if name == objectIDField {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fields = append(fields, field{Name: name, Type: fieldType(props[name]), Alias: name})
	}
	return fields
}

func fieldType(value any) string {
	switch v := value.(type) {
	case float64:
		if v == float64(int64(v)) {
			return "esriFieldTypeInteger"
		}
		return "esriFieldTypeDouble"
	case bool:
		return "esriFieldTypeSmallInteger"
	default:
		return "esriFieldTypeString"
	}
}
