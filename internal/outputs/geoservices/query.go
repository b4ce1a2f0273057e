package geoservices

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb/geojson"

	"github.com/fr0stylo/geocatalog/internal/featureserver"
	"github.com/fr0stylo/geocatalog/internal/observability"
)

// queryParams holds the supported subset of FeatureServer query parameters.
// Spatial and attribute filters (geometry, where) are accepted and ignored.
type queryParams struct {
	offset      int
	limit       int
	countOnly   bool
	outFields   []string
	allFields   bool
	returnGeoms bool
}

type countResponse struct {
	Count int `json:"count"`
}

func parseQuery(c echo.Context) (queryParams, error) {
	q := queryParams{limit: MaxRecordCount, allFields: true, returnGeoms: true}

	var err error
	if q.offset, err = intParam(c, "resultOffset", 0); err != nil {
		return queryParams{}, err
	}
	if q.limit, err = intParam(c, "resultRecordCount", MaxRecordCount); err != nil {
		return queryParams{}, err
	}
	if q.limit > MaxRecordCount {
		q.limit = MaxRecordCount
	}
	if q.countOnly, err = boolParam(c, "returnCountOnly", false); err != nil {
		return queryParams{}, err
	}
	if q.returnGeoms, err = boolParam(c, "returnGeometry", true); err != nil {
		return queryParams{}, err
	}

	if raw := strings.TrimSpace(c.QueryParam("outFields")); raw != "" && raw != "*" {
		q.allFields = false
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				q.outFields = append(q.outFields, name)
			}
		}
	}
	return q, nil
}

func intParam(c echo.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return value, nil
}

func boolParam(c echo.Context, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return value, nil
}

func handleQuery(p featureserver.Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := requireLayerZero(c); err != nil {
			return err
		}
		params, err := parseQuery(c)
		if err != nil {
			return err
		}

		id := c.Param("id")
		fc, err := p.GetData(observability.WithLayer(c.Request().Context(), id), id)
		if err != nil {
			return featureserver.HTTPError(err)
		}

		if params.countOnly {
			return c.JSON(http.StatusOK, countResponse{Count: len(fc.Features)})
		}
		return c.JSON(http.StatusOK, applyQuery(fc, params))
	}
}

// applyQuery pages and projects fc into a new collection. Feature ids are
// assigned from the feature's position in the source collection when absent.
func applyQuery(fc *geojson.FeatureCollection, params queryParams) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	if params.offset >= len(fc.Features) {
		return out
	}
	end := params.offset + params.limit
	if end > len(fc.Features) {
		end = len(fc.Features)
	}

	for i, f := range fc.Features[params.offset:end] {
		if f == nil {
			continue
		}
		projected := &geojson.Feature{
			Type:       "Feature",
			ID:         f.ID,
			Properties: projectProperties(f.Properties, params),
		}
		if projected.ID == nil {
			projected.ID = params.offset + i + 1
		}
		if params.returnGeoms {
			projected.Geometry = f.Geometry
			projected.BBox = f.BBox
		}
		out.Append(projected)
	}
	return out
}

func projectProperties(props geojson.Properties, params queryParams) geojson.Properties {
	if params.allFields {
		return props.Clone()
	}
	projected := make(geojson.Properties, len(params.outFields))
	for _, name := range params.outFields {
		if value, ok := props[name]; ok {
			projected[name] = value
		}
	}
	return projected
}
