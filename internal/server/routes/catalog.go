package routes

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/geocatalog/internal/catalog"
	"github.com/fr0stylo/geocatalog/internal/observability"
)

const catalogReadError = "Unable to read data directory"

// CatalogRoutes lists the layers published from the data directory.
type CatalogRoutes struct {
	data    fs.FS
	log     *slog.Logger
	metrics observability.CatalogMetrics
}

// NewCatalogRoutes serves the catalog of dataDir.
func NewCatalogRoutes(dataDir string, log *slog.Logger) *CatalogRoutes {
	return NewCatalogRoutesFS(os.DirFS(dataDir), log)
}

// NewCatalogRoutesFS serves the catalog of fsys.
func NewCatalogRoutesFS(data fs.FS, log *slog.Logger) *CatalogRoutes {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogRoutes{data: data, log: log, metrics: observability.NewCatalogMetrics()}
}

// RegisterRoutes registers the catalog endpoint.
func (r *CatalogRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/catalog", r.handleCatalog)
}

func (r *CatalogRoutes) handleCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, span := observability.StartFileSpan(ctx, "list", ".")
	resp, err := catalog.Scan(r.data)
	if err != nil {
		span.RecordError(err)
		span.End()
		r.metrics.RecordFailure(ctx)
		r.log.WarnContext(ctx, "Catalog listing failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": catalogReadError})
	}
	span.End()

	r.metrics.RecordListing(ctx, resp.Count)
	return c.JSON(http.StatusOK, resp)
}
