package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/geocatalog/internal/catalog"
	"github.com/fr0stylo/geocatalog/internal/featureserver"
	"github.com/fr0stylo/geocatalog/internal/outputs/geoservices"
	"github.com/fr0stylo/geocatalog/internal/providers/filegeojson"
	"github.com/fr0stylo/geocatalog/internal/server/routes"
)

const roads = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{"name":"Main"}}
]}`

const single = `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{"name":"Only"}}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	data := fstest.MapFS{
		"roads.geojson":  {Data: []byte(roads)},
		"single.geojson": {Data: []byte(single)},
	}

	host := featureserver.NewHost(log)
	if err := host.RegisterOutput(geoservices.New()); err != nil {
		t.Fatalf("register output: %v", err)
	}
	if err := host.RegisterProvider(filegeojson.NewFS(data, log)); err != nil {
		t.Fatalf("register provider: %v", err)
	}

	srv := New(log, Options{})
	srv.RegisterRouter(routes.NewIndexRoutes(fstest.MapFS{"index.html": {Data: []byte("index")}}))
	srv.RegisterRouter(routes.NewCatalogRoutesFS(data, log))
	srv.RegisterRouter(host)
	return srv
}

func TestServerServesCatalogAndFeatureRoutes(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cases := []struct {
		target string
		want   int
	}{
		{target: "/", want: http.StatusOK},
		{target: "/catalog", want: http.StatusOK},
		{target: "/file-geojson/rest/services/roads/FeatureServer", want: http.StatusOK},
		{target: "/file-geojson/rest/services/roads/FeatureServer/0/query", want: http.StatusOK},
		{target: "/file-geojson/rest/services/parks/FeatureServer", want: http.StatusNotFound},
		{target: "/unknown", want: http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s: got=%d want=%d body=%s", tc.target, rec.Code, tc.want, rec.Body.String())
		}
		if rec.Header().Get(echo.HeaderXRequestID) == "" {
			t.Fatalf("%s: expected request id header", tc.target)
		}
	}
}

func TestServerAllowsCrossOriginRequests(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.Header.Set(echo.HeaderOrigin, "https://maps.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
}

func TestServerServesEveryCatalogURL(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog: expected 200, got %d", rec.Code)
	}

	var body catalog.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if body.Count != 2 {
		t.Fatalf("expected 2 services, got %#v", body)
	}
	for _, svc := range body.Services {
		for _, target := range []string{svc.URL, svc.QueryURL} {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d body=%s", target, rec.Code, rec.Body.String())
			}
		}
	}
}
