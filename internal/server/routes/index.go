package routes

import (
	"io/fs"

	"github.com/labstack/echo/v4"
)

const indexPage = "index.html"

// IndexRoutes serves the landing page.
type IndexRoutes struct {
	public fs.FS
}

// NewIndexRoutes serves index.html from public.
func NewIndexRoutes(public fs.FS) *IndexRoutes {
	return &IndexRoutes{public: public}
}

// RegisterRoutes registers the landing page.
func (r *IndexRoutes) RegisterRoutes(s *echo.Echo) {
	s.FileFS("/", indexPage, r.public)
}
