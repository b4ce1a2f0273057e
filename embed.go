package geocatalog

import (
	"embed"
	"io/fs"
)

// PublicFS holds the static assets served at the site root.
//
//go:embed public
var PublicFS embed.FS

// PublicAssets returns PublicFS rooted at the public directory.
func PublicAssets() (fs.FS, error) {
	return fs.Sub(PublicFS, "public")
}
