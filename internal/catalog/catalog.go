// Package catalog derives the list of published data layers from the contents
// of the data directory.
package catalog

import (
	"fmt"
	"io/fs"
	"strings"
)

const (
	// Extension is the suffix a file needs to be published as a layer.
	Extension = ".geojson"
	// ServiceType tags every entry with the service kind that serves it.
	ServiceType = "FeatureServer"

	servicesPath = "/file-geojson/rest/services/"
)

// Entry describes one published layer.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	URL      string `json:"url"`
	QueryURL string `json:"queryUrl"`
}

// Response is the catalog payload.
type Response struct {
	Services []Entry `json:"services"`
	Count    int     `json:"count"`
}

// Scan lists the root of fsys and builds a catalog from the matching files.
// Subdirectories are skipped.
func Scan(fsys fs.FS) (Response, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return Response{}, fmt.Errorf("read data directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return FromNames(names), nil
}

// FromNames builds a catalog from file names, keeping their order.
func FromNames(names []string) Response {
	services := make([]Entry, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, Extension) {
			continue
		}
		services = append(services, NewEntry(strings.TrimSuffix(name, Extension)))
	}
	return Response{Services: services, Count: len(services)}
}

// NewEntry builds the entry for a layer id.
func NewEntry(id string) Entry {
	base := servicesPath + id + "/" + ServiceType
	return Entry{
		ID:       id,
		Name:     DisplayName(id),
		Type:     ServiceType,
		URL:      base,
		QueryURL: base + "/0/query",
	}
}

// DisplayName turns a layer id such as "parks-and-trails" into "Parks And Trails".
// Dashes become spaces and every ASCII letter that starts a word is upper-cased.
// Word characters are [A-Za-z0-9_]; anything else, non-ASCII included, separates words.
func DisplayName(id string) string {
	out := []byte(strings.ReplaceAll(id, "-", " "))
	prevWord := false
	for i, b := range out {
		word := isWordByte(b)
		if word && !prevWord && b >= 'a' && b <= 'z' {
			out[i] = b - ('a' - 'A')
		}
		prevWord = word
	}
	return string(out)
}

func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	default:
		return false
	}
}
