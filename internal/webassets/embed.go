// Package webassets holds the site assets baked into the binary at build
// time. Precompressed variants (.br/.gz) are produced by the build
// pipeline and embedded alongside their originals; the handler negotiates
// them at request time.
package webassets

import (
	"embed"
	"fmt"
	"io/fs"
)

// site/ must exist and contain at least one file to satisfy go:embed
//
//go:embed site
var embedded embed.FS

// SiteFS returns the embedded site rooted at its content directory, so
// keys are plain relative paths ("index.html", "css/style.css").
func SiteFS() fs.FS {
	sub, err := fs.Sub(embedded, "site")
	if err != nil {
		panic(fmt.Errorf("webassets: site subfs: %w", err))
	}
	return sub
}
