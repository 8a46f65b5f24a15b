//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

// IsDev reports whether assets are served from the source tree.
const IsDev = false

//go:embed static/*
var staticFS embed.FS

// Handler returns an HTTP handler serving the assets embedded in the binary.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}
