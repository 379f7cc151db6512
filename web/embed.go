// Package web embeds the static browser UI and serves it at the root path.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:static
var staticFS embed.FS

// Handler returns an http.Handler serving the embedded UI. The app is a
// single page; unknown paths fall through to the file server's 404 since
// there is no client-side routing.
func Handler() http.Handler {
	subFS, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return http.FileServer(http.FS(subFS))
}
