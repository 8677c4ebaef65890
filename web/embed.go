package web

import (
	"embed"
	"io/fs"
)

// StaticFS embeds the dashboard shell (html/css/js).
//
//go:embed static
var StaticFS embed.FS

// Static returns the asset tree rooted at the files themselves, ready for
// http.FileServer.
func Static() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
