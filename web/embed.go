package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static returns the embedded static files filesystem
func Static() fs.FS {
	static, _ := fs.Sub(content, "static")
	return static
}
