package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

// Static returns the browser console rooted at its index.html.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
