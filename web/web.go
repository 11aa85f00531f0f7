// Package web holds the server-rendered HTML templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templates embed.FS

// Templates returns the template tree rooted at templates/.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
