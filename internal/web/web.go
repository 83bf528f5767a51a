// Package web holds the HTML views rendered by the handlers.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded views. Each view is addressed by its file name.
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
