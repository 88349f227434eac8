// Package view holds the server-rendered pages.
package view

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page. Pages are looked up by file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"yesno": func(b bool) string {
			if b {
				return "✔"
			}
			return "✘"
		},
	}).ParseFS(files, "templates/*.html")
}
