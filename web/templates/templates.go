// Package templates embeds the HTML pages served by the copilot.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var FS embed.FS

// Parse loads every page together with the shared layout.
func Parse() (*template.Template, error) {
	return template.ParseFS(FS, "*.html")
}
