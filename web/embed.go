// Package web embeds the dashboard page template served by the API and
// written by the CLI.
//
// Usage:
//
//	import "github.com/seenimoa/minicharts/web"
//	tmpl, err := template.ParseFS(web.TemplateFS(), web.DashboardTemplate)
package web

import (
	"embed"
	"io/fs"
	"log"
)

// DashboardTemplate is the name of the dashboard page template.
const DashboardTemplate = "dashboard.html.tmpl"

//go:embed templates/*.tmpl
var templates embed.FS

// TemplateFS returns a filesystem rooted at the embedded templates/ directory.
func TemplateFS() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		log.Fatalf("web.TemplateFS: %v", err)
	}
	return sub
}
