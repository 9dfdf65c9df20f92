package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

const (
	pageForm   = "form.html"
	pageResult = "result.html"
	pageLookup = "lookup.html"
	pageFatal  = "fatal.html"
)

// ParseTemplates builds one template set per page, each on top of the
// shared base layout.
func ParseTemplates() (map[string]*template.Template, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{pageForm, pageResult, pageLookup, pageFatal} {
		t, err := template.ParseFS(templatesFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return pages, nil
}
