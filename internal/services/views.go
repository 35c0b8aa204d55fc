package services

import (
	"fmt"
	"html/template"
	"io"

	"github.com/localnerve/itemsetgroup/data"
)

// Views renders the embedded templates
type Views struct {
	tmpl *template.Template
}

// LoadViews parses the embedded templates
func LoadViews() (*Views, error) {
	tmpl, err := template.New("views").Funcs(template.FuncMap{
		"thumbFrame": ThumbFrame,
	}).ParseFS(data.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Views{tmpl: tmpl}, nil
}

// Render executes the named template into w
func (v *Views) Render(w io.Writer, name string, model any) error {
	if v.tmpl.Lookup(name) == nil {
		return fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	return v.tmpl.ExecuteTemplate(w, name, model)
}
