package doc

import (
	"embed"
	"path"
)

//go:embed templates/*.json
var templatesFS embed.FS

// Template is a bundled, complete configuration document. Templates load
// through the same Import path as user-supplied files.
type Template struct {
	Name string
	Raw  []byte
}

// templateOrder fixes the listing order; embed.FS directory reads are
// sorted lexically which is not the order we want to present.
var templateOrder = []string{
	"conflict-everon",
	"combat-ops-arland",
}

// Templates returns the bundled configuration templates.
func Templates() []Template {
	out := make([]Template, 0, len(templateOrder))
	for _, name := range templateOrder {
		raw, err := templatesFS.ReadFile(path.Join("templates", name+".json"))
		if err != nil {
			panic(err)
		}
		out = append(out, Template{Name: name, Raw: raw})
	}
	return out
}

// TemplateByName returns the named bundled template, or nil when unknown.
func TemplateByName(name string) *Template {
	for _, t := range Templates() {
		if t.Name == name {
			return &t
		}
	}
	return nil
}
