package render

import (
	"time"
)

// Context carries the project values a single render sees. It is built once
// per generation and read-only while templates execute.
type Context struct {
	// Name variants are computed once so templates and path tokens agree.
	Name       string
	PascalName string
	CamelName  string
	SnakeName  string
	KebabName  string

	Description string
	Author      string
	License     string
	Year        int
	Repository  string

	Archetype  string
	Frameworks []string
	Addons     []string

	// Values holds wizard answers and answers-file entries, keyed by
	// prompt name.
	Values map[string]any
}

// NewContext builds a context for the given project name with the name
// variants precomputed and the current year filled in.
func NewContext(name string) *Context {
	return &Context{
		Name:       name,
		PascalName: PascalCase(name),
		CamelName:  CamelCase(name),
		SnakeName:  SnakeCase(name),
		KebabName:  KebabCase(name),
		Year:       time.Now().Year(),
		Values:     make(map[string]any),
	}
}

// HasAddon reports whether the given addon was selected for this generation.
//
// Template usage: {{ if .HasAddon "convex" }}...{{ end }}
func (c *Context) HasAddon(id string) bool {
	for _, a := range c.Addons {
		if a == id {
			return true
		}
	}
	return false
}

// HasFramework reports whether the given framework was chosen.
func (c *Context) HasFramework(id string) bool {
	for _, f := range c.Frameworks {
		if f == id {
			return true
		}
	}
	return false
}

// Value returns a collected prompt value, or nil when none was collected.
//
// Template usage: {{ .Value "style" }}
func (c *Context) Value(key string) any {
	return c.Values[key]
}
