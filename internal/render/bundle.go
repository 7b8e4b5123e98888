package render

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/bakery-sh/bakery/internal/catalog"
)

// TemplateExt marks files evaluated as templates; the extension is stripped
// from the output path.
const TemplateExt = ".tmpl"

// OverlayDirName is the sub-bundle directory rendered only through
// compose.Overlay, after an external base generator has run. The normal
// bundle walk skips it.
const OverlayDirName = "overlays"

// Project-name placeholder tokens substituted in output path segments.
var pathTokens = []struct {
	token   string
	variant func(*Context) string
}{
	{"__projectName__", func(c *Context) string { return c.Name }},
	{"__ProjectName__", func(c *Context) string { return c.PascalName }},
	{"__project_name__", func(c *Context) string { return c.SnakeName }},
	{"__project-name__", func(c *Context) string { return c.KebabName }},
}

// RenderBundle expands one bundle into a file set: *.tmpl files are rendered
// against ctx and the marker extension stripped, every other file is copied
// byte-for-byte. Descriptor files and the root overlays directory never
// appear in the output. Nothing is written to disk.
//
// A bundle whose source directory does not exist renders empty; the
// synthesized core bundle relies on this.
func (r *Renderer) RenderBundle(b catalog.Bundle, ctx *Context) (*FileSet, error) {
	out := NewFileSet()

	info, err := os.Stat(b.Dir)
	if err != nil || !info.IsDir() {
		return out, nil
	}

	funcs := r.includeFuncs(b.Dir)

	walkErr := filepath.WalkDir(b.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(b.Dir, p)
		if err != nil {
			return err
		}
		relSlash := filepath.ToSlash(rel)

		if d.IsDir() {
			if relSlash == OverlayDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == catalog.DescriptorFileName {
			return nil
		}
		if !included(b.Descriptor, relSlash) {
			return nil
		}

		var content []byte
		outRel := relSlash
		if strings.HasSuffix(d.Name(), TemplateExt) {
			content, err = r.renderFileWith(p, funcs, ctx)
			if err != nil {
				return fmt.Errorf("bundle %s: %w", b.Name(), err)
			}
			outRel = strings.TrimSuffix(relSlash, TemplateExt)
		} else {
			content, err = os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("bundle %s: reading %s: %w", b.Name(), relSlash, err)
			}
		}

		out.Set(ExpandPathTokens(outRel, ctx), content)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return out, nil
}

// includeFuncs binds the template 'include' function to a bundle root.
// Usage: {{ include "_partials/header.md.tmpl" . }} renders the partial with
// the given data. Partial directories should be listed in the descriptor's
// exclude globs so they do not also land in the output.
func (r *Renderer) includeFuncs(bundleDir string) template.FuncMap {
	var funcs template.FuncMap
	funcs = template.FuncMap{
		"include": func(rel string, data any) (string, error) {
			out, err := r.renderFileWith(filepath.Join(bundleDir, filepath.FromSlash(rel)), funcs, data)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
	return funcs
}

// ExpandPathTokens substitutes project-name placeholder tokens in a relative
// output path with the context's name variants.
func ExpandPathTokens(rel string, ctx *Context) string {
	for _, pt := range pathTokens {
		rel = strings.ReplaceAll(rel, pt.token, pt.variant(ctx))
	}
	return rel
}

// included applies the descriptor's files/exclude globs to a relative path.
// Exclude wins over include; an empty files list includes everything.
func included(d *catalog.Descriptor, rel string) bool {
	if matchAny(d.Exclude, rel) {
		return false
	}
	if len(d.Files) == 0 {
		return true
	}
	return matchAny(d.Files, rel)
}

// matchAny matches a slash-separated relative path against glob patterns.
// Patterns match the full path or the base name; a trailing "/**" matches
// the whole subtree.
func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/**") {
			if strings.HasPrefix(rel, strings.TrimSuffix(pattern, "**")) {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
