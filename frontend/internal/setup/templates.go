package setup

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/mousey-app/dashboard/frontend/internal/boundary"
	"github.com/mousey-app/dashboard/frontend/internal/handler"
	"github.com/mousey-app/dashboard/frontend/internal/lazy"
	"github.com/mousey-app/dashboard/shared/assets"
)

const (
	manifestKey      = "asset-manifest.json"
	tmplPath         = "templates/"
	baseTemplate     = "base.html"
	partialsTemplate = "partials.html"

	stylesheetEntry = "main.css"
	scriptEntry     = "archive.js"
)

var pageTemplates = []string{"archive.html", "status.html"}

// Manifest is the asset-manifest.json written by the dashboard build.
// Files maps logical names to hashed paths.
type Manifest struct {
	Files       map[string]string `json:"files"`
	Entrypoints []string          `json:"entrypoints"`
}

func (m Manifest) key(name string) (string, error) {
	p, ok := m.Files[name]
	if !ok || p == "" {
		return "", fmt.Errorf("%s missing from %s", name, manifestKey)
	}
	return assets.CleanKey(p), nil
}

func readManifest(ctx context.Context, store assets.Store) (Manifest, error) {
	var m Manifest
	a, err := store.Get(ctx, manifestKey)
	if err != nil {
		return m, boundary.NewLoadError(manifestKey, err)
	}
	if err := json.Unmarshal(a.Data, &m); err != nil {
		return m, boundary.NewLoadError(manifestKey, fmt.Errorf("decode: %w", err))
	}
	return m, nil
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

var funcs = template.FuncMap{
	"dict":      dict,
	"hasPrefix": strings.HasPrefix,
}

// LoadBundle returns the loader for the page module. Every resource comes
// from store; failures are LoadErrors naming the resource, so a missing
// script chunk is told apart from a missing template.
func LoadBundle(store assets.Store) lazy.Loader[*handler.Bundle] {
	return func(ctx context.Context) (*handler.Bundle, error) {
		manifest, err := readManifest(ctx, store)
		if err != nil {
			return nil, err
		}

		stylesheet, err := manifest.key(stylesheetEntry)
		if err != nil {
			return nil, boundary.NewLoadError(stylesheetEntry, err)
		}
		script, err := manifest.key(scriptEntry)
		if err != nil {
			return nil, boundary.NewLoadError(scriptEntry, err)
		}
		// The chunk is served by /static, but a page that references a missing one is broken.
		if _, err := store.Get(ctx, script); err != nil {
			return nil, boundary.NewLoadError(script, err)
		}

		shared := make(map[string]string, 2)
		for _, name := range []string{baseTemplate, partialsTemplate} {
			src, err := readTemplate(ctx, store, name)
			if err != nil {
				return nil, err
			}
			shared[name] = src
		}

		templates := make(map[string]*template.Template, len(pageTemplates))
		for _, name := range pageTemplates {
			src, err := readTemplate(ctx, store, name)
			if err != nil {
				return nil, err
			}
			tmpl, err := parsePage(name, src, shared)
			if err != nil {
				return nil, err
			}
			templates[name] = tmpl
		}

		return &handler.Bundle{
			Templates:  templates,
			Stylesheet: stylesheet,
			Script:     script,
		}, nil
	}
}

func readTemplate(ctx context.Context, store assets.Store, name string) (string, error) {
	a, err := store.Get(ctx, tmplPath+name)
	if err != nil {
		return "", boundary.NewLoadError(tmplPath+name, err)
	}
	return string(a.Data), nil
}

// parsePage builds one page the way ParseFiles would: base.html is the root
// template, the page and partials are associated with it.
func parsePage(name, src string, shared map[string]string) (*template.Template, error) {
	tmpl, err := template.New(baseTemplate).Funcs(funcs).Parse(shared[baseTemplate])
	if err != nil {
		return nil, boundary.NewLoadError(tmplPath+baseTemplate, fmt.Errorf("parse: %w", err))
	}
	for _, part := range []struct{ name, src string }{
		{name, src},
		{partialsTemplate, shared[partialsTemplate]},
	} {
		if _, err := tmpl.New(part.name).Parse(part.src); err != nil {
			return nil, boundary.NewLoadError(tmplPath+part.name, fmt.Errorf("parse: %w", err))
		}
	}
	return tmpl, nil
}
