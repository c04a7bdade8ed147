package view

import (
	"errors"
	"html/template"
	"path"
	"strings"
)

var errNoView = errors.New("view: template func called outside of a view")

// FuncMap returns placeholders for the funcs bound to a View at execution
// time. Templates must be parsed with these so that the names resolve.
func FuncMap() map[string]interface{} {
	return map[string]interface{}{
		"basePath":      func(...string) (string, error) { return "", errNoView },
		"bootstrapPath": func(string) (string, error) { return "", errNoView },
		"pluginsPath":   func(string) (string, error) { return "", errNoView },
		"render":        func(string, ...map[string]interface{}) (template.HTML, error) { return "", errNoView },
		"insert":        func(string, string) (template.HTML, error) { return "", errNoView },
		"navBar":        func(string) (template.HTML, error) { return "", errNoView },
		"currentRoute":  func(...interface{}) (interface{}, error) { return nil, errNoView },
		"adminBar":      func() (template.HTML, error) { return "", errNoView },
		"identity":      func() (Identity, error) { return nil, errNoView },
	}
}

func (v *View) funcs() template.FuncMap {
	return template.FuncMap{
		"basePath": func(relativePath ...string) (string, error) {
			return v.BasePath(strings.Join(relativePath, "/"))
		},
		"bootstrapPath": v.BootstrapPath,
		"pluginsPath":   v.PluginsPath,
		"render": func(viewName string, vars ...map[string]interface{}) (template.HTML, error) {
			merged := Vars{}
			for _, m := range vars {
				for k, val := range m {
					merged[k] = val
				}
			}
			output, err := v.Render(viewName, merged)
			return template.HTML(output), err
		},
		"insert": func(filePath, fileExtension string) (template.HTML, error) {
			var b strings.Builder
			v.Insert(&b, filePath, fileExtension)
			return template.HTML(b.String()), nil
		},
		"navBar": func(name string) (template.HTML, error) {
			if err := validatePath(name); err != nil {
				return "", err
			}
			settings, err := LoadNavBar(v.fs(), path.Join(themesDir, v.Theme, name))
			if err != nil {
				return "", err
			}
			return RenderNavBar(settings), nil
		},
		"currentRoute": func(selector ...interface{}) (interface{}, error) {
			var sel interface{}
			if len(selector) > 0 {
				sel = selector[0]
			}
			segment, ok := v.CurrentRoute(sel)
			if !ok {
				return false, nil
			}
			return segment, nil
		},
		"adminBar": func() (template.HTML, error) { return v.AdminBar(), nil },
		"identity": func() (Identity, error) { return v.Identity(), nil },
	}
}
