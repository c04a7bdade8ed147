package view

import (
	"path"
	"regexp"
	"strings"

	"github.com/bokwoon95/pagemanager/pagemanager/erro"
)

// Vars are the named values handed to a single Render call.
type Vars map[string]interface{}

// Context is the data a view template executes with. Variables are read as
// {{ .Vars.name }}.
type Context struct {
	Vars  Vars
	Route Route
	View  *View
}

var varNameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Render executes the view viewName from the route's ViewPath with vars and
// returns its output. An empty viewName renders nothing and does not touch the
// filesystem.
//
// Every call captures into its own buffer, so a view that renders other views
// only ever sees their returned output.
func (v *View) Render(viewName string, vars Vars) (string, error) {
	if viewName == "" {
		return "", nil
	}
	if err := validatePath(viewName); err != nil {
		return "", err
	}
	viewPath := strings.Trim(v.route.ViewPath, "/")
	if err := validatePath(viewPath); err != nil {
		return "", err
	}
	for name := range vars {
		if !varNameRegexp.MatchString(name) {
			return "", &InvalidVariableError{Name: name}
		}
	}
	name := path.Join(viewPath, viewName) + v.render.Ext()
	if !v.render.Exists(name) {
		return "", &UndefinedViewError{Path: name, Method: v.route.Method()}
	}
	if vars == nil {
		vars = Vars{}
	}
	output, err := v.render.Capture(name, v.funcs(), Context{
		Vars:  vars,
		Route: v.route,
		View:  v,
	})
	if err != nil {
		return "", erro.Wrapf(err, "rendering %s", name)
	}
	return output, nil
}
