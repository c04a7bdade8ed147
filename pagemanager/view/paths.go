package view

import (
	"path"
	"regexp"
	"strings"
)

const (
	themesDir    = "themes"
	vcsDir       = "vcs"
	bootstrapDir = "_bootstrap"
	pluginsDir   = "_plugins"
	includesDir  = "_includes"
)

// reservedRoutes are served from the vcs (installer) directory instead of the
// active theme.
var reservedRoutes = map[string]bool{
	"install": true,
	"update":  true,
}

var identifierRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// BasePath returns a protocol relative URL for a theme asset, e.g.
// "//example.com/themes/default/css/site.css". On the install and update
// routes assets are served from /vcs/ instead. An empty relativePath yields
// just "//host". Absolute paths are rejected rather than made relative.
func (v *View) BasePath(relativePath string) (string, error) {
	if err := validatePath(relativePath); err != nil {
		return "", err
	}
	url := "//" + v.http.HostName()
	if relativePath == "" {
		return url, nil
	}
	if v.installer() {
		return url + "/" + vcsDir + "/" + relativePath, nil
	}
	return url + "/" + themesDir + "/" + v.Theme + "/" + relativePath, nil
}

// BootstrapPath returns the URL of file if it exists under themes/_bootstrap,
// otherwise it falls back to BasePath(""). A missing file is not an error.
func (v *View) BootstrapPath(file string) (string, error) {
	return v.sharedAssetPath(bootstrapDir, file)
}

// PluginsPath is BootstrapPath for themes/_plugins.
func (v *View) PluginsPath(file string) (string, error) {
	return v.sharedAssetPath(pluginsDir, file)
}

// sharedAssetPath checks for the file and builds the URL in two steps; the
// file may disappear in between, which is accepted for local theme dirs.
func (v *View) sharedAssetPath(dir, file string) (string, error) {
	if err := validatePath(file); err != nil {
		return "", err
	}
	if file == "" || !v.render.Exists(path.Join(themesDir, dir, file)) {
		return v.BasePath("")
	}
	return v.http.RequestScheme() + "://" + v.http.HostName() + "/" + themesDir + "/" + file, nil
}

// installer reports whether the current route is one of the reserved
// install/update routes.
func (v *View) installer() bool {
	return reservedRoutes[normalizeRoute(v.route.Route)]
}

// normalizeRoute strips surrounding slashes and a trailing ".php" left over
// from legacy URLs.
func normalizeRoute(route string) string {
	route = strings.Trim(route, "/")
	route = strings.TrimSuffix(route, ".php")
	return strings.Trim(route, "/")
}

// validatePath rejects path fragments that could escape the directory they
// are joined onto. The empty string is valid.
func validatePath(p string) error {
	if p == "" {
		return nil
	}
	if strings.ContainsAny(p, "\\\x00") {
		return &PathValidationError{Path: p, Reason: "contains a backslash or NUL byte"}
	}
	if strings.HasPrefix(p, "/") {
		return &PathValidationError{Path: p, Reason: "must be relative"}
	}
	for _, elem := range strings.Split(p, "/") {
		if elem == ".." {
			return &PathValidationError{Path: p, Reason: "contains a parent directory reference"}
		}
	}
	return nil
}

// validateIdentifier checks a single path element such as a theme name.
func validateIdentifier(name string) error {
	if !identifierRegexp.MatchString(name) {
		return &PathValidationError{Path: name, Reason: "must only contain letters, digits, '-' and '_'"}
	}
	return nil
}
