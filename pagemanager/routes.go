package pagemanager

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/bokwoon95/pagemanager/pagemanager/view"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func printroutes(w io.Writer) func(string, string, http.Handler, ...func(http.Handler) http.Handler) error {
	return func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		fmt.Fprintln(w, method, route)
		return nil
	}
}

// Route registers a controller action. Handler returns the page content,
// which is then wrapped in the active theme's layout.
type Route struct {
	Pattern    string // chi pattern, e.g. "/blog/{slug}"
	Title      string
	Controller string
	Action     string
	ViewPath   string
	Handler    func(v *view.View, r *http.Request) (string, error)
}

func (pm *PageManager) Handle(route Route) {
	pm.Router.Get(route.Pattern, func(w http.ResponseWriter, r *http.Request) {
		v, err := pm.newView(route, r)
		if err != nil {
			pm.internalServerError(w, r, err)
			return
		}
		buf := &bytes.Buffer{}
		err = v.Generate(buf)
		if err != nil {
			pm.internalServerError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	})
}

// NotFound renders the active theme's 404 page.
func (pm *PageManager) NotFound(w http.ResponseWriter, r *http.Request) {
	v, err := pm.newView(Route{
		Title:      "Page not found",
		Controller: "PageManager",
		Action:     "NotFound",
	}, r)
	var page string
	if err == nil {
		page, err = v.GenerateErrorPage()
	}
	if err != nil {
		pm.requestLogger(r).Warn("rendering 404 page", zap.Error(err))
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, page)
}

func (pm *PageManager) newView(route Route, r *http.Request) (*view.View, error) {
	theme, err := pm.Config.Get("application", "theme")
	if err != nil {
		pm.requestLogger(r).Warn("reading application.theme", zap.Error(err))
	}
	if theme == "" {
		theme = pm.theme
	}
	d := &dispatcher{
		route: view.Route{
			Route:      r.URL.Path,
			Title:      route.Title,
			Controller: route.Controller,
			Action:     route.Action,
			ViewPath:   route.ViewPath,
		},
		handler: route.Handler,
		request: r,
	}
	return view.New(pm.Render, d, theme,
		view.WithConfig(pm.Config),
		view.WithErrorPager(pm.errorPages),
		view.WithHTTPContext(requestContext{r: r}),
		view.WithLogger(pm.requestLogger(r)),
		view.WithViewPort(true),
	)
}

// serveAsset serves static files under /themes/ and /vcs/. Templates and data
// files are treated as missing.
func (pm *PageManager) serveAsset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	switch strings.ToLower(path.Ext(name)) {
	case pm.Render.Ext(), ".html", ".tmpl", ".md", ".markdown", ".yaml", ".yml", ".toml":
		pm.NotFound(w, r)
		return
	}
	if !fs.ValidPath(name) {
		pm.NotFound(w, r)
		return
	}
	// BootstrapPath and PluginsPath link shared assets as /themes/<file>.
	candidates := []string{name}
	if rest := strings.TrimPrefix(name, "themes/"); rest != name {
		candidates = append(candidates, "themes/_bootstrap/"+rest, "themes/_plugins/"+rest)
	}
	var info fs.FileInfo
	var err error
	for _, candidate := range candidates {
		info, err = fs.Stat(pm.root, candidate)
		if err == nil && !info.IsDir() {
			name = candidate
			break
		}
	}
	if err != nil || info.IsDir() {
		pm.NotFound(w, r)
		return
	}
	b, err := fs.ReadFile(pm.root, name)
	if err != nil {
		pm.internalServerError(w, r, err)
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), bytes.NewReader(b))
}

// dispatcher runs one Route's handler for one request.
type dispatcher struct {
	route   view.Route
	handler func(v *view.View, r *http.Request) (string, error)
	request *http.Request
}

func (d *dispatcher) Route() view.Route { return d.route }

// URI is the request path without surrounding slashes, "index" for the site
// root.
func (d *dispatcher) URI() string {
	uri := strings.Trim(d.request.URL.Path, "/")
	if uri == "" {
		return "index"
	}
	return uri
}

func (d *dispatcher) Dispatch(v *view.View) (content string, err error) {
	if d.handler == nil {
		return "", fmt.Errorf("%s has no handler", d.route.Method())
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s panicked: %v", d.route.Method(), rec)
		}
	}()
	return d.handler(v, d.request)
}

// requestContext exposes an *http.Request to the view layer.
type requestContext struct {
	r *http.Request
}

func (c requestContext) HostName() string { return c.r.Host }

func (c requestContext) RequestScheme() string {
	if proto := c.r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if c.r.TLS != nil {
		return "https"
	}
	return "http"
}

// URLParam is chi.URLParam, re-exported so that plugins need not import chi.
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
