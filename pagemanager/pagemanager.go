package pagemanager

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/bokwoon95/pagemanager/pagemanager/erro"
	"github.com/bokwoon95/pagemanager/pagemanager/renderly"
	"github.com/bokwoon95/pagemanager/pagemanager/view"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/mattn/go-sqlite3"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type PageManager struct {
	DB         *sql.DB
	Router     *chi.Mux
	Render     *renderly.Renderly
	Config     *Config
	Logger     *zap.Logger
	htmlPolicy *bluemonday.Policy
	errorPages *ErrorPages
	driverName string
	root       fs.FS
	theme      string
	dev        bool
}

type Option func(*PageManager) error

// Root serves the site out of the directory dir.
func Root(dir string) Option {
	return func(pm *PageManager) error {
		info, err := os.Stat(dir)
		if err != nil {
			return erro.Wrap(err)
		}
		if !info.IsDir() {
			return fmt.Errorf("pagemanager: root %s is not a directory", dir)
		}
		pm.root = os.DirFS(dir)
		return nil
	}
}

// RootFS serves the site out of fsys.
func RootFS(fsys fs.FS) Option {
	return func(pm *PageManager) error {
		if fsys == nil {
			return errors.New("pagemanager: nil root fs.FS")
		}
		pm.root = fsys
		return nil
	}
}

// Theme is the theme used when application.theme is not configured.
func Theme(name string) Option {
	return func(pm *PageManager) error {
		pm.theme = name
		return nil
	}
}

// Dev turns off template caching and shows error details on error pages.
func Dev(dev bool) Option {
	return func(pm *PageManager) error {
		pm.dev = dev
		return nil
	}
}

func Logger(logger *zap.Logger) Option {
	return func(pm *PageManager) error {
		if logger == nil {
			return errors.New("pagemanager: nil logger")
		}
		pm.Logger = logger
		return nil
	}
}

func New(driverName, dataSourceName string, opts ...Option) (*PageManager, error) {
	var err error
	pm := &PageManager{
		Logger:     zap.NewNop(),
		driverName: driverName,
		theme:      view.DefaultTheme,
	}
	for _, opt := range opts {
		err = opt(pm)
		if err != nil {
			return pm, err
		}
	}
	if pm.root == nil {
		pm.root = os.DirFS(".")
	}
	// DB
	pm.DB, err = sql.Open(driverName, dataSourceName)
	if err != nil {
		return pm, erro.Wrap(err)
	}
	if driverName == "sqlite3" {
		_, err = pm.DB.Exec("PRAGMA journal_mode = WAL")
		if err != nil {
			return pm, erro.Wrap(err)
		}
		_, err = pm.DB.Exec("PRAGMA synchronous = normal")
		if err != nil {
			return pm, erro.Wrap(err)
		}
		_, err = pm.DB.Exec("PRAGMA foreign_keys = ON")
		if err != nil {
			return pm, erro.Wrap(err)
		}
	}
	err = pm.DB.Ping()
	if err != nil {
		return pm, fmt.Errorf("database ping failed: %w", err)
	}
	// Config
	pm.Config, err = NewConfig(pm.DB)
	if err != nil {
		return pm, err
	}
	// HTMLPolicy
	pm.htmlPolicy = bluemonday.UGCPolicy()
	pm.htmlPolicy.AllowStyling()
	// renderly
	pm.Render, err = view.Engine(pm.root,
		renderly.Cache(!pm.dev),
		renderly.HTMLPolicy(pm.htmlPolicy),
	)
	if err != nil {
		return pm, err
	}
	pm.errorPages = &ErrorPages{Dev: pm.dev}
	// Router
	pm.Router = chi.NewRouter()
	pm.Router.Use(middleware.RequestID)
	pm.Router.Use(RequestLogger(pm.Logger))
	pm.Router.Use(middleware.Recoverer)
	pm.Router.Use(SecurityHeaders)
	pm.Router.NotFound(pm.NotFound)
	pm.Router.Get("/pm-routes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = chi.Walk(pm.Router, printroutes(w))
	})
	pm.Router.Post("/pm-config", pm.ConfigPost)
	pm.Router.Get("/themes/*", pm.serveAsset)
	pm.Router.Get("/vcs/*", pm.serveAsset)
	return pm, nil
}

func (pm *PageManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pm.Router.ServeHTTP(w, r)
}

// Close releases the database and caches. For sqlite it runs PRAGMA optimize
// first.
func (pm *PageManager) Close() error {
	if pm.Config != nil {
		pm.Config.Close()
	}
	if pm.DB == nil {
		return nil
	}
	if pm.driverName == "sqlite3" {
		_, _ = pm.DB.Exec("PRAGMA optimize")
	}
	return pm.DB.Close()
}

type Plugin interface {
	AddRoutes() error
}

type PluginConstructor func(*PageManager) (Plugin, error)

func (pm *PageManager) AddPlugins(constructors ...PluginConstructor) error {
	var err error
	var plugin Plugin
	for _, constructor := range constructors {
		plugin, err = constructor(pm)
		if err != nil {
			return err
		}
		err = plugin.AddRoutes()
		if err != nil {
			return err
		}
	}
	return nil
}

type ConfigPostData struct {
	Entries []struct {
		Namespace string `json:"namespace"`
		Key       string `json:"key"`
		Value     string `json:"value"`
	} `json:"entries"`
	RedirectTo string `json:"redirect_to"`
}

// ConfigPost updates config entries from a JSON body and redirects to
// redirect_to, or answers 204 if there is none.
func (pm *PageManager) ConfigPost(w http.ResponseWriter, r *http.Request) {
	data := ConfigPostData{}
	err := decodeJSONBody(w, r, &data)
	if err != nil {
		var mr *malformedRequest
		switch {
		case errors.As(err, &mr):
			http.Error(w, mr.msg, mr.status)
		default:
			pm.internalServerError(w, r, err)
		}
		return
	}
	for _, entry := range data.Entries {
		err = pm.Config.Set(entry.Namespace, entry.Key, entry.Value)
		if errors.Is(err, ErrInvalidConfigKey) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			pm.internalServerError(w, r, err)
			return
		}
	}
	if data.RedirectTo == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, data.RedirectTo, http.StatusSeeOther)
}

func (pm *PageManager) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	pm.requestLogger(r).Error("internal server error", zap.Error(err))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = io.WriteString(w, pm.errorPages.FromError(err))
}

func (pm *PageManager) requestLogger(r *http.Request) *zap.Logger {
	return pm.Logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))
}

var whitespace = regexp.MustCompile(`\s+`)

func SecurityHeaders(next http.Handler) http.Handler {
	securityPolicies := []string{
		`script-src-elem
			'self'
			cdn.jsdelivr.net
			stackpath.bootstrapcdn.com
			unpkg.com
			code.jquery.com
		`,
		`style-src-elem
			'self'
			cdn.jsdelivr.net
			stackpath.bootstrapcdn.com
			unpkg.com
			fonts.googleapis.com
		`,
		`img-src
			'self'
			data:
			source.unsplash.com
			images.unsplash.com
		`,
		`font-src fonts.gstatic.com`,
		"default-src 'self'",
		"object-src 'self'",
		"media-src 'self'",
		"frame-ancestors 'self'",
		"connect-src 'self'",
	}
	contentSecurityPolicy := whitespace.ReplaceAllString(strings.Join(securityPolicies, "; "), " ")
	features := []string{
		`microphone=()`,
		`camera=()`,
		`magnetometer=()`,
		`gyroscope=()`,
	}
	permissionsPolicy := strings.Join(features, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", contentSecurityPolicy)
		w.Header().Set("Permissions-Policy", permissionsPolicy)
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "strict-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "sameorigin")
		next.ServeHTTP(w, r)
	})
}
