package view

import (
	"errors"
	"io/fs"

	"github.com/bokwoon95/pagemanager/pagemanager/renderly"
	"go.uber.org/zap"
)

// DefaultTheme is used when New is given an empty theme.
const DefaultTheme = "default"

// View holds the state of one page render. It is created once per request
// and is not safe for concurrent use.
type View struct {
	Title      string
	ShortTitle string
	ViewPort   bool
	Theme      string

	route      Route
	dispatcher Dispatcher
	render     *renderly.Renderly
	config     ConfigStore
	errorPager ErrorPager
	identity   IdentityLookup
	http       HTTPContext
	logger     *zap.Logger
	state      State
}

type Option func(*View)

func WithConfig(config ConfigStore) Option {
	return func(v *View) { v.config = config }
}

func WithErrorPager(pager ErrorPager) Option {
	return func(v *View) { v.errorPager = pager }
}

func WithIdentity(lookup IdentityLookup) Option {
	return func(v *View) { v.identity = lookup }
}

func WithHTTPContext(ctx HTTPContext) Option {
	return func(v *View) { v.http = ctx }
}

func WithLogger(logger *zap.Logger) Option {
	return func(v *View) { v.logger = logger }
}

func WithViewPort(viewPort bool) Option {
	return func(v *View) { v.ViewPort = viewPort }
}

// New creates the view for the request handled by dispatcher. The page title
// is composed here and not recomputed afterwards.
func New(engine *renderly.Renderly, dispatcher Dispatcher, theme string, opts ...Option) (*View, error) {
	if engine == nil {
		return nil, errors.New("view: nil engine")
	}
	if dispatcher == nil {
		return nil, errors.New("view: nil dispatcher")
	}
	if theme == "" {
		theme = DefaultTheme
	}
	if err := validateIdentifier(theme); err != nil {
		return nil, err
	}
	v := &View{
		Theme:      theme,
		route:      dispatcher.Route(),
		dispatcher: dispatcher,
		render:     engine,
		errorPager: plainErrorPager{},
		identity:   guestLookup{},
		http:       staticHTTPContext{host: "localhost", scheme: "http"},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.ComposeShortTitle()
	v.Title = v.ComposeTitle(v.route.Title)
	return v, nil
}

// Engine creates a renderly engine whose templates may call the view funcs
// (basePath, render, insert, ...).
func Engine(fsys fs.FS, opts ...renderly.Option) (*renderly.Renderly, error) {
	opts = append([]renderly.Option{renderly.TemplateFuncs(FuncMap())}, opts...)
	return renderly.New(fsys, opts...)
}

func (v *View) Route() Route { return v.route }

func (v *View) State() State { return v.state }

func (v *View) fs() fs.FS { return v.render.FS() }
