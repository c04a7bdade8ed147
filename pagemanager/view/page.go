package view

import (
	"html/template"
	"io"
	"path"

	"github.com/bokwoon95/pagemanager/pagemanager/erro"
	"go.uber.org/zap"
)

// State tracks how far Generate got.
type State int

const (
	StateDispatching State = iota
	StateRendered
	StateLayoutWrapped
	StateLayoutSkipped
)

func (s State) String() string {
	switch s {
	case StateDispatching:
		return "dispatching"
	case StateRendered:
		return "rendered"
	case StateLayoutWrapped:
		return "layout-wrapped"
	case StateLayoutSkipped:
		return "layout-skipped"
	}
	return "unknown"
}

const (
	// NoLayout is the layout name that disables layout wrapping. It is
	// reached either with the theme "no" (no + _layout) or with the theme
	// "no_layout" itself.
	NoLayout     = "no_layout"
	layoutSuffix = "_layout"
	notFoundPage = "404"
)

// LayoutData is what layout and error page templates execute with.
type LayoutData struct {
	Content    template.HTML
	Title      string
	ShortTitle string
	Theme      string
	ViewPort   bool
	Route      Route
	View       *View
}

// Generate dispatches the request and writes the page to w. A dispatch
// failure does not fail Generate: the ErrorPager's output takes the place of
// the content and the layout is still applied. Errors from the layout itself
// are returned.
func (v *View) Generate(w io.Writer) error {
	v.state = StateDispatching
	content, err := v.dispatcher.Dispatch(v)
	if err != nil {
		err = &DispatchError{Route: v.route.Route, Err: err}
		v.logger.Warn("dispatch failed",
			zap.String("route", v.route.Route),
			zap.String("method", v.route.Method()),
			zap.Error(err),
		)
		content = v.errorPager.FromError(err)
	}
	v.state = StateRendered
	if err := validateIdentifier(v.Theme); err != nil {
		return err
	}
	layout := v.Theme + layoutSuffix
	if layout == NoLayout || v.Theme == NoLayout {
		_, err = io.WriteString(w, content)
		if err != nil {
			return erro.Wrap(err)
		}
		v.state = StateLayoutSkipped
		return nil
	}
	name := path.Join(themesDir, v.Theme, layout) + v.render.Ext()
	if !v.render.Exists(name) {
		return &UndefinedViewError{Path: name, Method: "View::Generate()"}
	}
	err = v.render.Execute(w, name, v.funcs(), v.layoutData(template.HTML(content)))
	if err != nil {
		return erro.Wrapf(err, "executing layout %s", name)
	}
	v.state = StateLayoutWrapped
	return nil
}

// GenerateErrorPage renders the active theme's 404 page.
func (v *View) GenerateErrorPage() (string, error) {
	if err := validateIdentifier(v.Theme); err != nil {
		return "", err
	}
	name := path.Join(themesDir, v.Theme, notFoundPage) + v.render.Ext()
	if !v.render.Exists(name) {
		return "", &UndefinedViewError{Path: name, Method: "View::GenerateErrorPage()"}
	}
	output, err := v.render.Capture(name, v.funcs(), v.layoutData(""))
	if err != nil {
		return "", erro.Wrapf(err, "executing error page %s", name)
	}
	return output, nil
}

func (v *View) layoutData(content template.HTML) LayoutData {
	return LayoutData{
		Content:    content,
		Title:      v.Title,
		ShortTitle: v.ShortTitle,
		Theme:      v.Theme,
		ViewPort:   v.ViewPort,
		Route:      v.route,
		View:       v,
	}
}
