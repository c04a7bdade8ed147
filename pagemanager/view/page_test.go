package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func Test_Generate(t *testing.T) {
	is := is.New(t)
	d := &stubDispatcher{route: blogRoute, fn: func(v *View) (string, error) {
		return v.Render("x", Vars{"x": "<p>hi</p>"})
	}}
	v := newTestView(t, testFS(), d, "default", WithConfig(mapConfig{"application.title": "My Site"}))
	var b strings.Builder
	err := v.Generate(&b)
	is.NoErr(err)
	is.Equal(b.String(), `<html><head><title>Blog | My Site</title>`+
		`<link rel="stylesheet" href="//example.com/themes/default/css/site.css"></head>`+
		`<body>x=&lt;p&gt;hi&lt;/p&gt;</body></html>`)
	is.Equal(v.State(), StateLayoutWrapped)
}

func Test_GenerateDispatchError(t *testing.T) {
	is := is.New(t)
	errBoom := errors.New("controller exploded")
	pager := &recordingPager{}
	d := &stubDispatcher{route: blogRoute, fn: func(v *View) (string, error) {
		return "partial content", errBoom
	}}
	v := newTestView(t, testFS(), d, "default", WithErrorPager(pager))
	var b strings.Builder
	err := v.Generate(&b)
	is.NoErr(err) // dispatch failures are rendered, not returned
	is.True(strings.Contains(b.String(), `<body><p class="error-page">something broke</p></body>`))
	is.True(!strings.Contains(b.String(), "partial content"))
	is.Equal(len(pager.errs), 1)
	is.True(errors.Is(pager.errs[0], errBoom))
	var dispatchErr *DispatchError
	is.True(errors.As(pager.errs[0], &dispatchErr))
	is.Equal(dispatchErr.Route, "/blog")
	is.Equal(v.State(), StateLayoutWrapped)
}

func Test_GenerateNoLayout(t *testing.T) {
	for _, theme := range []string{"no", NoLayout} {
		theme := theme
		t.Run(theme, func(t *testing.T) {
			is := is.New(t)
			d := &stubDispatcher{route: blogRoute, fn: func(v *View) (string, error) {
				return "<p>raw</p>", nil
			}}
			v := newTestView(t, testFS(), d, theme)
			var b strings.Builder
			err := v.Generate(&b)
			is.NoErr(err)
			is.Equal(b.String(), "<p>raw</p>")
			is.Equal(v.State(), StateLayoutSkipped)
		})
	}
}

func Test_GenerateNoLayoutDispatchError(t *testing.T) {
	for _, theme := range []string{"no", NoLayout} {
		theme := theme
		t.Run(theme, func(t *testing.T) {
			is := is.New(t)
			errBoom := errors.New("controller exploded")
			pager := &recordingPager{}
			d := &stubDispatcher{route: blogRoute, fn: func(v *View) (string, error) {
				return "<p>raw</p>", errBoom
			}}
			v := newTestView(t, testFS(), d, theme, WithErrorPager(pager))
			var b strings.Builder
			err := v.Generate(&b)
			is.NoErr(err)
			is.Equal(b.String(), `<p class="error-page">something broke</p>`)
			is.Equal(len(pager.errs), 1)
			is.True(errors.Is(pager.errs[0], errBoom))
			is.Equal(v.State(), StateLayoutSkipped)
		})
	}
}

func Test_GenerateMissingLayout(t *testing.T) {
	is := is.New(t)
	v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute}, "bare")
	var b strings.Builder
	err := v.Generate(&b)
	var undefined *UndefinedViewError
	is.True(errors.As(err, &undefined))
	is.Equal(undefined.Path, "themes/bare/bare_layout.html")
	is.Equal(undefined.Method, "View::Generate()")
	is.Equal(b.String(), "")
	is.Equal(v.State(), StateRendered)
}

func Test_GenerateErrorPage(t *testing.T) {
	t.Run("theme 404", func(t *testing.T) {
		is := is.New(t)
		v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute}, "default",
			WithConfig(mapConfig{"application.title": "My Site"}))
		got, err := v.GenerateErrorPage()
		is.NoErr(err)
		is.Equal(got, "<h1>Not found</h1><p>My Site</p>")
	})
	t.Run("theme without 404", func(t *testing.T) {
		is := is.New(t)
		v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute}, "plain")
		_, err := v.GenerateErrorPage()
		var undefined *UndefinedViewError
		is.True(errors.As(err, &undefined))
		is.Equal(undefined.Path, "themes/plain/404.html")
	})
}

func Test_StateString(t *testing.T) {
	is := is.New(t)
	is.Equal(StateDispatching.String(), "dispatching")
	is.Equal(StateLayoutSkipped.String(), "layout-skipped")
	is.Equal(State(42).String(), "unknown")
}
