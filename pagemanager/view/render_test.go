package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func Test_Render(t *testing.T) {
	type TT struct {
		viewName string
		vars     Vars
		want     string
	}
	assert := func(t *testing.T, tt TT) {
		is := is.New(t)
		v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute, uri: "blog/hello"}, "default")
		got, err := v.Render(tt.viewName, tt.vars)
		is.NoErr(err)
		is.Equal(got, tt.want)
	}
	t.Run("vars", func(t *testing.T) {
		assert(t, TT{viewName: "x", vars: Vars{"x": 5}, want: "x=5"})
	})
	t.Run("range over vars", func(t *testing.T) {
		assert(t, TT{
			viewName: "posts",
			vars:     Vars{"posts": []string{"one", "<two>"}},
			want:     "<ul><li>one</li><li>&lt;two&gt;</li></ul>",
		})
	})
	t.Run("nested render only sees returned output", func(t *testing.T) {
		assert(t, TT{viewName: "outer", vars: Vars{"x": 1}, want: "outer[inner:2]1"})
	})
	t.Run("route and currentRoute", func(t *testing.T) {
		assert(t, TT{viewName: "route", want: "Blog/blog/hello"})
	})
}

func Test_RenderEmptyName(t *testing.T) {
	is := is.New(t)
	fsys := &countingFS{fsys: testFS()}
	v := newTestView(t, fsys, &stubDispatcher{route: blogRoute}, "default")
	got, err := v.Render("", Vars{"x": 1})
	is.NoErr(err)
	is.Equal(got, "")
	is.Equal(fsys.opens, 0) // empty view name must not touch the filesystem
}

func Test_RenderErrors(t *testing.T) {
	t.Run("undefined view", func(t *testing.T) {
		is := is.New(t)
		v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute}, "default")
		_, err := v.Render("missing_view", nil)
		var undefined *UndefinedViewError
		is.True(errors.As(err, &undefined))
		is.Equal(undefined.Path, "blog/views/missing_view.html")
		is.Equal(undefined.Method, "Blog::Index()")
	})
	t.Run("traversal", func(t *testing.T) {
		is := is.New(t)
		v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute}, "default")
		_, err := v.Render("../../etc/passwd", nil)
		var pathErr *PathValidationError
		is.True(errors.As(err, &pathErr))
	})
	t.Run("invalid variable name", func(t *testing.T) {
		is := is.New(t)
		v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute}, "default")
		_, err := v.Render("x", Vars{"not-valid": 1})
		var varErr *InvalidVariableError
		is.True(errors.As(err, &varErr))
		is.Equal(varErr.Name, "not-valid")
	})
	t.Run("failed render leaves no output behind", func(t *testing.T) {
		is := is.New(t)
		v := newTestView(t, testFS(), &stubDispatcher{route: blogRoute}, "default")
		for i := 0; i < 3; i++ {
			_, err := v.Render("broken", nil)
			is.True(err != nil)
			is.True(strings.Contains(err.Error(), "boom"))
		}
		got, err := v.Render("x", Vars{"x": 5})
		is.NoErr(err)
		is.Equal(got, "x=5")
	})
}
