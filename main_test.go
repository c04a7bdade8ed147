package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/bokwoon95/pagemanager/pagemanager/renderly"
	"github.com/matryer/is"
	"go.uber.org/zap"
)

func Test_Site(t *testing.T) {
	is := is.New(t)
	pm, err := newPageManager(renderly.AbsDir("site"), filepath.Join(t.TempDir(), "pm.sqlite3"), false, zap.NewNop())
	is.NoErr(err)
	t.Cleanup(func() { _ = pm.Close() })

	get := func(t *testing.T, target string, status int) *goquery.Document {
		t.Helper()
		is := is.New(t)
		w := httptest.NewRecorder()
		pm.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
		is.Equal(w.Code, status)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		is.NoErr(err)
		return doc
	}

	t.Run("home", func(t *testing.T) {
		is := is.New(t)
		doc := get(t, "/", http.StatusOK)
		is.Equal(doc.Find("title").Text(), "Plain Simple")
		is.Equal(doc.Find(".site-title").Text(), "Plain Simple")
		is.Equal(doc.Find("nav ul.nav-links a").First().Text(), "Home")
		is.Equal(doc.Find("nav ul.nav-links a").Last().Text(), "Blog")
		is.Equal(doc.Find("hr").Length(), 1) // markdown footer
		is.Equal(doc.Find("em").Text(), "pagemanager")
		bootstrap, _ := doc.Find("link").First().Attr("href")
		is.Equal(bootstrap, "http://example.com/themes/css/bootstrap.min.css")
	})
	t.Run("blog", func(t *testing.T) {
		is := is.New(t)
		doc := get(t, "/blog", http.StatusOK)
		is.Equal(doc.Find("title").Text(), "Blog | Plain Simple")
		is.Equal(doc.Find("ul.posts li").Length(), 4)
	})
	t.Run("post", func(t *testing.T) {
		is := is.New(t)
		doc := get(t, "/blog/welcome-prashanth", http.StatusOK)
		is.Equal(doc.Find("article h1").Text(), "Welcome, Prashanth!")
		href, _ := doc.Find("article p.back a").Attr("href")
		is.Equal(href, "/blog")
	})
	t.Run("install", func(t *testing.T) {
		is := is.New(t)
		doc := get(t, "/install?product=Widget", http.StatusOK)
		is.Equal(doc.Find("title").Text(), "Install | Plain Simple")
		is.Equal(doc.Find("header.installer-header").Length(), 1)
		is.Equal(doc.Find("h1").Text(), "Install Widget")
		stylesheet, _ := doc.Find(`main link`).Attr("href")
		is.Equal(stylesheet, "//example.com/vcs/css/install.css")
	})
	t.Run("not found", func(t *testing.T) {
		is := is.New(t)
		doc := get(t, "/nope", http.StatusNotFound)
		is.Equal(doc.Find("h1").Text(), "Page not found")
	})
	t.Run("assets", func(t *testing.T) {
		get(t, "/themes/css/bootstrap.min.css", http.StatusOK)
		get(t, "/vcs/css/install.css", http.StatusOK)
		get(t, "/themes/plainsimple/css/plainsimple.css", http.StatusOK)
		get(t, "/themes/plainsimple/navbar.yaml", http.StatusNotFound)
	})
}
