package blog

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bokwoon95/pagemanager/pagemanager"
	"github.com/matryer/is"
)

func siteFS() fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"themes/default/default_layout.html": file(`<html><head><title>{{ .Title }}</title></head><body>{{ .Content }}</body></html>`),
		"themes/default/404.html":            file(`not found`),
		"blog/views/index.html": file(`<ul class="posts">{{ range .Vars.posts }}` +
			`<li><a href="/{{ $.Vars.namespace }}/{{ .Slug }}">{{ .Title }}</a></li>{{ end }}</ul>`),
		"blog/views/post.html": file(`<article><h1>{{ .Vars.post.Title }}</h1>` +
			`<time>{{ .Vars.post.Date.Format "2006-01-02" }}</time><p>{{ .Vars.post.Body }}</p></article>`),
	}
}

func newTestBlog(t *testing.T, posts ...Post) *pagemanager.PageManager {
	t.Helper()
	is := is.New(t)
	pm, err := pagemanager.New("sqlite3", filepath.Join(t.TempDir(), "pm.sqlite3"), pagemanager.RootFS(siteFS()))
	is.NoErr(err)
	t.Cleanup(func() { _ = pm.Close() })
	err = pm.AddPlugins(New("/journal/", posts...))
	is.NoErr(err)
	return pm
}

func get(pm *pagemanager.PageManager, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	pm.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

var testPosts = []Post{
	{Title: "Older post", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Body: "old"},
	{Title: "Newer post", Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Body: "new"},
	{Slug: "custom", Title: "Custom slug", Date: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Body: "<b>bold</b>"},
}

func Test_Index(t *testing.T) {
	is := is.New(t)
	pm := newTestBlog(t, testPosts...)
	w := get(pm, "/journal")
	is.Equal(w.Code, http.StatusOK)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	is.NoErr(err)
	is.Equal(doc.Find("title").Text(), "Blog | Pagemanager")
	var hrefs []string
	doc.Find("ul.posts a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	is.Equal(hrefs, []string{"/journal/newer-post", "/journal/older-post", "/journal/custom"})
}

func Test_Post(t *testing.T) {
	is := is.New(t)
	pm := newTestBlog(t, testPosts...)
	w := get(pm, "/journal/custom")
	is.Equal(w.Code, http.StatusOK)
	body := w.Body.String()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	is.NoErr(err)
	is.Equal(doc.Find("title").Text(), "Custom slug | Pagemanager")
	is.Equal(doc.Find("article h1").Text(), "Custom slug")
	is.Equal(doc.Find("article time").Text(), "2019-01-01")
	is.True(strings.Contains(body, "&lt;b&gt;bold&lt;/b&gt;"))
}

func Test_PostNotFound(t *testing.T) {
	is := is.New(t)
	pm := newTestBlog(t, testPosts...)
	w := get(pm, "/journal/nope")
	is.Equal(w.Code, http.StatusOK)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	is.NoErr(err)
	is.Equal(doc.Find("body > div.error").Length(), 1)
}

func Test_SamplePosts(t *testing.T) {
	is := is.New(t)
	pm := newTestBlog(t)
	w := get(pm, "/journal/welcome-prashanth")
	is.Equal(w.Code, http.StatusOK)
	is.True(strings.Contains(w.Body.String(), "Welcome, Prashanth!"))
}

func Test_New(t *testing.T) {
	is := is.New(t)
	_, err := New("/")(nil)
	is.True(err != nil)
	_, err = New("blog", Post{Title: "Same"}, Post{Title: "same"})(nil)
	is.True(err != nil)
}

func Test_slugify(t *testing.T) {
	is := is.New(t)
	is.Equal(slugify("HASH: a free, online platform"), "hash-a-free-online-platform")
	is.Equal(slugify("So, how’s that retirement thing going, anyway?"), "so-how-s-that-retirement-thing-going-anyway")
	is.Equal(slugify("  --  "), "")
}
