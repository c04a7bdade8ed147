package blog

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/bokwoon95/pagemanager/pagemanager"
	"github.com/bokwoon95/pagemanager/pagemanager/view"
)

const viewPath = "blog/views"

var ErrPostNotFound = errors.New("blog: post not found")

type Post struct {
	Slug    string
	Title   string
	Date    time.Time
	Summary string
	Body    string
}

type Blog struct {
	*pagemanager.PageManager
	namespace string // URL prefix
	posts     []Post
}

// New returns a plugin serving posts under /<namespace>. Without posts it
// serves the sample posts.
func New(namespace string, posts ...Post) pagemanager.PluginConstructor {
	return func(manager *pagemanager.PageManager) (pagemanager.Plugin, error) {
		blg := &Blog{
			PageManager: manager,
			namespace:   strings.Trim(namespace, "/"),
		}
		if blg.namespace == "" {
			return blg, errors.New("blog: empty namespace")
		}
		if len(posts) == 0 {
			posts = samplePosts
		}
		blg.posts = make([]Post, len(posts))
		copy(blg.posts, posts)
		seen := make(map[string]bool)
		for i := range blg.posts {
			if blg.posts[i].Slug == "" {
				blg.posts[i].Slug = slugify(blg.posts[i].Title)
			}
			if seen[blg.posts[i].Slug] {
				return blg, fmt.Errorf("blog: duplicate slug %q", blg.posts[i].Slug)
			}
			seen[blg.posts[i].Slug] = true
		}
		sort.SliceStable(blg.posts, func(i, j int) bool {
			return blg.posts[i].Date.After(blg.posts[j].Date)
		})
		return blg, nil
	}
}

func (blg *Blog) AddRoutes() error {
	blg.Handle(pagemanager.Route{
		Pattern:    "/" + blg.namespace,
		Title:      "Blog",
		Controller: "Blog",
		Action:     "Index",
		ViewPath:   viewPath,
		Handler:    blg.index,
	})
	blg.Handle(pagemanager.Route{
		Pattern:    "/" + blg.namespace + "/{slug}",
		Controller: "Blog",
		Action:     "Post",
		ViewPath:   viewPath,
		Handler:    blg.post,
	})
	return nil
}

func (blg *Blog) index(v *view.View, r *http.Request) (string, error) {
	return v.Render("index", view.Vars{
		"namespace": blg.namespace,
		"posts":     blg.posts,
	})
}

func (blg *Blog) post(v *view.View, r *http.Request) (string, error) {
	slug := pagemanager.URLParam(r, "slug")
	for _, post := range blg.posts {
		if post.Slug != slug {
			continue
		}
		v.Title = v.ComposeTitle(post.Title)
		return v.Render("post", view.Vars{
			"namespace": blg.namespace,
			"post":      post,
		})
	}
	return "", fmt.Errorf("%w: %s", ErrPostNotFound, slug)
}

func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

const lipsum = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Quisque auctor aliquam elit a iaculis. Lorem ipsum dolor sit amet, consectetur adipiscing elit. Maecenas enim diam, scelerisque sed magna vitae, iaculis ornare eros. Suspendisse placerat mollis dolor. Donec non convallis justo. Cras et enim neque. Fusce mattis lacinia turpis vitae sollicitudin. Praesent a leo quis dui aliquam blandit sit amet ut felis."

var singapore = time.FixedZone("SGT", 8*60*60)

var samplePosts = []Post{
	{
		Title:   "HASH: a free, online platform for modeling the world",
		Date:    time.Date(2020, 6, 18, 0, 0, 0, 0, singapore),
		Summary: "Sometimes simulating complex systems is the best way to understand them.",
		Body:    lipsum,
	},
	{
		Title:   "So, how’s that retirement thing going, anyway?",
		Date:    time.Date(2019, 12, 5, 0, 0, 0, 0, singapore),
		Summary: "For the last couple of months, Prashanth Chandrasekar has been getting settled in as the new CEO of Stack Overflow. I’m still going on some customer calls…",
		Body:    lipsum,
	},
	{
		Title:   "Welcome, Prashanth!",
		Date:    time.Date(2019, 9, 24, 0, 0, 0, 0, singapore),
		Summary: "Last March, I shared that we were starting to look for a new CEO for Stack Overflow. We were looking for that rare combination of someone who…",
		Body:    lipsum,
	},
	{
		Title:   "The next CEO of Stack Overflow",
		Date:    time.Date(2019, 3, 28, 0, 0, 0, 0, singapore),
		Summary: "We’re looking for a new CEO for Stack Overflow. I’m stepping out of the day-to-day and up to the role of Chairman of the Board.",
		Body:    lipsum,
	},
}
