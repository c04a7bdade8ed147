package view

import (
	"errors"
	"html/template"
	"io/fs"
	"net/url"
	"strings"

	"github.com/bokwoon95/pagemanager/pagemanager/erro"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"gopkg.in/yaml.v3"
)

type NavLink struct {
	Label string
	URL   string
}

// NavBarSettings describes a navigation bar. In YAML:
//
//	logotype: true
//	nav-class: menu
//	links:
//	  Home: /
//	  Blog: /blog
//
// Links keep the order they are written in.
type NavBarSettings struct {
	Logotype bool
	Links    []NavLink
	NavClass string
}

func (s NavBarSettings) empty() bool {
	return !s.Logotype && len(s.Links) == 0 && s.NavClass == ""
}

func (s *NavBarSettings) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Logotype bool      `yaml:"logotype"`
		Links    yaml.Node `yaml:"links"`
		NavClass string    `yaml:"nav-class"`
	}
	err := value.Decode(&raw)
	if err != nil {
		return err
	}
	s.Logotype = raw.Logotype
	s.NavClass = raw.NavClass
	s.Links = nil
	switch raw.Links.Kind {
	case 0:
	case yaml.MappingNode:
		for i := 0; i+1 < len(raw.Links.Content); i += 2 {
			s.Links = append(s.Links, NavLink{
				Label: raw.Links.Content[i].Value,
				URL:   raw.Links.Content[i+1].Value,
			})
		}
	default:
		if raw.Links.Tag == "!!null" {
			break
		}
		return errors.New("navbar: links must be a mapping of label to url")
	}
	return nil
}

// LoadNavBar reads NavBarSettings from a YAML file.
func LoadNavBar(fsys fs.FS, name string) (NavBarSettings, error) {
	var settings NavBarSettings
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return settings, erro.Wrap(err)
	}
	err = yaml.Unmarshal(b, &settings)
	if err != nil {
		return settings, erro.Wrapf(err, "parsing %s", name)
	}
	return settings, nil
}

// RenderNavBar renders settings as a <nav> element. Empty settings render
// nothing.
func RenderNavBar(settings NavBarSettings) template.HTML {
	if settings.empty() {
		return ""
	}
	nav := element(atom.Nav)
	if settings.Logotype {
		logotype := element(atom.Div, html.Attribute{Key: "class", Val: "logotype"})
		logotype.AppendChild(element(atom.A, html.Attribute{Key: "href", Val: "/"}))
		nav.AppendChild(logotype)
	}
	ul := element(atom.Ul, html.Attribute{Key: "class", Val: settings.NavClass})
	for _, link := range settings.Links {
		a := element(atom.A, html.Attribute{Key: "href", Val: linkURL(link.URL)})
		a.AppendChild(&html.Node{Type: html.TextNode, Data: link.Label})
		li := element(atom.Li)
		li.AppendChild(a)
		ul.AppendChild(li)
	}
	nav.AppendChild(ul)
	var b strings.Builder
	if err := html.Render(&b, nav); err != nil {
		return ""
	}
	return template.HTML(b.String())
}

// linkSchemes are the URL schemes a navbar link may use. Relative links have
// no scheme.
var linkSchemes = map[string]bool{
	"":       true,
	"http":   true,
	"https":  true,
	"mailto": true,
}

// linkURL returns rawURL if it parses and uses an allowed scheme, otherwise
// "#".
func linkURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !linkSchemes[u.Scheme] {
		return "#"
	}
	return rawURL
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
