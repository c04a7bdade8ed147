package view

import (
	"html"
	"strings"
)

// Route describes the route matched for the current request. The view layer
// only ever reads it.
type Route struct {
	Route      string // raw request path, e.g. "/blog/hello"
	Title      string // route specific title fragment, may be empty
	Controller string
	Action     string
	ViewPath   string // directory under the application root holding this route's views
}

// Method returns the "Controller::Action()" locator used in diagnostics.
func (r Route) Method() string {
	return r.Controller + "::" + r.Action + "()"
}

// Dispatcher runs the controller action matched for the current request.
type Dispatcher interface {
	Route() Route
	URI() string
	Dispatch(v *View) (content string, err error)
}

// ConfigStore looks up configuration values. A missing key is not an error:
// it returns an empty string.
type ConfigStore interface {
	Get(namespace, key string) (string, error)
}

// ErrorPager turns an error into user visible page content.
type ErrorPager interface {
	FromError(err error) string
}

type Identity interface {
	ID() string
	Name() string
	Anonymous() bool
}

type IdentityLookup interface {
	Current() Identity
}

// HTTPContext exposes the parts of the current request the view layer needs
// to build absolute asset URLs.
type HTTPContext interface {
	HostName() string
	RequestScheme() string
}

// Guest is the identity used when no IdentityLookup is configured.
type Guest struct{}

func (Guest) ID() string      { return "" }
func (Guest) Name() string    { return "guest" }
func (Guest) Anonymous() bool { return true }

type guestLookup struct{}

func (guestLookup) Current() Identity { return Guest{} }

type staticHTTPContext struct {
	host, scheme string
}

func (c staticHTTPContext) HostName() string      { return c.host }
func (c staticHTTPContext) RequestScheme() string { return c.scheme }

// plainErrorPager is the fallback used when no ErrorPager is configured.
type plainErrorPager struct{}

func (plainErrorPager) FromError(err error) string {
	var b strings.Builder
	b.WriteString(`<div class="error">`)
	b.WriteString(html.EscapeString(err.Error()))
	b.WriteString(`</div>`)
	return b.String()
}
