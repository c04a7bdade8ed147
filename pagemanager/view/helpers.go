package view

import (
	"html/template"
	"strings"
)

const adminBarLayout = "admin-panel/admin_bar_layout.html"

// RouteSegment picks a segment out of a "/" separated uri.
//
//	nil      the lexicographically greatest segment
//	"first"  the first segment
//	"last"   the last segment
//	int      the segment at that index
//
// ok is false for an out of range index or an unsupported selector.
func RouteSegment(uri string, selector interface{}) (segment string, ok bool) {
	segments := strings.Split(uri, "/")
	switch selector := selector.(type) {
	case nil:
		max := segments[0]
		for _, s := range segments[1:] {
			if s > max {
				max = s
			}
		}
		return max, true
	case string:
		switch selector {
		case "first":
			return segments[0], true
		case "last":
			return segments[len(segments)-1], true
		}
		return "", false
	case int:
		if selector < 0 || selector >= len(segments) {
			return "", false
		}
		return segments[selector], true
	}
	return "", false
}

// CurrentRoute applies RouteSegment to the dispatcher's URI.
func (v *View) CurrentRoute(selector interface{}) (string, bool) {
	return RouteSegment(v.dispatcher.URI(), selector)
}

// AdminBar returns the admin bar iframe if the admin panel is installed.
func (v *View) AdminBar() template.HTML {
	if !v.render.Exists(adminBarLayout) {
		return ""
	}
	return template.HTML(`<iframe width="100%" height="32px" src="/` + adminBarLayout + `" class="admin-bar-frame">` +
		`<div class="admin-bar">` +
		`<p>Your browser does not support <code>&lt;iframe&gt;</code>.</p>` +
		`<p style="float: right;"><a href="/pm-admin" target="_blank">Admin panel</a></p>` +
		`</div></iframe>`)
}

func (v *View) Identity() Identity {
	if v.identity == nil {
		return Guest{}
	}
	return v.identity.Current()
}
