package pagemanager

import (
	"html"
	"strings"

	"github.com/bokwoon95/pagemanager/pagemanager/erro"
)

// ErrorPages turns errors into page content. Outside of Dev the error itself
// is never shown.
type ErrorPages struct {
	Dev bool
}

func (p *ErrorPages) FromError(err error) string {
	var b strings.Builder
	b.WriteString(`<div class="error">`)
	if !p.Dev {
		b.WriteString(`<p>Something went wrong. Please try again later.</p></div>`)
		return b.String()
	}
	b.WriteString(`<ol class="error-frames">`)
	for _, line := range erro.Lines(err) {
		b.WriteString("<li><pre>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</pre></li>")
	}
	b.WriteString(`</ol></div>`)
	return b.String()
}
