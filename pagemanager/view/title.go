package view

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultShortTitle is used when application.title is not configured.
const DefaultShortTitle = "Pagemanager"

const titleSeparator = " | "

// ComposeShortTitle reads application.title from the config store and caches
// the trimmed value (or DefaultShortTitle if it is blank) in v.ShortTitle.
func (v *View) ComposeShortTitle() string {
	var title string
	if v.config != nil {
		value, err := v.config.Get("application", "title")
		if err != nil {
			v.logger.Warn("reading application.title", zap.Error(err))
		}
		title = strings.TrimSpace(value)
	}
	if title == "" {
		title = DefaultShortTitle
	}
	v.ShortTitle = title
	return title
}

// ComposeTitle returns "<routeTitle> | <short title>", or just the short
// title when routeTitle is blank. The route title is used as given.
func (v *View) ComposeTitle(routeTitle string) string {
	short := v.ShortTitle
	if short == "" {
		short = v.ComposeShortTitle()
	}
	if strings.TrimSpace(routeTitle) == "" {
		return short
	}
	return routeTitle + titleSeparator + short
}
