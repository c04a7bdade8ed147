package view

import (
	"io"
	"path"
	"strings"

	"go.uber.org/zap"
)

// Insert writes the fragment <root>/_includes/<filePath><fileExtension>
// straight into w, where root is the active theme's directory or the vcs
// directory on install/update routes. Unlike Render nothing is returned:
// failures are logged and replaced by the ErrorPager's output.
//
// Markdown fragments (.md) are converted and sanitized, template fragments
// execute with the view funcs, anything else is copied as-is.
func (v *View) Insert(w io.Writer, filePath, fileExtension string) {
	err := v.insert(w, filePath, fileExtension)
	if err == nil {
		return
	}
	v.logger.Warn("inserting fragment",
		zap.String("file", filePath+fileExtension),
		zap.String("route", v.route.Route),
		zap.Error(err),
	)
	_, _ = io.WriteString(w, v.errorPager.FromError(err))
}

func (v *View) insert(w io.Writer, filePath, fileExtension string) error {
	if err := validatePath(filePath); err != nil {
		return err
	}
	if strings.Contains(fileExtension, "/") {
		return &PathValidationError{Path: fileExtension, Reason: "extension must not contain a separator"}
	}
	if err := validatePath(fileExtension); err != nil {
		return err
	}
	root := path.Join(themesDir, v.Theme, includesDir)
	if v.installer() {
		root = path.Join(vcsDir, includesDir)
	}
	name := root + "/" + filePath + fileExtension
	if !v.render.Exists(name) {
		return &InsertedFileNotFoundError{Path: name}
	}
	switch strings.ToLower(fileExtension) {
	case ".md", ".markdown":
		return v.render.Markdown(w, name)
	case v.render.Ext(), ".html", ".tmpl":
		return v.render.Execute(w, name, v.funcs(), Context{
			Vars:  Vars{},
			Route: v.route,
			View:  v,
		})
	default:
		return v.render.Copy(w, name)
	}
}
