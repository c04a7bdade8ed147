package view

import "fmt"

// UndefinedViewError is returned when a view or layout file does not exist.
// It always reaches the caller.
type UndefinedViewError struct {
	Path   string // path that was looked up, relative to the application root
	Method string // "Controller::Action()" that asked for the view
}

func (e *UndefinedViewError) Error() string {
	return fmt.Sprintf("view: %s is not defined (requested by %s)", e.Path, e.Method)
}

// InsertedFileNotFoundError is raised by Insert when the fragment file is
// missing. Insert renders it through the ErrorPager instead of returning it.
type InsertedFileNotFoundError struct {
	Path string
}

func (e *InsertedFileNotFoundError) Error() string {
	return fmt.Sprintf("view: inserted file %s not found", e.Path)
}

// PathValidationError reports a path fragment or identifier that would escape
// its root directory. Such fragments are rejected, never cleaned up.
type PathValidationError struct {
	Path   string
	Reason string
}

func (e *PathValidationError) Error() string {
	return fmt.Sprintf("view: invalid path %q: %s", e.Path, e.Reason)
}

// DispatchError wraps any failure returned by the Dispatcher.
type DispatchError struct {
	Route string
	Err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("view: dispatching %s: %v", e.Route, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// InvalidVariableError is returned by Render when a variable name is not a
// valid identifier.
type InvalidVariableError struct {
	Name string
}

func (e *InvalidVariableError) Error() string {
	return fmt.Sprintf("view: invalid variable name %q", e.Name)
}
