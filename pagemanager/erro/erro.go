package erro

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
)

const null = string(rune(0))

// Wrap will wrap an error and return a new error that is annotated with the
// function/file/linenumber of where Wrap() was called
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("->"+null+" Error in %s %w", caller(2), err)
}

// Wrapf is like Wrap but also prefixes the annotation with a formatted
// message describing what was being attempted.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, a...)
	return fmt.Errorf("->"+null+" Error in %s %s: %w", caller(2), msg, err)
}

// Dump will dump the formatted error string (with each error in its own line)
// into w io.Writer
func Dump(w io.Writer, err error) {
	fmt.Fprintln(w, format(err, 2))
}

// Sdump will return the formatted error string (with each error in its own
// line)
func Sdump(err error) string {
	return format(err, 3)
}

// Lines splits the error chain into one entry per wrapped frame, outermost
// first. Used by error pages that want to lay out frames as a list.
func Lines(err error) []string {
	if err == nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(err.Error(), "->"+null) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Is reports whether any error in err's chain matches the target(s). Exactly
// the same as errors.Is, but variadic
func Is(err error, target error, targets ...error) bool {
	targets = append([]error{target}, targets...)
	for _, e := range targets {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func format(err error, skip int) string {
	if err == nil {
		return ""
	}
	err = fmt.Errorf("Error in %s %w", caller(skip+1), err)
	return strings.Replace(err.Error(), " ->"+null+" ", "\n\n", -1)
}

func caller(skip int) string {
	pc, filename, linenr, ok := runtime.Caller(skip)
	if !ok {
		return "<unknown>"
	}
	strs := strings.Split(runtime.FuncForPC(pc).Name(), "/")
	function := strs[len(strs)-1]
	return fmt.Sprintf("%s:%d (%s)", filename, linenr, function)
}
