// Package styles defines the stylesheet-compiler collaborator of
// spec.md §6.2: given an entry path, it yields a compiled CSS string or a
// StyleError. No Go stylesheet compiler exists anywhere in the retrieved
// example pack (see DESIGN.md), so Compiler is a narrow interface with a
// single passthrough implementation that reads the entry file verbatim;
// a real preprocessor can be substituted by implementing Compiler.
package styles

import (
	"fmt"
	"os"
)

// StyleError reports a failure compiling a stylesheet (spec.md §7).
type StyleError struct {
	Path string
	Err  error
}

func (e *StyleError) Error() string { return fmt.Sprintf("style error at %q: %s", e.Path, e.Err) }
func (e *StyleError) Unwrap() error { return e.Err }

// Compiler compiles a stylesheet entry path into CSS text.
type Compiler interface {
	Compile(path string) (string, error)
}

// PassthroughCompiler reads path and returns its contents unmodified. It is
// the reference Compiler implementation: socket's SKT surface has no
// notion of a preprocessor syntax of its own, so "compiling" a stylesheet
// is reading it.
type PassthroughCompiler struct{}

func (PassthroughCompiler) Compile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &StyleError{Path: path, Err: err}
	}
	return string(data), nil
}
