package skt

import "strings"

// Builder accumulates rendered HTML fragments and non-fatal evaluation
// errors side by side, mirroring the Rust Builder<T, E> in builder.rs:
// append pushes a rendered chunk, warn records an error, and the run never
// aborts early so every error surfaces in one pass (spec.md §4.4).
type Builder struct {
	values []string
	errors []error
}

// Append pushes a rendered HTML chunk.
func (b *Builder) Append(s string) {
	b.values = append(b.values, s)
}

// Warn records a non-fatal evaluation error.
func (b *Builder) Warn(err error) {
	b.errors = append(b.errors, err)
}

// HTML concatenates the accumulated chunks, ignoring any recorded warnings.
func (b *Builder) HTML() string {
	return strings.Join(b.values, "")
}

// Errors returns the recorded warnings, in the order they were raised.
func (b *Builder) Errors() []error {
	return b.errors
}
