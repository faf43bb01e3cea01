package skt

import "fmt"

// ValueMissing is emitted when no JSON value exists at sel (spec.md §7).
type ValueMissing struct{ Selector Selector }

func (e *ValueMissing) Error() string {
	return fmt.Sprintf("no value at %s", e.Selector)
}

func (e *ValueMissing) Is(target error) bool {
	t, ok := target.(*ValueMissing)
	return ok && t.Selector.String() == e.Selector.String()
}

// NotArray is emitted when a ForLoop's target selector does not resolve to
// a JSON array.
type NotArray struct{ Selector Selector }

func (e *NotArray) Error() string {
	return fmt.Sprintf("%s is not an array", e.Selector)
}

func (e *NotArray) Is(target error) bool {
	t, ok := target.(*NotArray)
	return ok && t.Selector.String() == e.Selector.String()
}

// NotBool is emitted when an IfElse's target selector does not resolve to a
// JSON boolean.
type NotBool struct{ Selector Selector }

func (e *NotBool) Error() string {
	return fmt.Sprintf("%s is not a bool", e.Selector)
}

func (e *NotBool) Is(target error) bool {
	t, ok := target.(*NotBool)
	return ok && t.Selector.String() == e.Selector.String()
}

// UnknownBlock is emitted when a BlockValue node references an undefined
// block name.
type UnknownBlock struct{ Name string }

func (e *UnknownBlock) Error() string {
	return fmt.Sprintf("unknown block %q", e.Name)
}

func (e *UnknownBlock) Is(target error) bool {
	t, ok := target.(*UnknownBlock)
	return ok && t.Name == e.Name
}

// UnknownFragment is emitted when a Fragment or Subclass node references a
// path that is absent from the Fragments table.
type UnknownFragment struct{ Path string }

func (e *UnknownFragment) Error() string {
	return fmt.Sprintf("unknown fragment %q", e.Path)
}

func (e *UnknownFragment) Is(target error) bool {
	t, ok := target.(*UnknownFragment)
	return ok && t.Path == e.Path
}

// IncompleteParse is returned when a fragment loaded from disk parses with
// unconsumed trailing input left over (spec.md §4.2.7, §7).
type IncompleteParse struct{ Path string }

func (e *IncompleteParse) Error() string {
	return fmt.Sprintf("incomplete parse of %q", e.Path)
}
