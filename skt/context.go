package skt

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context wraps the JSON value tree a template is evaluated against
// (spec.md §3, §4.3.3, §6.4). The payload is decoded with json.Number so
// that Stringify reproduces the source's own decimal form, matching the
// Rust implementation's serde_json::Number formatting exactly instead of
// round-tripping through float64.
type Context struct {
	payload any
}

// EmptyContext is a Context with no value bound, used when a template is
// rendered without a --context file (spec.md §6.1).
func EmptyContext() Context {
	return Context{payload: nil}
}

// JSONError reports that the context payload could not be decoded.
type JSONError struct {
	Err error
}

func (e *JSONError) Error() string { return fmt.Sprintf("json error: %s", e.Err) }
func (e *JSONError) Unwrap() error { return e.Err }

// LoadContext decodes a UTF-8 JSON document into a Context (spec.md §6.2's
// context loader). This is the one place the module reaches for
// encoding/json: the context's own representation is a named external
// collaborator ("JSON parsing itself... is out of scope"), so there is no
// domain-specific JSON contract here to re-implement against a third-party
// library.
func LoadContext(data []byte) (Context, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Context{}, &JSONError{Err: err}
	}
	return Context{payload: v}, nil
}

// WithValue returns a Context wrapping an already-decoded value. Used
// internally to build derived (loop-bound) contexts.
func WithValue(v any) Context { return Context{payload: v} }

// Value returns the root JSON value of the context.
func (c Context) Value() any { return c.payload }

// Resolve walks sel against the context's payload, returning the leaf value
// and whether every step resolved (spec.md §4.3.3).
func (c Context) Resolve(sel Selector) (any, bool) {
	cur := c.payload
	for _, step := range sel {
		switch step.Kind {
		case KeyStep:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			v, ok := obj[step.Key]
			if !ok {
				return nil, false
			}
			cur = v
		case IndexStep:
			arr, ok := cur.([]any)
			if !ok || step.Index < 0 || step.Index >= len(arr) {
				return nil, false
			}
			cur = arr[step.Index]
		}
	}
	return cur, true
}

// Stringify renders a resolved JSON value the way spec.md §4.3.3 specifies:
// null -> "", bool -> "true"/"false", number -> its canonical decimal form,
// string -> itself (unescaped), array -> "array", object -> "object".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "true"
		}
		return "false"
	case json.Number:
		return t.String()
	case string:
		return t
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprint(t)
	}
}

// Derive produces the per-iteration context for a ForLoop (spec.md §4.3.2):
// if the current root value is an object, local (and index, if named) are
// inserted into a shallow copy; otherwise the binding is dropped and the
// derived context equals the current one.
func (c Context) Derive(local string, value any, indexVar string, index int) Context {
	obj, ok := c.payload.(map[string]any)
	if !ok {
		return c
	}
	derived := make(map[string]any, len(obj)+2)
	for k, v := range obj {
		derived[k] = v
	}
	derived[local] = value
	if indexVar != "" {
		derived[indexVar] = json.Number(fmt.Sprintf("%d", index))
	}
	return Context{payload: derived}
}
