package skt

import "errors"

// Fragments is the lookup table of parsed fragments/layouts keyed by their
// source-relative path, consulted by the evaluator for FragmentNode and
// Subclass layout references (spec.md §4.2.7, §6.3). Mirrors the Rust
// Fragments type in fragments.rs, which owns a HashMap<String, Nodes>
// populated by walking a directory of .skt files.
type Fragments struct {
	entries map[string]Nodes
}

// NewFragments returns an empty fragment table.
func NewFragments() *Fragments {
	return &Fragments{entries: map[string]Nodes{}}
}

// Parse parses source as a strict fragment (spec.md §4.2.7: any leftover
// non-blank input is an error) and stores the result under path. Leftover
// input is reported as an IncompleteParse for path; any other parse error
// is returned as it is.
func (f *Fragments) Parse(path, source string) error {
	nodes, err := ParseFragment(source)
	if err != nil {
		if errors.Is(err, ErrIncompleteParse) {
			return &IncompleteParse{Path: path}
		}
		return err
	}
	f.entries[path] = nodes
	return nil
}

// Get looks up a previously parsed fragment by path.
func (f *Fragments) Get(path string) (Nodes, bool) {
	n, ok := f.entries[path]
	return n, ok
}

// Len reports how many fragments are registered.
func (f *Fragments) Len() int {
	return len(f.entries)
}
