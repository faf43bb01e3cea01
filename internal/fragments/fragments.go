// Package fragments walks a directory tree of .skt files and feeds each one
// into a skt.Fragments table, implementing the fragment-loader collaborator
// of spec.md §6.2. It is grounded on original_source/src/fragments.rs's use
// of WalkDir, adapted to afero.Fs the way connerohnesorge-spectr wires
// afero for its own filesystem traversal.
package fragments

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/joshuaclayton/socket/skt"
)

// IOError reports a failure reading the fragment tree from disk.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("io error at %q: %s", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// Load walks root on fs, parsing every file with a .skt extension into
// table, keyed by its path relative to root with forward slashes. A read
// failure aborts the walk and is returned at once; a fragment that fails to
// parse does not abort the walk, and all such parse errors are returned
// together once the whole tree has been walked.
func Load(fs afero.Fs, root string, table *skt.Fragments) error {
	var parseErrs []error

	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return &IOError{Path: path, Err: err}
		}
		if info.IsDir() || filepath.Ext(path) != ".skt" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return &IOError{Path: path, Err: err}
		}
		rel = filepath.ToSlash(rel)

		f, err := fs.Open(path)
		if err != nil {
			return &IOError{Path: path, Err: err}
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return &IOError{Path: path, Err: err}
		}

		if perr := table.Parse(rel, string(data)); perr != nil {
			parseErrs = append(parseErrs, perr)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(parseErrs) > 0 {
		msgs := make([]string, len(parseErrs))
		for i, e := range parseErrs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("fragment load errors: %s", strings.Join(msgs, "; "))
	}
	return nil
}
