package pipeline

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Walk enumerates input files under root. A file root is yielded when its
// extension matches, regardless of recursive. A directory root yields
// matching regular files in lexicographic order; with recursive set,
// subdirectories are descended depth-first as they are encountered.
//
// exts are lowercase with a leading dot; matching is case-insensitive.
// Symlinks are followed, and each directory is visited at most once so
// link loops terminate. Read errors are yielded as (path, err) and the walk
// continues. Each range over the returned sequence walks the filesystem
// afresh.
func Walk(root string, recursive bool, exts []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		fi, err := os.Stat(root)
		if err != nil {
			yield(root, err)
			return
		}
		if !fi.IsDir() {
			if matchExt(root, exts) {
				yield(root, nil)
			}
			return
		}

		w := &walker{
			exts:      exts,
			recursive: recursive,
			visited:   make(map[dirID]bool),
			yield:     yield,
		}
		w.dir(root)
	}
}

type walker struct {
	exts      []string
	recursive bool
	visited   map[dirID]bool
	yield     func(string, error) bool
}

// dir walks one directory. It returns false once the consumer stops.
func (w *walker) dir(path string) bool {
	id, err := identify(path)
	if err != nil {
		return w.yield(path, err)
	}
	if w.visited[id] {
		return true
	}
	w.visited[id] = true

	// os.ReadDir returns entries sorted by name, plus whatever it read
	// before an error.
	entries, err := os.ReadDir(path)
	if err != nil {
		if !w.yield(path, err) {
			return false
		}
	}

	for _, e := range entries {
		full := filepath.Join(path, e.Name())

		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			fi, err := os.Stat(full)
			if err != nil {
				// Dangling links only matter when they look like inputs.
				if matchExt(full, w.exts) && !errors.Is(err, fs.ErrNotExist) {
					if !w.yield(full, err) {
						return false
					}
				}
				continue
			}
			mode = fi.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if w.recursive && !w.dir(full) {
				return false
			}
		case mode.IsRegular():
			if matchExt(full, w.exts) && !w.yield(full, nil) {
				return false
			}
		}
	}
	return true
}

// matchExt reports whether path ends in one of exts, ignoring case.
func matchExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
