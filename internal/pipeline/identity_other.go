//go:build !unix

package pipeline

import "path/filepath"

// dirID identifies a directory by its fully resolved absolute path.
type dirID struct {
	path string
}

func identify(path string) (dirID, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return dirID{}, err
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return dirID{}, err
	}
	return dirID{path: abs}, nil
}
