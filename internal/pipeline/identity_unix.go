//go:build unix

package pipeline

import "golang.org/x/sys/unix"

// dirID identifies a directory by device and inode, so the same directory
// reached through different symlinks compares equal.
type dirID struct {
	dev uint64
	ino uint64
}

func identify(path string) (dirID, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return dirID{}, err
	}
	return dirID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, nil
}
