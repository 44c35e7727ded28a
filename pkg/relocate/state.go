package relocate

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/homesync/pkg/types"
)

// FileState classifies a filesystem entry at a given location.
// It is derived fresh on every inspection and never cached, since
// mutations may be interleaved with user prompts.
type FileState int

const (
	// Absent means nothing exists at the path
	Absent FileState = iota
	// RegularFile is a plain file
	RegularFile
	// Directory is a directory
	Directory
	// Symlink is a symbolic link, dangling or not
	Symlink
	// Unsupported is anything else (FIFO, socket, device node)
	Unsupported
)

// String returns the user-facing name for the state, as used in
// confirmation prompts
func (s FileState) String() string {
	switch s {
	case Absent:
		return "absent"
	case RegularFile:
		return "file"
	case Directory:
		return "folder"
	case Symlink:
		return "link"
	default:
		return "unsupported"
	}
}

// Classify inspects the entry at path without following a final symlink
func Classify(filesystem types.FS, path string) FileState {
	info, err := filesystem.Lstat(path)
	if err != nil {
		return Absent
	}

	mode := info.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		return Symlink
	case mode.IsDir():
		return Directory
	case mode.IsRegular():
		return RegularFile
	default:
		return Unsupported
	}
}

// Exists reports whether path resolves to an existing entry, following
// symlinks. A dangling link does not exist in this sense.
func Exists(filesystem types.FS, path string) bool {
	_, err := filesystem.Stat(path)
	return err == nil
}

// SameEntry reports whether a and b resolve to the same underlying
// filesystem entry. This is the link relation the engine establishes:
// identity is compared on the resolved entries, not on textual paths.
func SameEntry(filesystem types.FS, a, b string) bool {
	infoA, err := filesystem.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := filesystem.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
