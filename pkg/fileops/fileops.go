// Package fileops implements the filesystem primitives the relocation
// engine builds on: recursive delete, recursive copy, symlink creation and
// permission normalization. All operations act on absolute paths that
// include the final file or directory name, never on trailing-slash paths.
package fileops

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/types"
	"github.com/rs/zerolog"
)

const (
	fileMode fs.FileMode = 0600
	dirMode  fs.FileMode = 0700
)

// Ops bundles the platform file operations with their dependencies
type Ops struct {
	fs       types.FS
	stripper SecurityAttributeStripper
	logger   zerolog.Logger
}

// New creates an Ops using the given filesystem and attribute stripper.
// A nil stripper selects the platform default.
func New(filesystem types.FS, stripper SecurityAttributeStripper) *Ops {
	if stripper == nil {
		stripper = NewStripper()
	}
	return &Ops{
		fs:       filesystem,
		stripper: stripper,
		logger:   logging.GetLogger("fileops"),
	}
}

// Delete removes the file, directory (recursively) or symlink at path.
// ACLs and immutable flags are stripped first, best-effort, since either
// can block removal even with owner write access. A missing path is not
// an error.
func (o *Ops) Delete(path string) error {
	o.stripper.StripACL(path)
	o.stripper.StripImmutable(path)

	info, err := o.fs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path)
	}

	if info.IsDir() {
		if err := o.fs.RemoveAll(path); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove directory %s", path)
		}
		return nil
	}

	if err := o.fs.Remove(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to remove %s", path)
	}
	return nil
}

// Copy copies a regular file or recursively copies a directory tree from
// src to dst, creating dst's parent directories as needed. A src that is
// neither a regular file nor a directory fails with ErrUnsupportedEntry
// before anything is copied. Permissions on dst are normalized afterwards.
func (o *Ops) Copy(src, dst string) error {
	// Stat follows symlinks, so a top-level link to a file copies the file
	info, err := o.fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", src)
	}

	if !info.Mode().IsRegular() && !info.IsDir() {
		return errors.Newf(errors.ErrUnsupportedEntry, "unsupported entry: %s", src)
	}

	if err := o.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory for %s", dst)
	}

	if info.IsDir() {
		err = o.copyDir(src, dst)
	} else {
		err = o.copyFile(src, dst, info.Mode().Perm())
	}
	if err != nil {
		return err
	}

	return o.NormalizePermissions(dst)
}

func (o *Ops) copyFile(src, dst string, perm fs.FileMode) error {
	data, err := o.fs.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to read %s", src)
	}
	if err := o.fs.WriteFile(dst, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", dst)
	}
	return nil
}

func (o *Ops) copyDir(src, dst string) error {
	if err := o.fs.MkdirAll(dst, dirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s", dst)
	}

	entries, err := o.fs.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		info, err := o.fs.Lstat(srcPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", srcPath)
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			// Links inside a tree are recreated, not followed, so a config
			// directory's internal structure survives the round trip
			target, err := o.fs.Readlink(srcPath)
			if err != nil {
				return errors.Wrapf(err, errors.ErrFileAccess, "failed to read symlink %s", srcPath)
			}
			if err := o.fs.Symlink(target, dstPath); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to recreate symlink %s", dstPath)
			}
		case info.IsDir():
			if err := o.copyDir(srcPath, dstPath); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := o.copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
				return err
			}
		default:
			return errors.Newf(errors.ErrUnsupportedEntry, "unsupported entry: %s", srcPath)
		}
	}
	return nil
}

// NormalizePermissions sets owner read+write on files and owner
// read+write+execute on directories, recursively, stripping immutable
// flags first. This keeps unreadable or externally-immutable content from
// ending up behind the link path.
func (o *Ops) NormalizePermissions(path string) error {
	o.stripper.StripImmutable(path)

	info, err := o.fs.Lstat(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path)
	}

	// Symlinks themselves carry no meaningful mode
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil
	}

	if !info.IsDir() {
		if err := o.fs.Chmod(path, fileMode); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to chmod %s", path)
		}
		return nil
	}

	if err := o.fs.Chmod(path, dirMode); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to chmod %s", path)
	}

	entries, err := o.fs.ReadDir(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to read directory %s", path)
	}
	for _, entry := range entries {
		if err := o.NormalizePermissions(filepath.Join(path, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// CreateSymlink creates a symbolic link at linkPath pointing to target.
// The target must exist and linkPath must not; the engine always checks
// both before calling, so a violation here is a programming error.
func (o *Ops) CreateSymlink(target, linkPath string) error {
	if _, err := o.fs.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return errors.Newf(errors.ErrTargetMissing, "symlink target does not exist: %s", target)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", target)
	}

	if _, err := o.fs.Lstat(linkPath); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "link path already exists: %s", linkPath)
	}

	if err := o.fs.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory for %s", linkPath)
	}

	if err := o.NormalizePermissions(target); err != nil {
		return err
	}

	if err := o.fs.Symlink(target, linkPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to create symlink %s", linkPath)
	}

	o.logger.Debug().Str("target", target).Str("link", linkPath).Msg("Created symlink")
	return nil
}
