// Package fsutil provides the filesystem primitives of the resolver, most
// importantly the atomic write-temp-then-rename used to install artifacts.
package fsutil

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

// WriteReplace writes data to target via a sibling temp file and an atomic
// rename, creating parent directories as needed. On POSIX systems the rename
// atomically replaces an existing file; concurrent writers of the same target
// end with one complete winner. The temp file is removed on failure.
func WriteReplace(target string, data []byte) error {
	if target == "" {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidPath, "target path cannot be empty")
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, DirModeDefault); err != nil {
		return pkgerrors.Wrapf(pkgerrors.ErrWrite, "failed to create directory %s: %v", dir, err)
	}

	tmp := target + TempSuffix
	if err := os.WriteFile(tmp, data, FileModeDefault); err != nil {
		_ = os.Remove(tmp)
		return pkgerrors.Wrapf(pkgerrors.ErrWrite, "failed to write %s: %v", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return pkgerrors.Wrapf(pkgerrors.ErrWrite, "failed to rename %s to %s: %v", tmp, target, err)
	}
	return nil
}

// Exists reports whether path exists and is a regular file.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
