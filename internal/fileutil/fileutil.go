// Package fileutil holds file modes and small file helpers shared by the CLI
// and the MCP server.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for reports and other output
// not meant to be shared (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for converted manifests, which
// are read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// BackupSuffix is appended to a manifest renamed before it is replaced.
const BackupSuffix = ".org"

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// rename is swapped in tests to simulate a failed replace.
var rename = os.Rename

// ReplaceWithBackup replaces the file at path with data, keeping the old
// content at path+BackupSuffix, and returns the backup's name. An existing
// backup is never overwritten.
//
// data is written to a temporary file in the same directory first, so a
// failed write leaves path untouched. If the final rename fails the backup
// is moved back.
func ReplaceWithBackup(path string, data []byte, perm os.FileMode) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		return "", fmt.Errorf("fileutil: checking %s: %w", path, err)
	}
	backup := path + BackupSuffix
	if _, err := os.Lstat(backup); err == nil {
		return "", fmt.Errorf("fileutil: backup %s already exists", backup)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("fileutil: checking backup path: %w", err)
	}

	tmp, err := writeTemp(path, data, perm)
	if err != nil {
		return "", err
	}
	if err := rename(path, backup); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("fileutil: creating backup: %w", err)
	}
	if err := rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		if restoreErr := rename(backup, path); restoreErr != nil {
			return "", fmt.Errorf("fileutil: replacing %s: %w (original left at %s)", path, err, backup)
		}
		return "", fmt.Errorf("fileutil: replacing %s: %w", path, err)
	}
	return backup, nil
}

// writeTemp writes data to a new file next to path and returns its name.
func writeTemp(path string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("fileutil: creating temporary file: %w", err)
	}
	name := f.Name()
	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(perm)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("fileutil: writing temporary file: %w", err)
	}
	return name, nil
}
