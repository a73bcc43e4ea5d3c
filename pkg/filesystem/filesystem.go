// Package filesystem provides the platform I/O layer used by the copy engine:
// a small FileSystem interface with local, SFTP and in-memory implementations,
// plus the path helpers that build child paths safely.
package filesystem

import (
	"fmt"
	"io"
	"os"
)

// File is the handle returned by Open and Create.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// FileSystem abstracts the filesystem operations the copy engine needs.
// Errors from Mkdir on an existing path must satisfy errors.Is(err, fs.ErrExist),
// and errors for missing paths must satisfy errors.Is(err, fs.ErrNotExist).
type FileSystem interface {
	Open(path string) (File, error)
	// Create opens path for writing, creating it or truncating an existing file.
	Create(path string) (File, error)
	Mkdir(path string, perm os.FileMode) error
	// ReadDir lists the entries of a directory without following symlinks.
	// The self and parent pseudo-entries are never included.
	ReadDir(path string) ([]os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	Remove(path string) error
}

// RealFileSystem implements FileSystem using the os package.
type RealFileSystem struct{}

// NewRealFileSystem creates a new RealFileSystem instance.
func NewRealFileSystem() *RealFileSystem {
	return &RealFileSystem{}
}

// Create creates a file for writing.
func (fs *RealFileSystem) Create(path string) (File, error) {
	file, err := os.Create(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return file, nil
}

// Lstat returns file information without following a trailing symlink.
func (fs *RealFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat %s: %w", path, err)
	}

	return info, nil
}

// Mkdir creates a single directory.
func (fs *RealFileSystem) Mkdir(path string, perm os.FileMode) error {
	err := os.Mkdir(path, perm)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	return nil
}

// Open opens a file for reading.
func (fs *RealFileSystem) Open(path string) (File, error) {
	file, err := os.Open(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return file, nil
}

// ReadDir lists a directory in the order the operating system returns it.
func (fs *RealFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	dir, err := os.Open(path) // #nosec G304 - file path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	defer func() {
		_ = dir.Close()
	}()

	entries, err := dir.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	return entries, nil
}

// Remove removes a file or empty directory.
func (fs *RealFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

// Stat returns file information, following symlinks.
func (fs *RealFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return info, nil
}
