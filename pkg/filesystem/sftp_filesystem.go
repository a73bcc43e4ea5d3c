package filesystem

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/pkg/sftp"
)

// SFTPFileSystem implements FileSystem over a single SFTP session.
type SFTPFileSystem struct {
	client *sftp.Client
}

// NewSFTPFileSystem creates a new SFTP filesystem using an established connection.
func NewSFTPFileSystem(conn *SFTPConnection) *SFTPFileSystem {
	return NewSFTPFileSystemFromClient(conn.Client())
}

// NewSFTPFileSystemFromClient wraps an already open SFTP client.
func NewSFTPFileSystemFromClient(client *sftp.Client) *SFTPFileSystem {
	return &SFTPFileSystem{client: client}
}

// Create creates or truncates a remote file for writing.
func (sfs *SFTPFileSystem) Create(path string) (File, error) {
	file, err := sfs.client.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote file %s: %w", path, err)
	}

	return file, nil
}

// Lstat returns remote file information without following a trailing symlink.
func (sfs *SFTPFileSystem) Lstat(path string) (os.FileInfo, error) {
	info, err := sfs.client.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to lstat remote file %s: %w", path, err)
	}

	return info, nil
}

// Mkdir creates a remote directory. The permission bits are left to the server.
// SFTP servers report an existing directory as a generic failure, so that case
// is detected with a follow-up stat and reported as fs.ErrExist.
func (sfs *SFTPFileSystem) Mkdir(path string, _ os.FileMode) error {
	err := sfs.client.Mkdir(path)
	if err == nil {
		return nil
	}

	if _, statErr := sfs.client.Lstat(path); statErr == nil {
		return fmt.Errorf("failed to create remote directory %s: %w", path, fs.ErrExist)
	}

	return fmt.Errorf("failed to create remote directory %s: %w", path, err)
}

// Open opens a remote file for reading.
func (sfs *SFTPFileSystem) Open(path string) (File, error) {
	file, err := sfs.client.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote file %s: %w", path, err)
	}

	return file, nil
}

// ReadDir lists a remote directory.
func (sfs *SFTPFileSystem) ReadDir(path string) ([]os.FileInfo, error) {
	entries, err := sfs.client.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote directory %s: %w", path, err)
	}

	return entries, nil
}

// Remove removes a remote file or empty directory.
func (sfs *SFTPFileSystem) Remove(path string) error {
	err := sfs.client.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove remote file %s: %w", path, err)
	}

	return nil
}

// Stat returns remote file information, following symlinks.
func (sfs *SFTPFileSystem) Stat(path string) (os.FileInfo, error) {
	info, err := sfs.client.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat remote file %s: %w", path, err)
	}

	return info, nil
}
