package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory filesystem implementation for testing.
// Paths are slash-separated and cleaned before lookup; "/" always exists.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string]*mockFile

	failures    map[string]map[string]error
	shortWrites map[string]bool
	openHandles int
}

// mockFile represents an entry in the mock filesystem.
type mockFile struct {
	data    []byte
	modTime time.Time
	mode    os.FileMode
	target  string
}

// mockFileInfo implements os.FileInfo for mock entries.
type mockFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	mode    os.FileMode
}

func (fi *mockFileInfo) Name() string       { return fi.name }
func (fi *mockFileInfo) Size() int64        { return fi.size }
func (fi *mockFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *mockFileInfo) Sys() interface{}   { return nil }

// mockFileHandle implements File for reading or writing.
type mockFileHandle struct {
	fs     *MockFileSystem
	path   string
	data   []byte
	offset int
	write  bool
	short  bool
	closed bool
}

func (f *mockFileHandle) Read(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if f.write {
		return 0, fmt.Errorf("read %s: bad file descriptor", f.path)
	}

	if f.offset >= len(f.data) {
		return 0, io.EOF
	}

	n := copy(p, f.data[f.offset:])
	f.offset += n

	return n, nil
}

func (f *mockFileHandle) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	if !f.write {
		return 0, fmt.Errorf("write %s: bad file descriptor", f.path)
	}

	n := len(p)
	if f.short && n > 0 {
		n /= 2
	}

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	if file, exists := f.fs.files[f.path]; exists {
		file.data = append(file.data, p[:n]...)
		file.modTime = time.Now()
	}

	return n, nil
}

func (f *mockFileHandle) Close() error {
	if f.closed {
		return os.ErrClosed
	}

	f.closed = true

	f.fs.mu.Lock()
	f.fs.openHandles--
	f.fs.mu.Unlock()

	return nil
}

// NewMockFileSystem creates a new in-memory filesystem containing only "/".
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		files: map[string]*mockFile{
			"/": {mode: os.ModeDir | 0o755, modTime: time.Now()},
		},
		failures:    make(map[string]map[string]error),
		shortWrites: make(map[string]bool),
	}
}

// AddDir adds a directory (and any missing parents).
func (fs *MockFileSystem) AddDir(dirPath string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.addDirLocked(path.Clean(dirPath))
}

// AddFile adds a regular file, creating parent directories as needed.
func (fs *MockFileSystem) AddFile(filePath string, data []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	filePath = path.Clean(filePath)
	fs.addDirLocked(path.Dir(filePath))
	fs.files[filePath] = &mockFile{
		data:    append([]byte(nil), data...),
		modTime: time.Now(),
		mode:    0o644,
	}
}

// AddSymlink adds a symbolic link at linkPath pointing to target.
func (fs *MockFileSystem) AddSymlink(linkPath, target string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	linkPath = path.Clean(linkPath)
	fs.addDirLocked(path.Dir(linkPath))
	fs.files[linkPath] = &mockFile{
		mode:    os.ModeSymlink | 0o777,
		modTime: time.Now(),
		target:  path.Clean(target),
	}
}

// AddSpecial adds an entry of an arbitrary non-regular mode, such as a named pipe.
func (fs *MockFileSystem) AddSpecial(specialPath string, mode os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	specialPath = path.Clean(specialPath)
	fs.addDirLocked(path.Dir(specialPath))
	fs.files[specialPath] = &mockFile{mode: mode, modTime: time.Now()}
}

// FailOn makes the named operation ("open", "create", "mkdir", "readdir",
// "stat", "lstat", "remove") fail for target with err.
func (fs *MockFileSystem) FailOn(op, target string, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	target = path.Clean(target)
	if fs.failures[op] == nil {
		fs.failures[op] = make(map[string]error)
	}

	fs.failures[op][target] = err
}

// ShortWrite makes every write to target report fewer bytes than requested.
func (fs *MockFileSystem) ShortWrite(target string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.shortWrites[path.Clean(target)] = true
}

// ReadFile returns the contents of a regular file.
func (fs *MockFileSystem) ReadFile(filePath string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	file, exists := fs.files[path.Clean(filePath)]
	if !exists || !file.mode.IsRegular() {
		return nil, &os.PathError{Op: "read", Path: filePath, Err: errNotExist}
	}

	return append([]byte(nil), file.data...), nil
}

// Exists reports whether an entry exists at p.
func (fs *MockFileSystem) Exists(p string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, exists := fs.files[path.Clean(p)]

	return exists
}

// OpenHandles returns the number of handles that were opened and not yet closed.
func (fs *MockFileSystem) OpenHandles() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return fs.openHandles
}

// Create creates or truncates a file for writing. The parent must be an existing directory.
func (fs *MockFileSystem) Create(filePath string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	clean := path.Clean(filePath)
	if err := fs.failureLocked("create", clean); err != nil {
		return nil, &os.PathError{Op: "create", Path: filePath, Err: err}
	}

	parent, exists := fs.files[path.Dir(clean)]
	if !exists || !parent.mode.IsDir() {
		return nil, &os.PathError{Op: "create", Path: filePath, Err: errNotExist}
	}

	if existing, ok := fs.files[clean]; ok && existing.mode.IsDir() {
		return nil, &os.PathError{Op: "create", Path: filePath, Err: errIsDirectory}
	}

	fs.files[clean] = &mockFile{modTime: time.Now(), mode: 0o644}
	fs.openHandles++

	return &mockFileHandle{fs: fs, path: clean, write: true, short: fs.shortWrites[clean]}, nil
}

// Lstat returns entry information without following symlinks.
func (fs *MockFileSystem) Lstat(p string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	clean := path.Clean(p)
	if err := fs.failureLocked("lstat", clean); err != nil {
		return nil, &os.PathError{Op: "lstat", Path: p, Err: err}
	}

	file, exists := fs.files[clean]
	if !exists {
		return nil, &os.PathError{Op: "lstat", Path: p, Err: errNotExist}
	}

	return file.info(path.Base(clean)), nil
}

// Mkdir creates a single directory. The parent must exist.
func (fs *MockFileSystem) Mkdir(dirPath string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	clean := path.Clean(dirPath)
	if err := fs.failureLocked("mkdir", clean); err != nil {
		return &os.PathError{Op: "mkdir", Path: dirPath, Err: err}
	}

	if _, exists := fs.files[clean]; exists {
		return &os.PathError{Op: "mkdir", Path: dirPath, Err: errExist}
	}

	parent, exists := fs.files[path.Dir(clean)]
	if !exists || !parent.mode.IsDir() {
		return &os.PathError{Op: "mkdir", Path: dirPath, Err: errNotExist}
	}

	fs.files[clean] = &mockFile{mode: os.ModeDir | perm.Perm(), modTime: time.Now()}

	return nil
}

// Open opens a regular file for reading, following symlinks.
func (fs *MockFileSystem) Open(filePath string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	clean := path.Clean(filePath)
	if err := fs.failureLocked("open", clean); err != nil {
		return nil, &os.PathError{Op: "open", Path: filePath, Err: err}
	}

	file, resolved := fs.resolveLocked(clean)
	if file == nil {
		return nil, &os.PathError{Op: "open", Path: filePath, Err: errNotExist}
	}

	if !file.mode.IsRegular() {
		return nil, &os.PathError{Op: "open", Path: filePath, Err: errIsDirectory}
	}

	fs.openHandles++

	return &mockFileHandle{fs: fs, path: resolved, data: append([]byte(nil), file.data...)}, nil
}

// ReadDir lists the direct children of a directory, sorted by name.
func (fs *MockFileSystem) ReadDir(dirPath string) ([]os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	clean := path.Clean(dirPath)
	if err := fs.failureLocked("readdir", clean); err != nil {
		return nil, &os.PathError{Op: "readdir", Path: dirPath, Err: err}
	}

	dir, resolved := fs.resolveLocked(clean)
	if dir == nil {
		return nil, &os.PathError{Op: "readdir", Path: dirPath, Err: errNotExist}
	}

	if !dir.mode.IsDir() {
		return nil, &os.PathError{Op: "readdir", Path: dirPath, Err: errNotDirectory}
	}

	prefix := resolved + "/"
	if resolved == "/" {
		prefix = "/"
	}

	var entries []os.FileInfo

	for p, file := range fs.files {
		if p == resolved || !strings.HasPrefix(p, prefix) {
			continue
		}

		name := strings.TrimPrefix(p, prefix)
		if strings.Contains(name, "/") {
			continue
		}

		entries = append(entries, file.info(name))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

// Remove removes a file or empty directory.
func (fs *MockFileSystem) Remove(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	clean := path.Clean(p)
	if err := fs.failureLocked("remove", clean); err != nil {
		return &os.PathError{Op: "remove", Path: p, Err: err}
	}

	if _, exists := fs.files[clean]; !exists {
		return &os.PathError{Op: "remove", Path: p, Err: errNotExist}
	}

	for other := range fs.files {
		if strings.HasPrefix(other, clean+"/") {
			return &os.PathError{Op: "remove", Path: p, Err: errDirectoryNotEmpty}
		}
	}

	delete(fs.files, clean)

	return nil
}

// Stat returns entry information, following symlinks.
func (fs *MockFileSystem) Stat(p string) (os.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	clean := path.Clean(p)
	if err := fs.failureLocked("stat", clean); err != nil {
		return nil, &os.PathError{Op: "stat", Path: p, Err: err}
	}

	file, _ := fs.resolveLocked(clean)
	if file == nil {
		return nil, &os.PathError{Op: "stat", Path: p, Err: errNotExist}
	}

	return file.info(path.Base(clean)), nil
}

func (fs *MockFileSystem) addDirLocked(dirPath string) {
	for dirPath != "/" && dirPath != "." {
		if _, exists := fs.files[dirPath]; exists {
			return
		}

		fs.files[dirPath] = &mockFile{mode: os.ModeDir | 0o755, modTime: time.Now()}
		dirPath = path.Dir(dirPath)
	}
}

func (fs *MockFileSystem) failureLocked(op, target string) error {
	return fs.failures[op][target]
}

// resolveLocked follows symlinks, giving up after a fixed number of hops.
func (fs *MockFileSystem) resolveLocked(p string) (*mockFile, string) {
	const maxHops = 40

	for range maxHops {
		file, exists := fs.files[p]
		if !exists {
			return nil, ""
		}

		if file.mode&os.ModeSymlink == 0 {
			return file, p
		}

		p = file.target
	}

	return nil, ""
}

func (f *mockFile) info(name string) *mockFileInfo {
	return &mockFileInfo{
		name:    name,
		size:    int64(len(f.data)),
		modTime: f.modTime,
		mode:    f.mode,
	}
}

var (
	errExist             = fs.ErrExist
	errNotExist          = fs.ErrNotExist
	errIsDirectory       = errors.New("is a directory")
	errNotDirectory      = errors.New("not a directory")
	errDirectoryNotEmpty = errors.New("directory not empty")
)
