//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package filesystem_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/cpx/pkg/filesystem"
)

func TestMockFileSystem_CreateAndOpen(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddDir("/data")

	file, err := mfs.Create("/data/test.txt")
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = file.Write([]byte("test content"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(file.Close()).Should(Succeed())

	reader, err := mfs.Open("/data/test.txt")
	g.Expect(err).ShouldNot(HaveOccurred())

	data, err := io.ReadAll(reader)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(data)).Should(Equal("test content"))
	g.Expect(reader.Close()).Should(Succeed())
	g.Expect(mfs.OpenHandles()).Should(BeZero())
}

func TestMockFileSystem_CreateTruncates(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/f.txt", []byte("old and long"))

	file, err := mfs.Create("/f.txt")
	g.Expect(err).ShouldNot(HaveOccurred())
	_, _ = file.Write([]byte("new"))
	_ = file.Close()

	data, err := mfs.ReadFile("/f.txt")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(data)).Should(Equal("new"))
}

func TestMockFileSystem_CreateWithoutParentFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()

	_, err := mfs.Create("/missing/f.txt")
	g.Expect(errors.Is(err, fs.ErrNotExist)).Should(BeTrue())
}

func TestMockFileSystem_MkdirReportsExisting(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	g.Expect(mfs.Mkdir("/out", 0o755)).Should(Succeed())

	err := mfs.Mkdir("/out", 0o755)
	g.Expect(errors.Is(err, fs.ErrExist)).Should(BeTrue())

	err = mfs.Mkdir("/nope/deeper", 0o755)
	g.Expect(errors.Is(err, fs.ErrNotExist)).Should(BeTrue())
}

func TestMockFileSystem_ReadDirListsDirectChildren(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/src/b.txt", nil)
	mfs.AddFile("/src/a.txt", nil)
	mfs.AddFile("/src/sub/c.txt", nil)

	entries, err := mfs.ReadDir("/src")
	g.Expect(err).ShouldNot(HaveOccurred())

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	g.Expect(names).Should(Equal([]string{"a.txt", "b.txt", "sub"}))
}

func TestMockFileSystem_SymlinksResolveOnStatOnly(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/real.txt", []byte("x"))
	mfs.AddSymlink("/link.txt", "/real.txt")

	linfo, err := mfs.Lstat("/link.txt")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(linfo.Mode() & os.ModeSymlink).ShouldNot(BeZero())

	info, err := mfs.Stat("/link.txt")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(info.Mode().IsRegular()).Should(BeTrue())
	g.Expect(info.Name()).Should(Equal("link.txt"))
}

func TestMockFileSystem_FailOn(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	injected := errors.New("permission denied")
	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/locked.txt", []byte("x"))
	mfs.FailOn("open", "/locked.txt", injected)

	_, err := mfs.Open("/locked.txt")
	g.Expect(errors.Is(err, injected)).Should(BeTrue())
}

func TestMockFileSystem_ShortWrite(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.ShortWrite("/out.bin")

	file, err := mfs.Create("/out.bin")
	g.Expect(err).ShouldNot(HaveOccurred())

	n, err := file.Write([]byte("abcdef"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(n).Should(Equal(3))
}

func TestMockFileSystem_Remove(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/d/f.txt", nil)

	g.Expect(mfs.Remove("/d")).ShouldNot(Succeed())
	g.Expect(mfs.Remove("/d/f.txt")).Should(Succeed())
	g.Expect(mfs.Exists("/d/f.txt")).Should(BeFalse())
	g.Expect(mfs.Remove("/d")).Should(Succeed())
}

func TestRealFileSystem_MkdirExistingWrapsErrExist(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	rfs := filesystem.NewRealFileSystem()

	err := rfs.Mkdir(dir, 0o755)
	g.Expect(errors.Is(err, fs.ErrExist)).Should(BeTrue())
}

func TestRealFileSystem_ReadDirAndCopyRoundTrip(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644)).Should(Succeed())
	g.Expect(os.Mkdir(filepath.Join(dir, "sub"), 0o755)).Should(Succeed())

	rfs := filesystem.NewRealFileSystem()

	entries, err := rfs.ReadDir(dir)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(entries).Should(HaveLen(2))

	src, err := rfs.Open(filepath.Join(dir, "a.txt"))
	g.Expect(err).ShouldNot(HaveOccurred())
	defer func() {
		_ = src.Close()
	}()

	dst, err := rfs.Create(filepath.Join(dir, "sub", "b.txt"))
	g.Expect(err).ShouldNot(HaveOccurred())

	_, err = io.Copy(dst, src)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(dst.Close()).Should(Succeed())

	data, err := os.ReadFile(filepath.Join(dir, "sub", "b.txt"))
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(string(data)).Should(Equal("alpha"))
}

func TestRealFileSystem_StatMissingWrapsErrNotExist(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := filesystem.NewRealFileSystem().Stat(filepath.Join(t.TempDir(), "nope"))
	g.Expect(errors.Is(err, fs.ErrNotExist)).Should(BeTrue())
}
