//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package filesystem_test

import (
	"os"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/cpx/pkg/filesystem"
)

func walkKinds(mfs filesystem.FileSystem, root string, dereference bool) map[string]os.FileMode {
	seen := make(map[string]os.FileMode)

	walker := filesystem.NewWalker(mfs, root, dereference)
	for walker.Step() {
		if walker.Err() != nil {
			continue
		}

		seen[walker.Path()] = walker.Stat().Mode().Type()
	}

	return seen
}

func TestNewWalker_VisitsTreeWithoutFollowingLinks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/src/x.txt", []byte("x"))
	mfs.AddFile("/src/sub/y.txt", []byte("y"))
	mfs.AddSymlink("/src/link", "/src/x.txt")

	seen := walkKinds(mfs, "/src", false)

	g.Expect(seen).Should(HaveKeyWithValue("/src", os.ModeDir))
	g.Expect(seen).Should(HaveKeyWithValue("/src/x.txt", os.FileMode(0)))
	g.Expect(seen).Should(HaveKeyWithValue("/src/sub/y.txt", os.FileMode(0)))
	g.Expect(seen).Should(HaveKeyWithValue("/src/link", os.ModeSymlink))
}

func TestNewWalker_DereferenceFollowsLinks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/data/real.txt", []byte("r"))
	mfs.AddSymlink("/src/link", "/data/real.txt")
	mfs.AddSymlink("/src/dangling", "/data/missing")

	seen := walkKinds(mfs, "/src", true)

	g.Expect(seen).Should(HaveKeyWithValue("/src/link", os.FileMode(0)))
	g.Expect(seen).Should(HaveKeyWithValue("/src/dangling", os.ModeSymlink))
}

func TestNewWalker_RootSymlinkIsFollowed(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mfs := filesystem.NewMockFileSystem()
	mfs.AddFile("/real/a.txt", []byte("a"))
	mfs.AddSymlink("/alias", "/real")

	seen := walkKinds(mfs, "/alias", false)

	g.Expect(seen).Should(HaveKeyWithValue("/alias", os.ModeDir))
	g.Expect(seen).Should(HaveKeyWithValue("/alias/a.txt", os.FileMode(0)))
}

func TestNewWalker_MissingRootYieldsError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	walker := filesystem.NewWalker(filesystem.NewMockFileSystem(), "/nope", false)

	g.Expect(walker.Step()).Should(BeTrue())
	g.Expect(walker.Err()).Should(HaveOccurred())
	g.Expect(walker.Step()).Should(BeFalse())
}
