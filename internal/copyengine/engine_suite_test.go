package copyengine_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/cpx/internal/copyengine"
	"github.com/joe/cpx/pkg/filesystem"
)

func writeTree(root string, files map[string]string) {
	for rel, contents := range files {
		full := filepath.Join(root, rel)
		Expect(os.MkdirAll(filepath.Dir(full), 0o755)).To(Succeed())
		Expect(os.WriteFile(full, []byte(contents), 0o644)).To(Succeed())
	}
}

func readTree(root string) map[string]string {
	tree := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		tree[filepath.ToSlash(rel)] = string(data)

		return nil
	})
	Expect(err).NotTo(HaveOccurred())

	return tree
}

var _ = Describe("Engine on a real filesystem", func() {
	var (
		work     string
		engine   *copyengine.Engine
		reporter *recordingReporter
		run      func(source, dest string) (*copyengine.Result, error)
	)

	BeforeEach(func() {
		work = GinkgoT().TempDir()
		reporter = &recordingReporter{}

		rfs := filesystem.NewRealFileSystem()
		engine = copyengine.NewEngine(rfs, rfs, copyengine.Options{})
		engine.SetReporter(reporter)

		run = func(source, dest string) (*copyengine.Result, error) {
			return engine.Run(context.Background(), source, dest)
		}
	})

	Describe("directory sources", func() {
		It("mirrors the tree byte for byte under the source's base name", func() {
			src := filepath.Join(work, "src")
			files := map[string]string{
				"x.txt":          "top",
				"sub/y.txt":      "nested",
				"sub/deep/z.bin": strings.Repeat("\x00\xff", copyengine.BufferSize),
			}
			writeTree(src, files)

			out := filepath.Join(work, "out")
			Expect(os.Mkdir(out, 0o755)).To(Succeed())

			result, err := run(src+"/", out+"/")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Copied).To(Equal(result.Total))
			Expect(result.Total).To(Equal(uint64(3)))
			Expect(readTree(filepath.Join(out, "src"))).To(Equal(files))
		})

		It("recreates empty subdirectories", func() {
			src := filepath.Join(work, "src")
			writeTree(src, map[string]string{"a.txt": "a"})
			Expect(os.MkdirAll(filepath.Join(src, "empty", "inner"), 0o755)).To(Succeed())

			out := filepath.Join(work, "out")
			Expect(os.Mkdir(out, 0o755)).To(Succeed())

			_, err := run(src, out)
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(work, "out", "src", "empty", "inner")).To(BeADirectory())
		})

		It("fails when the destination's parent is missing", func() {
			src := filepath.Join(work, "src")
			writeTree(src, map[string]string{"a.txt": "a"})

			_, err := run(src, filepath.Join(work, "missing", "out"))
			Expect(err).To(MatchError(copyengine.ErrDestinationRoot))
		})

		It("reports nothing to copy for a tree without files", func() {
			src := filepath.Join(work, "src")
			Expect(os.MkdirAll(filepath.Join(src, "a", "b"), 0o755)).To(Succeed())

			out := filepath.Join(work, "out")
			Expect(os.Mkdir(out, 0o755)).To(Succeed())

			result, err := run(src, out)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.NothingToCopy).To(BeTrue())
			Expect(reporter.nothingToCopy).To(Equal(1))

			entries, err := os.ReadDir(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("overwrites files when re-run into an existing tree", func() {
			src := filepath.Join(work, "src")
			writeTree(src, map[string]string{"x.txt": "first"})

			out := filepath.Join(work, "out")
			Expect(os.Mkdir(out, 0o755)).To(Succeed())

			_, err := run(src, out)
			Expect(err).NotTo(HaveOccurred())

			writeTree(src, map[string]string{"x.txt": "second"})

			result, err := run(src, out)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Failures).To(BeZero())
			Expect(readTree(filepath.Join(out, "src"))).To(Equal(map[string]string{"x.txt": "second"}))
		})

		It("keeps copied within total on every render", func() {
			src := filepath.Join(work, "src")
			files := make(map[string]string)
			for i := range 25 {
				files[filepath.Join("d"+strings.Repeat("x", i%4), "f"+strings.Repeat("y", i))] = "data"
			}
			writeTree(src, files)

			out := filepath.Join(work, "out")
			Expect(os.Mkdir(out, 0o755)).To(Succeed())

			_, err := run(src, out)
			Expect(err).NotTo(HaveOccurred())
			Expect(reporter.renders).To(HaveLen(25))

			for _, r := range reporter.renders {
				Expect(r.copied).To(BeNumerically("<=", r.total))
			}

			Expect(reporter.done).To(Equal(1))
		})
	})

	Describe("file sources", func() {
		It("copies into an existing directory under the same name", func() {
			writeTree(work, map[string]string{"a.txt": "alpha"})
			Expect(os.Mkdir(filepath.Join(work, "d"), 0o755)).To(Succeed())

			_, err := run(filepath.Join(work, "a.txt"), filepath.Join(work, "d"))
			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(filepath.Join(work, "d", "a.txt"))).To(Equal([]byte("alpha")))
		})

		It("renames when the destination does not exist", func() {
			writeTree(work, map[string]string{"a.txt": "alpha"})

			_, err := run(filepath.Join(work, "a.txt"), filepath.Join(work, "b.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(os.ReadFile(filepath.Join(work, "b.txt"))).To(Equal([]byte("alpha")))
		})
	})

	Describe("symbolic links", func() {
		BeforeEach(func() {
			writeTree(work, map[string]string{"data/real.txt": "real", "src/plain.txt": "plain"})
			Expect(os.Symlink(filepath.Join(work, "data", "real.txt"), filepath.Join(work, "src", "link.txt"))).To(Succeed())
			Expect(os.Mkdir(filepath.Join(work, "out"), 0o755)).To(Succeed())
		})

		It("skips them by default", func() {
			result, err := run(filepath.Join(work, "src"), filepath.Join(work, "out"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Copied).To(Equal(uint64(1)))
			Expect(filepath.Join(work, "out", "src", "link.txt")).NotTo(BeAnExistingFile())
		})

		It("copies their targets when dereferencing", func() {
			rfs := filesystem.NewRealFileSystem()
			engine = copyengine.NewEngine(rfs, rfs, copyengine.Options{Dereference: true})

			result, err := run(filepath.Join(work, "src"), filepath.Join(work, "out"))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Copied).To(Equal(uint64(2)))
			Expect(os.ReadFile(filepath.Join(work, "out", "src", "link.txt"))).To(Equal([]byte("real")))
		})
	})
})

func TestEngineSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Copy Engine Suite")
}
