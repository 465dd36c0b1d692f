package internal

import (
	"bytes"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGofmtClean walks the source tree and fails on any Go file whose
// contents differ from its gofmt output. Run `gofmt -w .` to fix.
func TestGofmtClean(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	// The test runs from internal/; the module root is one level up,
	// unless the test binary was invoked from the root itself.
	root := filepath.Dir(wd)
	if filepath.Base(wd) != "internal" {
		root = wd
	}

	var dirty []string
	err = filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		formatted, err := format.Source(src)
		if err != nil {
			// Unparseable files are someone else's problem; the
			// compiler reports them with a better message.
			return nil
		}
		if !bytes.Equal(src, formatted) {
			rel, _ := filepath.Rel(root, path)
			dirty = append(dirty, rel)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	for _, f := range dirty {
		t.Errorf("%s is not gofmt-formatted", f)
	}
	if len(dirty) > 0 {
		t.Log("run `gofmt -w .` from the module root")
	}
}
