package assert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// Tree creates the given paths under a fresh temporary directory and returns
// the directory. A path ending in "/" becomes an empty directory; any other
// path becomes a file whose content is the path itself.
func (a *Assert) Tree(paths ...string) string {
	a.T.Helper()
	root := a.T.TempDir()

	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0755); err != nil {
				a.T.Fatalf("failed to create directory %s: %v", full, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			a.T.Fatalf("failed to create directory for %s: %v", full, err)
		}
		if err := os.WriteFile(full, []byte(p), 0644); err != nil {
			a.T.Fatalf("failed to write %s: %v", full, err)
		}
	}

	return root
}

// WriteFile writes content to path, creating parent directories.
func (a *Assert) WriteFile(path, content string) {
	a.T.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		a.T.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		a.T.Fatalf("failed to write %s: %v", path, err)
	}
}

// FileContent returns the content of path, failing the test if it cannot be read.
func (a *Assert) FileContent(path string) string {
	a.T.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		a.T.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}
