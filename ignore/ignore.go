package ignore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Ignore answers whether a path under a site root is excluded by the
// .gitignore files found beneath that root.
type Ignore struct {
	matcher  gitignore.Matcher
	rootPath string
}

// NewIgnore reads every .gitignore under rootPath.
func NewIgnore(rootPath string) (*Ignore, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(abs), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Ignore{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: abs,
	}, nil
}

// IsIgnored reports whether path is excluded. Paths outside the root are
// never ignored, and neither is the root itself. The .git directory always is.
func (ig *Ignore) IsIgnored(path string, isDir bool) bool {
	if isDir && filepath.Base(path) == ".git" {
		return true
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(ig.rootPath, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}

	return ig.matcher.Match(strings.Split(rel, string(os.PathSeparator)), isDir)
}

// WalkFiles calls fn for every regular file under root that is not ignored,
// skipping ignored directories entirely. rel is relative to root and uses
// forward slashes.
func (ig *Ignore) WalkFiles(root string, fn func(path, rel string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ig.IsIgnored(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return fn(path, filepath.ToSlash(rel))
	})
}
