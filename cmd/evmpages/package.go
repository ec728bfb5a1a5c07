package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hayeah/evmpages/ignore"
	"github.com/hayeah/evmpages/picker"
)

type PackageCmd struct {
	Dir string `arg:"positional" help:"package directory (default: the directory of a picked page)"`
}

func (app *App) runPackage(ctx context.Context, dir string) error {
	if dir == "" {
		path, ok, err := app.pickFile(ctx, "Select a page in the package")
		if err != nil || !ok {
			return err
		}
		dir = filepath.Dir(path)
	}

	files, err := packageFiles(dir, app.Config.Extension, app.Ignore)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .%s files in %s", app.Config.Extension, dir)
	}

	pages, err := app.pages()
	if err != nil {
		return err
	}
	app.checkChain(ctx)

	var last string
	for i, file := range files {
		fmt.Fprintf(app.Out, "[%d/%d] %s\n", i+1, len(files), file)
		rec, err := app.publishPage(ctx, pages, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		last = rec.TxHash
	}

	fmt.Fprintf(app.Out, "Published %d pages from %s\n", len(files), dir)
	app.copyToClipboard(last)
	return nil
}

// packageFiles lists every file under dir with extension ext, sorted.
// Minified copies are left out. With ig set, the walk skips ignored files
// and directories.
func packageFiles(dir, ext string, ig *ignore.Ignore) ([]string, error) {
	var files []string
	keep := func(path, rel string) {
		if picker.Extension(rel) != ext || strings.HasSuffix(rel, ".min."+ext) || underGitDir(rel) {
			return
		}
		files = append(files, path)
	}

	if ig != nil {
		err := ig.WalkFiles(dir, func(path, rel string) error {
			keep(path, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
		}
	} else {
		matches, err := doublestar.Glob(os.DirFS(dir), "**/*")
		if err != nil {
			return nil, fmt.Errorf("failed to glob %s: %w", dir, err)
		}
		for _, m := range matches {
			path := filepath.Join(dir, filepath.FromSlash(m))
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				continue
			}
			keep(path, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

func underGitDir(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}
