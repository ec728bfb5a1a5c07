// Package htmlmin shrinks HTML pages, with their inline CSS and JavaScript,
// before they are stored as calldata.
package htmlmin

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const mediaType = "text/html"

// Minifier minifies HTML documents. The zero value is not usable; use New.
type Minifier struct {
	m *minify.M
}

// New returns a Minifier that drops comments and minifies embedded CSS and
// JavaScript. Document, head and end tags are kept so the page still renders
// the same when loaded from chain data on its own.
func New() *Minifier {
	m := minify.New()
	m.Add(mediaType, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return &Minifier{m: m}
}

// Bytes minifies a whole document.
func (mn *Minifier) Bytes(page []byte) ([]byte, error) {
	out, err := mn.m.Bytes(mediaType, page)
	if err != nil {
		return nil, fmt.Errorf("failed to minify html: %w", err)
	}
	return out, nil
}

// MinPath is the path the minified copy of path is written to:
// the same directory, with the extension replaced by ".min.html".
func MinPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(path), stem+".min.html")
}

// MinifyFile minifies the page at path, writes the result to MinPath(path)
// and returns it.
func (mn *Minifier) MinifyFile(path string) ([]byte, error) {
	page, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, err := mn.Bytes(page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := os.WriteFile(MinPath(path), out, 0644); err != nil {
		return nil, fmt.Errorf("failed to write minified page: %w", err)
	}
	return out, nil
}
