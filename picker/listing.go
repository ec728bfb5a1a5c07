package picker

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hayeah/evmpages/ignore"
)

// UpLabel is the label of the entry that moves to the parent directory.
const UpLabel = ".."

// Entry is one selectable line of a Listing.
type Entry struct {
	Label string
	Path  string
	IsDir bool
	Up    bool // the parent-directory entry
}

// Listing holds the entries built for a single directory. When the
// directory has a parent, Entries[0] is the Up entry.
type Listing struct {
	Dir     string
	Entries []Entry
}

// Labels returns the entry labels in listing order.
func (l *Listing) Labels() []string {
	labels := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		labels[i] = e.Label
	}
	return labels
}

// Children returns the entries without the Up entry.
func (l *Listing) Children() []Entry {
	if len(l.Entries) > 0 && l.Entries[0].Up {
		return l.Entries[1:]
	}
	return l.Entries
}

// BuildListing reads dir and returns its entries: the parent entry first,
// then every subdirectory and every file whose extension is ext. A relative
// dir is made absolute first, so only the filesystem root lacks a parent.
func BuildListing(dir, ext string, ig *ignore.Ignore) (*Listing, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &IOError{Dir: dir, Err: err}
	}
	dir = abs

	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Dir: dir, Err: err}
	}

	l := &Listing{Dir: dir}

	if parent := filepath.Dir(dir); parent != dir && utf8.ValidString(parent) {
		l.Entries = append(l.Entries, Entry{
			Label: UpLabel,
			Path:  parent,
			IsDir: true,
			Up:    true,
		})
	}

	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		if !utf8.ValidString(path) {
			continue
		}

		// follow symlinks so a linked directory can be entered; a dangling
		// link counts as a file
		isDir := child.IsDir()
		if info, err := os.Stat(path); err == nil {
			isDir = info.IsDir()
		}

		if !isDir && Extension(child.Name()) != ext {
			continue
		}
		if ig != nil && ig.IsIgnored(path, isDir) {
			continue
		}

		l.Entries = append(l.Entries, Entry{
			Label: path,
			Path:  path,
			IsDir: isDir,
		})
	}

	return l, nil
}

// Extension returns the part of name after its last dot, without the dot.
// A dot that only starts the name does not begin an extension, so
// ".html" has none.
func Extension(name string) string {
	base := strings.TrimPrefix(filepath.Base(name), ".")
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return base[i+1:]
}
