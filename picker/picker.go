// Package picker walks a directory tree one level at a time, asking a
// Prompter to choose among the subdirectories and matching files, until a
// file is chosen.
package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hayeah/evmpages/ignore"
)

// ErrCancelled is returned by a Prompter when the user backs out of the
// choice.
var ErrCancelled = errors.New("selection cancelled")

// Prompter asks the user to choose one of options and returns its index.
type Prompter interface {
	Select(ctx context.Context, title string, options []string) (int, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, title string, options []string) (int, error)

func (f PrompterFunc) Select(ctx context.Context, title string, options []string) (int, error) {
	return f(ctx, title, options)
}

// Outcome says how a Pick ended when it did not fail.
type Outcome int

const (
	Selected Outcome = iota
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the end state of a Pick. Path is set only when Outcome is
// Selected.
type Result struct {
	Outcome Outcome
	Path    string
}

type options struct {
	ignore *ignore.Ignore
	title  func(dir string) string
}

// Option configures Pick.
type Option func(*options)

// WithIgnore hides entries excluded by ig.
func WithIgnore(ig *ignore.Ignore) Option {
	return func(o *options) { o.ignore = ig }
}

// WithTitle sets the prompt title shown for each directory.
func WithTitle(title func(dir string) string) Option {
	return func(o *options) { o.title = title }
}

// Pick starts browsing at startDir and returns once a file with extension
// ext is chosen. Choosing a directory, including the parent entry, lists
// that directory next.
func Pick(ctx context.Context, startDir, ext string, p Prompter, opts ...Option) (Result, error) {
	o := options{
		title: func(dir string) string {
			return fmt.Sprintf("Select a .%s file (%s)", ext, dir)
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	dir := startDir
	for {
		if ctx.Err() != nil {
			return Result{Outcome: Cancelled}, nil
		}

		listing, err := BuildListing(dir, ext, o.ignore)
		if err != nil {
			return Result{}, err
		}

		entry, err := choose(ctx, p, o.title(listing.Dir), listing)
		if errors.Is(err, ErrCancelled) {
			return Result{Outcome: Cancelled}, nil
		}
		if err != nil {
			return Result{}, err
		}

		if !entry.IsDir {
			return Result{Outcome: Selected, Path: entry.Path}, nil
		}
		dir = entry.Path
	}
}

func choose(ctx context.Context, p Prompter, title string, l *Listing) (Entry, error) {
	if len(l.Entries) == 0 {
		return Entry{}, &PromptError{Dir: l.Dir, Err: ErrEmptyListing}
	}

	i, err := p.Select(ctx, title, l.Labels())
	if errors.Is(err, ErrCancelled) {
		return Entry{}, err
	}
	if err != nil {
		if ctx.Err() != nil {
			return Entry{}, ErrCancelled
		}
		return Entry{}, &PromptError{Dir: l.Dir, Err: err}
	}
	if i < 0 || i >= len(l.Entries) {
		return Entry{}, &PromptError{Dir: l.Dir, Err: fmt.Errorf("index %d out of range [0,%d)", i, len(l.Entries))}
	}

	return l.Entries[i], nil
}
