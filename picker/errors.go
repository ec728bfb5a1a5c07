package picker

import (
	"errors"
	"fmt"
)

// ErrEmptyListing is reported through a PromptError when a directory has
// nothing to choose from.
var ErrEmptyListing = errors.New("nothing to select")

// IOError reports a directory that could not be read.
type IOError struct {
	Dir string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to read directory %s: %v", e.Dir, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// PromptError reports that no choice could be obtained for a directory.
type PromptError struct {
	Dir string
	Err error
}

func (e *PromptError) Error() string {
	return fmt.Sprintf("failed to select an entry in %s: %v", e.Dir, e.Err)
}

func (e *PromptError) Unwrap() error { return e.Err }
