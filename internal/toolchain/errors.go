package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCollaborator is the kind of every *CollaboratorError.
var ErrCollaborator = errors.New("external tool failed")

// CollaboratorError reports an external command that could not be started
// or exited unsuccessfully.
type CollaboratorError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CollaboratorError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %q", ErrCollaborator, e.Command)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	} else {
		fmt.Fprintf(&b, " exited with code %d", e.ExitCode)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

// Unwrap exposes both ErrCollaborator and the underlying cause, so callers
// can test for context cancellation as well.
func (e *CollaboratorError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCollaborator}
	}
	return []error{ErrCollaborator, e.Err}
}
