package cleaner

import (
	"errors"
	"fmt"
)

// ErrProcessingFailed matches, via errors.Is, any StageError except one
// caused by a missing header.
var ErrProcessingFailed = errors.New("processing failed")

// MissingHeaderError reports a required header name absent from row 1.
type MissingHeaderError struct {
	Header string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("required header not found: %q", e.Header)
}

// InvalidSuffixError reports a suffix that is not exactly SuffixLength characters.
type InvalidSuffixError struct {
	Suffix string
}

func (e *InvalidSuffixError) Error() string {
	return fmt.Sprintf("suffix %q must be exactly %d characters", e.Suffix, SuffixLength)
}

// StageError wraps a failure inside one pipeline stage. Mutations made by
// stages that completed before it are not rolled back.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	if e.missingHeader() {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%v during %s: %v", ErrProcessingFailed, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrProcessingFailed) match. A missing header is
// its own kind and does not match.
func (e *StageError) Is(target error) bool {
	return target == ErrProcessingFailed && !e.missingHeader()
}

func (e *StageError) missingHeader() bool {
	var missing *MissingHeaderError
	return errors.As(e.Err, &missing)
}

// CancelledError is returned when the context is done at a stage boundary.
// Completed is the last stage that finished; its mutations remain in the table.
type CancelledError struct {
	Completed Stage
	Err       error
}

func (e *CancelledError) Error() string {
	if e.Completed == StageNone {
		return fmt.Sprintf("cancelled before any stage ran: %v", e.Err)
	}
	return fmt.Sprintf("cancelled after %s: %v", e.Completed, e.Err)
}

func (e *CancelledError) Unwrap() error { return e.Err }
