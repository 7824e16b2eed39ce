package ledger

import (
	"fmt"
	"strings"
)

// ValidationError reports every defect found in a request body at once so
// callers can surface the full list in a single response.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// NotFoundError covers both an unknown record identifier and a missing
// expected column in the live table schema; the two are distinguished only
// by message, matching how the sheet reports them.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ConservationError rejects a split whose line amounts exceed the parent
// amount beyond the accepted tolerance.
type ConservationError struct {
	SplitTotal   float64
	ParentAmount float64
}

func (e *ConservationError) Error() string {
	return fmt.Sprintf("Split total (%s) exceeds parent Amount (%s).",
		FormatAmount(e.SplitTotal), FormatAmount(e.ParentAmount))
}

// UpstreamError wraps a failure from the tabular store or the identity
// provider. It is not retried here; a failure after a partial commit leaves
// the store inconsistent and the caller decides whether to retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(op string, err error) error {
	return &UpstreamError{Op: op, Err: err}
}
