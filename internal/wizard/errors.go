package wizard

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrWrongStep      = errors.New("operation not allowed at this step")
	ErrNoPrevious     = errors.New("already at the first step")
	ErrNotSubmitted   = errors.New("wizard can only be reset after submission")
	ErrSubmitted      = errors.New("booking already submitted")
	ErrSubmitting     = errors.New("submission already in progress")
	ErrCarUnavailable = errors.New("car is not available")
	ErrNoCustomer     = errors.New("a signed-in customer is required")
	ErrNoQuote        = errors.New("rental total could not be computed")
)

// ValidationError carries the per-field messages of a step that did not pass.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Details() map[string]string { return e.Fields }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
