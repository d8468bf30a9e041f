package errors

import (
	"strings"
)

// Errors represents a list of errors; any non-nil Errors value represents a non-empty list of errors.
// This invariant is maintained so that the client may simply compare an Errors value with nil to check for the absence of errors.
type Errors interface {
	error
	// Slice returns a (non-empty) copy of the underlying (non-nil) errors.
	Slice() []error
	// Len is always > 0.
	Len() int

	sliceNoCopy() []error
	append(e error) Errors
}

type errorSlice []error

func (m errorSlice) append(e error) Errors {
	return append(m, e)
}

func (m errorSlice) sliceNoCopy() []error {
	return m
}

func (m errorSlice) Slice() []error {
	return append([]error(nil), m...)
}

func (m errorSlice) Len() int {
	return len(m)
}

func (m errorSlice) Error() string {
	parts := make([]string, 0, len(m))
	for _, err := range m {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "\n")
}

// Append appends the given (possibly nil) error to the given (possibly nil) Errors.
// If the error is nil, it returns the given Errors unchanged. Appending an Errors
// flattens it.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	if errs == nil {
		errs = errorSlice(nil)
	}
	if multi, ok := err.(Errors); ok && multi != nil {
		for _, e := range multi.sliceNoCopy() {
			errs = errs.append(e)
		}
		return errs
	}
	return errs.append(err)
}

// Combine combines errors e & f into a single error
func Combine(e, f error) error {
	switch e := e.(type) {
	case nil:
		return f
	case Errors:
		// copy e to avoid mutating the backing array
		return Append(errorSlice(e.Slice()), f)
	default:
		if f == nil {
			return e
		}
		return Append(errorSlice{e}, f)
	}
}

// First returns the first error in err if it is an Errors, and err itself otherwise.
func First(err error) error {
	if multi, ok := err.(Errors); ok && multi != nil {
		return multi.sliceNoCopy()[0]
	}
	return err
}
