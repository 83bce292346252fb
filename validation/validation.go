package validation

import "strings"

// Result holds the outcome of validating a single raw value: either a
// parsed/normalized value or a list of human-readable errors. The zero
// value is a valid result wrapping the zero value of T.
type Result[T any] struct {
	value   T
	errs    []string
	invalid bool
}

func Valid[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Invalid[T any](errs ...string) Result[T] {
	return Result[T]{errs: errs, invalid: true}
}

func (r Result[T]) Valid() bool {
	return !r.invalid
}

// Value returns the validated value, or fallback if the result is invalid.
func (r Result[T]) Value(fallback T) T {
	if r.invalid {
		return fallback
	}
	return r.value
}

// Errors returns the error list, or nil if the result is valid.
func (r Result[T]) Errors() []string {
	if !r.invalid {
		return nil
	}
	return r.errs
}

// Validated is satisfied by every Result regardless of its value type.
type Validated interface {
	Valid() bool
}

// AllValid reports whether every result is valid.
func AllValid(results ...Validated) bool {
	for _, r := range results {
		if !r.Valid() {
			return false
		}
	}
	return true
}

// Optional treats blank input as a valid absent value rather than invoking
// the wrapped validator.
func Optional[T any](validate func(string) Result[T], raw string) Result[*T] {
	if strings.TrimSpace(raw) == "" {
		return Valid[*T](nil)
	}
	r := validate(raw)
	if !r.Valid() {
		return Invalid[*T](r.Errors()...)
	}
	v := r.value
	return Valid(&v)
}

// FieldErrors aggregates errors per field for composite objects. A nil or
// empty map means the composite value is valid.
type FieldErrors map[string][]string

func (fe FieldErrors) Any() bool {
	for _, errs := range fe {
		if len(errs) > 0 {
			return true
		}
	}
	return false
}

// Add appends errors to a field, ignoring empty lists so that valid fields
// do not show up as keys.
func (fe FieldErrors) Add(field string, errs ...string) {
	if len(errs) == 0 {
		return
	}
	fe[field] = append(fe[field], errs...)
}

// Merge folds the errors of another FieldErrors into this one under a
// prefixed field name, e.g. "profile.firstName".
func (fe FieldErrors) Merge(prefix string, other FieldErrors) {
	for field, errs := range other {
		fe.Add(prefix+"."+field, errs...)
	}
}
