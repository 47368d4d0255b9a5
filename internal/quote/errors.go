package quote

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"yacht_automate/internal/domain"
)

// InputError lists the fields that violate the calculator's preconditions.
type InputError struct {
	fields map[string]string
}

func newInputError() *InputError {
	return &InputError{fields: make(map[string]string)}
}

func (e *InputError) add(field, msg string) { e.fields[field] = msg }

func (e *InputError) empty() bool { return len(e.fields) == 0 }

func (e *InputError) Fields() map[string]string { return e.fields }

func (e *InputError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %s", k, e.fields[k])
	}
	return "quote: " + strings.Join(parts, "; ")
}

func (e *InputError) Unwrap() error { return domain.ErrInvalidInput }

// AsInputError returns the *InputError inside err, or nil.
func AsInputError(err error) *InputError {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie
	}
	return nil
}
