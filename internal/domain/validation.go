package domain

import (
	"fmt"
	"strings"
)

// ValidationError marks one rejected field of a chore configuration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors aggregates every incompatibility found at chore-build
// time, so callers see the whole matrix result at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return "invalid chore configuration: " + strings.Join(parts, "; ")
}

// Has checks whether any error was recorded for the field.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}
