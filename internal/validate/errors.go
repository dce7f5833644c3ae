// Package validate checks admin form input before it is sent to the API.
package validate

import (
	"sort"
	"strings"
)

// Errors maps a form field to its problem.
type Errors map[string]string

func (e Errors) Error() string {
	return e.UserMessage()
}

// UserMessage lists the problems ordered by field name.
func (e Errors) UserMessage() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

func (e Errors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
