package actions

import "context"

// Answers is a Dialog whose answers were collected up front, e.g. from the
// body of an HTTP request. Every confirmation is accepted.
type Answers struct {
	Reason string
}

func (a Answers) Confirm(context.Context, string, string) (bool, error) {
	return true, nil
}

func (a Answers) Prompt(context.Context, string, string) (string, error) {
	return a.Reason, nil
}
