package interview

import "fmt"

// InputError reports invalid caller input. Orchestrators return it instead
// of panicking and never call the AI provider when they do.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
