package resolver

import (
	"fmt"
	"strings"
)

// ExhaustedError is returned when every attempted version failed
type ExhaustedError struct {
	// Attempted lists versions in the order they were tried
	Attempted []string
	// Last is the failure of the final attempt
	Last error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("unable to install doctl, attempted versions: %s", strings.Join(e.Attempted, ", "))
}

// Unwrap returns the failure of the final attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
