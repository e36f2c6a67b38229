
package checks

import "fmt"

// AssertionError is a failed expectation, reported as expected vs actual.
type AssertionError struct {
	What     string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v", e.What, quote(e.Expected), quote(e.Actual))
}

func quote(v any) any {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return v
}

func expectEqual[T comparable](what string, want, got T) error {
	if want != got {
		return &AssertionError{What: what, Expected: want, Actual: got}
	}
	return nil
}

func expectNotEqual[T comparable](what string, unwanted, got T) error {
	if unwanted == got {
		return &AssertionError{What: what, Expected: fmt.Sprintf("anything but %v", quote(unwanted)), Actual: got}
	}
	return nil
}
