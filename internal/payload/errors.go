package payload

import "fmt"

// ResolveError reports an array file that could not be loaded while
// marshalling. Err is the loader's error.
type ResolveError struct {
	Field string
	Path  string
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s %q: %v", e.Field, e.Path, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
