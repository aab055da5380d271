package registry

import "fmt"

// AlreadyRegisteredError indicates a builder name (or catalog builder
// name) was registered twice.
type AlreadyRegisteredError struct {
	Name string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("registry: %q is already registered", e.Name)
}

// UnknownCoordinatorError indicates a lookup for a name with no
// registered builder.
type UnknownCoordinatorError struct {
	Name string
}

func (e *UnknownCoordinatorError) Error() string {
	return fmt.Sprintf("registry: no coordinator builder registered for %q", e.Name)
}
