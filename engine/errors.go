package engine

import "fmt"

// ValidationError covers malformed or missing input. Nothing is mutated
// when one is returned.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthorizationError is returned when the actor is neither an admin nor
// the assignee/initiator the operation requires.
type AuthorizationError struct {
	Message string
}

func (e AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized: %s", e.Message)
}

// StateError is returned when an operation is attempted against an entity
// whose lifecycle state forbids it.
type StateError struct {
	Message string
}

func (e StateError) Error() string {
	return fmt.Sprintf("invalid state: %s", e.Message)
}
