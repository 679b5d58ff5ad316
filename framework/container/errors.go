package container

import "fmt"

// RejectedError is returned by Register when a binding cannot be stored.
type RejectedError struct {
	Contract string
	Concrete string
	Reason   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("container: rejected binding [%s] -> [%s]: %s", e.Contract, e.Concrete, e.Reason)
}

// BindingNotFoundError is returned by MakeE for an unbound abstract.
type BindingNotFoundError struct {
	Abstract string
}

func (e *BindingNotFoundError) Error() string {
	return fmt.Sprintf("container: no binding registered for [%s]", e.Abstract)
}
