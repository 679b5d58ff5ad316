package rulefile

import "fmt"

// UnknownTypeError reports a type name the universe does not declare.
type UnknownTypeError struct {
	Block string // e.g. `rule "repositories"`
	Attr  string
	Name  string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("rulefile: %s: %s = %q names no known type", e.Block, e.Attr, e.Name)
}

// BlockError reports an invalid block. Err is a *validation.Errors for
// field-level failures.
type BlockError struct {
	Block string
	Err   error
}

func (e *BlockError) Error() string { return fmt.Sprintf("rulefile: %s: %v", e.Block, e.Err) }
func (e *BlockError) Unwrap() error { return e.Err }
