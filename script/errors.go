package script

import (
	"errors"
	"fmt"
)

// CompileError reports a malformed script. The wrapped parser error
// carries source position context when the interpreter provides it.
type CompileError struct {
	Tool string // tool name when known, may be empty
	Err  error
}

func (e *CompileError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("compile error in tool %s: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("compile error: %v", e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ExecErrorKind discriminates dispatch failures.
type ExecErrorKind int

const (
	// ErrKindNotFound: the name resolves to neither a merged script
	// function nor a native capability.
	ErrKindNotFound ExecErrorKind = iota
	// ErrKindRuntimeFault: the call resolved but execution failed.
	ErrKindRuntimeFault
)

// ExecError reports a failed tool dispatch. The kind is an explicit
// tag: callers branch on Kind (or IsNotFound), never on fault-message
// text.
type ExecError struct {
	Kind ExecErrorKind
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	switch e.Kind {
	case ErrKindNotFound:
		return fmt.Sprintf("tool not found: %s", e.Name)
	default:
		return fmt.Sprintf("error executing tool %s: %v", e.Name, e.Err)
	}
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a dispatch miss.
func IsNotFound(err error) bool {
	var execErr *ExecError
	return errors.As(err, &execErr) && execErr.Kind == ErrKindNotFound
}
