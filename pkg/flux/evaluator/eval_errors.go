// eval_errors.go - Error creation helpers for the Flux evaluator
//
// All helpers return *Error objects that can be used directly as evaluation
// results; evalProgram and evalBlockStatement stop at the first one.

package evaluator

import (
	"fmt"

	ferrors "github.com/fluxlang/flux/pkg/flux/errors"
	"github.com/fluxlang/flux/pkg/flux/lexer"
)

// newError creates an error with a class but no position information.
func newError(class ferrors.ErrorClass, format string, a ...any) *Error {
	return &Error{
		Class:   class,
		Message: fmt.Sprintf(format, a...),
	}
}

// newErrorWithPos creates an error carrying the position of the given token.
func newErrorWithPos(class ferrors.ErrorClass, tok lexer.Token, format string, a ...any) *Error {
	return &Error{
		Class:   class,
		Message: fmt.Sprintf(format, a...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// newArityError reports a builtin called with the wrong number of arguments.
func newArityError(name string, got, want int) *Error {
	return newError(ferrors.ClassType, "wrong number of arguments to %s: expected %d, got %d", name, want, got)
}

// newArgTypeError reports a builtin called with the wrong kind of argument.
func newArgTypeError(name, want string, got Object) *Error {
	return newError(ferrors.ClassType, "argument to %s must be %s, got %s", name, want, got.Type())
}
