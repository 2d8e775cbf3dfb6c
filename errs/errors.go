// Package errs defines the error taxonomy shared by every resolver, cache and invoker.
//
// Every failure produced by the library is an *Error. Callers match on the kind with
// errors.Is against the exported sentinels:
//
//	if errors.Is(err, errs.ErrMissingMember) { ... }
package errs

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind categorizes the error.
type Kind string

const (
	KindMissingMember       Kind = "missing_member"
	KindNotSupported        Kind = "not_supported"
	KindConstructorNotFound Kind = "constructor_not_found"
	KindArgumentMismatch    Kind = "argument_mismatch"
)

var (
	// ErrMissingMember is returned when a field or property does not exist on a type,
	// or exists with a different value type than requested.
	ErrMissingMember = &Error{Kind: KindMissingMember}

	// ErrNotSupported is returned when a method, constructor or expression falls outside
	// the supported shapes.
	ErrNotSupported = &Error{Kind: KindNotSupported}

	// ErrConstructorNotFound is returned when no registered constructor matches a signature.
	ErrConstructorNotFound = &Error{Kind: KindConstructorNotFound}

	// ErrArgumentMismatch is returned when an invoker receives arguments of the wrong
	// count or type.
	ErrArgumentMismatch = &Error{Kind: KindArgumentMismatch}
)

type Error struct {
	Cause  error
	Type   reflect.Type
	Kind   Kind
	Member string
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))

	if e.Type != nil {
		b.WriteString(" on ")
		b.WriteString(e.Type.String())
	}
	if e.Member != "" {
		if e.Type != nil {
			b.WriteByte('.')
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(e.Member)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// MissingMember reports a name that is absent on t, or present with another value type.
func MissingMember(t reflect.Type, name string, format string, args ...any) *Error {
	return &Error{
		Kind:   KindMissingMember,
		Type:   t,
		Member: name,
		Detail: fmt.Sprintf(format, args...),
	}
}

func NotSupported(t reflect.Type, name string, format string, args ...any) *Error {
	return &Error{
		Kind:   KindNotSupported,
		Type:   t,
		Member: name,
		Detail: fmt.Sprintf(format, args...),
	}
}

func ConstructorNotFound(result reflect.Type, signature string) *Error {
	return &Error{
		Kind:   KindConstructorNotFound,
		Type:   result,
		Detail: "no constructor matches " + signature,
	}
}

func ArgumentMismatch(name string, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:   KindArgumentMismatch,
		Member: name,
		Detail: fmt.Sprintf(format, args...),
		Cause:  cause,
	}
}

// Signature renders an ordered parameter list and result the way errors and logs show it.
func Signature(params []reflect.Type, result reflect.Type) string {
	var b strings.Builder
	b.WriteString("func(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeName(p))
	}
	b.WriteString(") ")
	b.WriteString(typeName(result))
	return b.String()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
