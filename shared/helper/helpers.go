package helper

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrUnexpectedType = errors.New("unexpected type")

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// As safely asserts v to T. An untyped nil converts to the zero value of any
// nillable T (pointer, interface, map, slice, func, chan).
func As[T any](v any) (T, error) {
	var zero T

	if v == nil {
		if Nillable(TypeOf[T]()) {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: <nil>, want %s", ErrUnexpectedType, TypeOf[T]())
	}

	val, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T, want %s", ErrUnexpectedType, v, TypeOf[T]())
	}
	return val, nil
}

// MustAs is the panic-on-failure variant of As.
func MustAs[T any](v any) T {
	res, err := As[T](v)
	if err != nil {
		panic(err)
	}
	return res
}

// Nillable reports whether values of t may be nil.
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// ValueFor converts a boxed argument into a reflect.Value of type t, mapping an
// untyped nil to the zero value of a nillable t.
func ValueFor(t reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		if Nillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: <nil>, want %s", ErrUnexpectedType, t)
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %T, want %s", ErrUnexpectedType, v, t)
	}
	return rv, nil
}
