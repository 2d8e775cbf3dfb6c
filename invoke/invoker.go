package invoke

import (
	"fmt"
	"reflect"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// MaxParams is the largest number of inputs either family accepts. Actions count the
// receiver of an instance method, funcs do not.
const MaxParams = 3

type Family int

const (
	// ActionFamily invokers produce no value.
	ActionFamily Family = iota + 1
	// FuncFamily invokers produce exactly one value.
	FuncFamily
)

func (f Family) String() string {
	switch f {
	case ActionFamily:
		return "action"
	case FuncFamily:
		return "func"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

var errorType = helper.TypeOf[error]()

// Invoker calls a bound method with boxed arguments.
type Invoker struct {
	call   func(args []any) (any, error)
	name   string
	in     []reflect.Type
	family Family
}

func (i *Invoker) Name() string {
	return i.name
}

func (i *Invoker) Family() Family {
	return i.family
}

// Arity is the number of arguments Invoke expects, receiver included.
func (i *Invoker) Arity() int {
	return len(i.in)
}

// In lists the expected argument types, receiver first for instance methods.
func (i *Invoker) In() []reflect.Type {
	return i.in
}

// Invoke calls the method. Instance methods take their receiver as the first argument.
// Actions return a nil result. A wrong argument count or type fails with
// errs.ErrArgumentMismatch before the method runs; an error returned by the method
// itself is passed through.
func (i *Invoker) Invoke(args ...any) (any, error) {
	if len(args) != len(i.in) {
		return nil, errs.ArgumentMismatch(i.name, nil, "expected %d arguments, got %d", len(i.in), len(args))
	}
	return i.call(args)
}

// NewAction builds an action invoker. m must return nothing, or only an error.
func NewAction(m Method) (*Invoker, error) {
	return build(m, ActionFamily)
}

// NewFunc builds a func invoker. m must return one value, optionally followed by an error.
func NewFunc(m Method) (*Invoker, error) {
	return build(m, FuncFamily)
}

// New picks the family from m's results.
func New(m Method) (*Invoker, error) {
	if !m.Func.IsValid() || m.Func.Kind() != reflect.Func {
		return nil, errs.NotSupported(nil, m.Name, "method has no function")
	}
	if values, _ := results(m.Type()); values == 0 {
		return NewAction(m)
	}
	return NewFunc(m)
}

// results counts the value results of ft, leaving out a trailing error.
func results(ft reflect.Type) (values int, returnsErr bool) {
	n := ft.NumOut()
	if n > 0 && ft.Out(n-1) == errorType {
		return n - 1, true
	}
	return n, false
}

func build(m Method, family Family) (*Invoker, error) {
	if !m.Func.IsValid() || m.Func.Kind() != reflect.Func {
		return nil, errs.NotSupported(nil, m.Name, "method has no function")
	}
	ft := m.Type()
	if ft.IsVariadic() {
		return nil, errs.NotSupported(ft, m.Name, "variadic parameters are not supported")
	}

	values, returnsErr := results(ft)
	switch {
	case family == ActionFamily && values != 0:
		return nil, errs.NotSupported(ft, m.Name, "action must not return a value")
	case family == FuncFamily && values == 0:
		return nil, errs.NotSupported(ft, m.Name, "func must return a value")
	case values > 1:
		return nil, errs.NotSupported(ft, m.Name, "extra results are output parameters and are not supported")
	}

	counted := ft.NumIn()
	if family == FuncFamily && !m.Static() {
		counted--
	}
	if counted > MaxParams {
		return nil, errs.NotSupported(ft, m.Name, "%s takes at most %d parameters, got %d", family, MaxParams, counted)
	}

	in := make([]reflect.Type, ft.NumIn())
	for i := range in {
		in[i] = ft.In(i)
	}
	return &Invoker{
		call:   reflectCall(m, in, values == 1, returnsErr),
		name:   m.Name,
		in:     in,
		family: family,
	}, nil
}

func reflectCall(m Method, in []reflect.Type, returnsValue, returnsErr bool) func([]any) (any, error) {
	fn, name := m.Func, m.Name
	interfaceReceiver := !m.Static() && m.Receiver.Kind() == reflect.Interface
	return func(args []any) (any, error) {
		values := make([]reflect.Value, len(args))
		for i, a := range args {
			v, err := helper.ValueFor(in[i], a)
			if err != nil {
				return nil, errs.ArgumentMismatch(name, err, "argument %d", i)
			}
			values[i] = v
		}
		if interfaceReceiver && values[0].IsNil() {
			return nil, errs.ArgumentMismatch(name, nil, "nil receiver")
		}

		out := fn.Call(values)

		var result any
		if returnsValue {
			result = out[0].Interface()
		}
		if returnsErr {
			if e := out[len(out)-1]; !e.IsNil() {
				return result, e.Interface().(error)
			}
		}
		return result, nil
	}
}
