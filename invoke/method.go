// Package invoke wraps methods and functions of up to three parameters behind one
// uniformly shaped Invoker that is called with boxed arguments.
//
// Invokers come in two families. Actions produce no value; funcs produce exactly one.
// Either may also return a trailing error, which Invoke passes through. For actions the
// receiver of an instance method counts toward the three inputs, for funcs it does not.
//
// Invokers are not cached: build one per method and keep it.
package invoke

import (
	"reflect"

	"github.com/on-the-ground/compiled_reflect/errs"
)

// Method describes a callable. Instance methods carry their Receiver, which becomes the
// first input of Func; static functions have a nil Receiver.
type Method struct {
	Receiver reflect.Type
	Func     reflect.Value
	Name     string
}

func (m Method) Static() bool {
	return m.Receiver == nil
}

// Type is the type of Func, receiver included.
func (m Method) Type() reflect.Type {
	return m.Func.Type()
}

// MethodOf describes the exported method name of t.
func MethodOf(t reflect.Type, name string) (Method, error) {
	if t == nil {
		return Method{}, errs.MissingMember(nil, name, "no receiver type")
	}
	m, ok := t.MethodByName(name)
	if !ok || !m.IsExported() {
		return Method{}, errs.MissingMember(t, name, "no public method")
	}
	if t.Kind() != reflect.Interface {
		return Method{Receiver: t, Func: m.Func, Name: name}, nil
	}
	return Method{Receiver: t, Func: interfaceMethod(t, m), Name: name}, nil
}

// StaticOf describes a plain function.
func StaticOf(name string, fn any) (Method, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Method{}, errs.NotSupported(reflect.TypeOf(fn), name, "static target must be a non-nil function")
	}
	return Method{Func: v, Name: name}, nil
}

// interfaceMethod turns the method of an interface type into a function taking the
// interface value first, like the method expressions of concrete types.
func interfaceMethod(t reflect.Type, m reflect.Method) reflect.Value {
	in := make([]reflect.Type, 0, m.Type.NumIn()+1)
	in = append(in, t)
	for i := range m.Type.NumIn() {
		in = append(in, m.Type.In(i))
	}
	out := make([]reflect.Type, m.Type.NumOut())
	for i := range out {
		out[i] = m.Type.Out(i)
	}
	ft := reflect.FuncOf(in, out, m.Type.IsVariadic())
	index := m.Index
	return reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		return args[0].Method(index).Call(args[1:])
	})
}
