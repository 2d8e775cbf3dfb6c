package members

import (
	"context"
	"reflect"
	"unsafe"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/expr"
	"github.com/on-the-ground/compiled_reflect/introspect"
	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// Accessor returns a function reading the member name of T, whose value type must be V.
func Accessor[T, V any](ctx context.Context, name string) (func(T) V, error) {
	fn, err := compiled(ctx, accessorFlavor, helper.TypeOf[T](), name, helper.TypeOf[V](), buildAccessor[T, V])
	if err != nil {
		return nil, err
	}
	return fn.(func(T) V), nil
}

// Modifier returns a function writing the member name of T, whose value type must be V.
// Fields are only writable when T is a pointer to their struct, properties only when
// they have a setter.
func Modifier[T, V any](ctx context.Context, name string) (func(T, V), error) {
	fn, err := compiled(ctx, modifierFlavor, helper.TypeOf[T](), name, helper.TypeOf[V](), buildModifier[T, V])
	if err != nil {
		return nil, err
	}
	return fn.(func(T, V)), nil
}

// AccessorLambda returns the read of name as a mapping expression, ready to be chained
// with expr.ConcatMapping.
func AccessorLambda[T, V any](ctx context.Context, name string) (expr.Mapping[T, V], error) {
	fn, err := compiled(ctx, lambdaFlavor, helper.TypeOf[T](), name, helper.TypeOf[V](), func(m introspect.Member) (any, string, error) {
		mapping, err := expr.MappingOf[T, V](expr.Lambda1[T, V]("obj", func(p *expr.Parameter) expr.Expr {
			return &expr.Member{Object: p, Name: m.Name}
		}).Expr())
		return mapping, pathExpr, err
	})
	if err != nil {
		return expr.Mapping[T, V]{}, err
	}
	return fn.(expr.Mapping[T, V]), nil
}

func buildAccessor[T, V any](m introspect.Member) (any, string, error) {
	if m.Kind == introspect.Field {
		if m.Direct {
			return offsetReader[T, V](m), pathOffset, nil
		}
		index := m.Index
		return func(obj T) V {
			var out V
			reflect.ValueOf(&out).Elem().Set(reflect.Indirect(reflect.ValueOf(&obj).Elem()).FieldByIndex(index))
			return out
		}, pathReflect, nil
	}

	if m.Getter.Func.IsValid() {
		if fn, ok := m.Getter.Func.Interface().(func(T) V); ok {
			return fn, pathMethod, nil
		}
	}
	index := m.Getter.Index
	return func(obj T) V {
		var out V
		reflect.ValueOf(&out).Elem().Set(reflect.ValueOf(&obj).Elem().Method(index).Call(nil)[0])
		return out
	}, pathReflect, nil
}

func buildModifier[T, V any](m introspect.Member) (any, string, error) {
	if !m.Writable() {
		return nil, "", readOnly(m)
	}

	if m.Kind == introspect.Field {
		if m.Direct {
			return offsetWriter[T, V](m), pathOffset, nil
		}
		index := m.Index
		return func(obj T, value V) {
			reflect.ValueOf(&obj).Elem().Elem().FieldByIndex(index).Set(reflect.ValueOf(&value).Elem())
		}, pathReflect, nil
	}

	if m.Setter.Func.IsValid() {
		if fn, ok := m.Setter.Func.Interface().(func(T, V)); ok {
			return fn, pathMethod, nil
		}
	}
	index := m.Setter.Index
	return func(obj T, value V) {
		reflect.ValueOf(&obj).Elem().Method(index).Call([]reflect.Value{reflect.ValueOf(&value).Elem()})
	}, pathReflect, nil
}

// offsetReader reads a field of exact type V at a fixed offset from the start of its
// struct, which is either T itself or the struct T points to.
func offsetReader[T, V any](m introspect.Member) func(T) V {
	off := m.Offset
	if !m.ViaPointer {
		return func(obj T) V {
			return *(*V)(unsafe.Add(unsafe.Pointer(&obj), off))
		}
	}
	name := m.Name
	return func(obj T) V {
		return *(*V)(unsafe.Add(structPointer(&obj, name), off))
	}
}

func offsetWriter[T, V any](m introspect.Member) func(T, V) {
	off, name := m.Offset, m.Name
	return func(obj T, value V) {
		*(*V)(unsafe.Add(structPointer(&obj, name), off)) = value
	}
}

// structPointer loads the pointer held by *obj. T must be a pointer type.
func structPointer[T any](obj *T, name string) unsafe.Pointer {
	base := *(*unsafe.Pointer)(unsafe.Pointer(obj))
	if base == nil {
		panic(errs.ArgumentMismatch(name, nil, "nil %s", helper.TypeOf[T]()))
	}
	return base
}
