package members

import (
	"context"
	"reflect"

	"go.uber.org/multierr"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/introspect"
	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// UntypedAccessor is Accessor for types only known at run time. A nil v accepts the
// member whatever its value type. The returned function fails with
// errs.ErrArgumentMismatch when obj is not a t.
func UntypedAccessor(ctx context.Context, t reflect.Type, name string, v reflect.Type) (func(obj any) (any, error), error) {
	fn, err := compiled(ctx, untypedAccessorFlavor, t, name, v, func(m introspect.Member) (any, string, error) {
		return untypedReader(t, m), pathReflect, nil
	})
	if err != nil {
		return nil, err
	}
	return fn.(func(any) (any, error)), nil
}

// UntypedModifier is Modifier for types only known at run time. A nil v accepts the
// member whatever its value type.
func UntypedModifier(ctx context.Context, t reflect.Type, name string, v reflect.Type) (func(obj, value any) error, error) {
	fn, err := compiled(ctx, untypedModifierFlavor, t, name, v, func(m introspect.Member) (any, string, error) {
		if !m.Writable() {
			return nil, "", readOnly(m)
		}
		return untypedWriter(t, m), pathReflect, nil
	})
	if err != nil {
		return nil, err
	}
	return fn.(func(any, any) error), nil
}

// Get reads name from obj, using obj's dynamic type as the declaring type.
func Get(ctx context.Context, obj any, name string) (any, error) {
	read, err := UntypedAccessor(ctx, reflect.TypeOf(obj), name, nil)
	if err != nil {
		return nil, err
	}
	return read(obj)
}

// Set writes value to name on obj, which usually has to be a pointer.
func Set(ctx context.Context, obj any, name string, value any) error {
	write, err := UntypedModifier(ctx, reflect.TypeOf(obj), name, nil)
	if err != nil {
		return err
	}
	return write(obj, value)
}

// Prepare resolves and caches untyped accessors for names on t, reporting every name
// that failed.
func Prepare(ctx context.Context, t reflect.Type, names ...string) error {
	var err error
	for _, name := range names {
		_, e := UntypedAccessor(ctx, t, name, nil)
		err = multierr.Append(err, e)
	}
	return err
}

func untypedReader(t reflect.Type, m introspect.Member) func(any) (any, error) {
	return func(obj any) (any, error) {
		rv, err := instance(t, m, obj)
		if err != nil {
			return nil, err
		}
		if m.Kind == introspect.Field {
			f, err := reflect.Indirect(rv).FieldByIndexErr(m.Index)
			if err != nil {
				return nil, errs.ArgumentMismatch(m.Name, err, "cannot reach field")
			}
			return f.Interface(), nil
		}
		return callMethod(rv, m.Getter)[0].Interface(), nil
	}
}

func untypedWriter(t reflect.Type, m introspect.Member) func(any, any) error {
	return func(obj, value any) error {
		rv, err := instance(t, m, obj)
		if err != nil {
			return err
		}
		val, err := helper.ValueFor(m.Type, value)
		if err != nil {
			return errs.ArgumentMismatch(m.Name, err, "cannot assign value")
		}
		if m.Kind == introspect.Field {
			f, err := rv.Elem().FieldByIndexErr(m.Index)
			if err != nil {
				return errs.ArgumentMismatch(m.Name, err, "cannot reach field")
			}
			f.Set(val)
			return nil
		}
		callMethod(rv, m.Setter, val)
		return nil
	}
}

// instance checks that obj can stand in for a t and returns it as a reflect.Value.
func instance(t reflect.Type, m introspect.Member, obj any) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	switch {
	case !rv.IsValid():
		return reflect.Value{}, errs.ArgumentMismatch(m.Name, nil, "nil instance, want %s", t)
	case t.Kind() == reflect.Interface && !rv.Type().Implements(t),
		t.Kind() != reflect.Interface && rv.Type() != t:
		return reflect.Value{}, errs.ArgumentMismatch(m.Name, nil, "instance is %s, want %s", rv.Type(), t)
	case m.Kind == introspect.Field && rv.Kind() == reflect.Pointer && rv.IsNil():
		return reflect.Value{}, errs.ArgumentMismatch(m.Name, nil, "nil instance, want %s", t)
	}
	return rv, nil
}

// callMethod calls method on rv. Interface types carry no method func, so their
// methods are looked up on the dynamic value.
func callMethod(rv reflect.Value, method reflect.Method, args ...reflect.Value) []reflect.Value {
	if method.Func.IsValid() {
		return method.Func.Call(append([]reflect.Value{rv}, args...))
	}
	return rv.MethodByName(method.Name).Call(args)
}
