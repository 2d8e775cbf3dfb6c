package invoke

import (
	"reflect"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// Action0 through Func3 wrap functions whose shape is known at compile time. They skip
// reflection entirely: arguments are unboxed with type assertions.

func Action0(name string, fn func()) *Invoker {
	return typed(name, ActionFamily, func(args []any) (any, error) {
		fn()
		return nil, nil
	})
}

func Action1[I1 any](name string, fn func(I1)) *Invoker {
	return typed(name, ActionFamily, func(args []any) (any, error) {
		i1, err := arg[I1](name, args, 0)
		if err != nil {
			return nil, err
		}
		fn(i1)
		return nil, nil
	}, helper.TypeOf[I1]())
}

func Action2[I1, I2 any](name string, fn func(I1, I2)) *Invoker {
	return typed(name, ActionFamily, func(args []any) (any, error) {
		i1, err := arg[I1](name, args, 0)
		if err != nil {
			return nil, err
		}
		i2, err := arg[I2](name, args, 1)
		if err != nil {
			return nil, err
		}
		fn(i1, i2)
		return nil, nil
	}, helper.TypeOf[I1](), helper.TypeOf[I2]())
}

func Action3[I1, I2, I3 any](name string, fn func(I1, I2, I3)) *Invoker {
	return typed(name, ActionFamily, func(args []any) (any, error) {
		i1, err := arg[I1](name, args, 0)
		if err != nil {
			return nil, err
		}
		i2, err := arg[I2](name, args, 1)
		if err != nil {
			return nil, err
		}
		i3, err := arg[I3](name, args, 2)
		if err != nil {
			return nil, err
		}
		fn(i1, i2, i3)
		return nil, nil
	}, helper.TypeOf[I1](), helper.TypeOf[I2](), helper.TypeOf[I3]())
}

func Func0[O any](name string, fn func() O) *Invoker {
	return typed(name, FuncFamily, func(args []any) (any, error) {
		return fn(), nil
	})
}

func Func1[I1, O any](name string, fn func(I1) O) *Invoker {
	return typed(name, FuncFamily, func(args []any) (any, error) {
		i1, err := arg[I1](name, args, 0)
		if err != nil {
			return nil, err
		}
		return fn(i1), nil
	}, helper.TypeOf[I1]())
}

func Func2[I1, I2, O any](name string, fn func(I1, I2) O) *Invoker {
	return typed(name, FuncFamily, func(args []any) (any, error) {
		i1, err := arg[I1](name, args, 0)
		if err != nil {
			return nil, err
		}
		i2, err := arg[I2](name, args, 1)
		if err != nil {
			return nil, err
		}
		return fn(i1, i2), nil
	}, helper.TypeOf[I1](), helper.TypeOf[I2]())
}

func Func3[I1, I2, I3, O any](name string, fn func(I1, I2, I3) O) *Invoker {
	return typed(name, FuncFamily, func(args []any) (any, error) {
		i1, err := arg[I1](name, args, 0)
		if err != nil {
			return nil, err
		}
		i2, err := arg[I2](name, args, 1)
		if err != nil {
			return nil, err
		}
		i3, err := arg[I3](name, args, 2)
		if err != nil {
			return nil, err
		}
		return fn(i1, i2, i3), nil
	}, helper.TypeOf[I1](), helper.TypeOf[I2](), helper.TypeOf[I3]())
}

func typed(name string, family Family, call func([]any) (any, error), in ...reflect.Type) *Invoker {
	return &Invoker{call: call, name: name, in: in, family: family}
}

func arg[T any](name string, args []any, i int) (T, error) {
	v, err := helper.As[T](args[i])
	if err != nil {
		return v, errs.ArgumentMismatch(name, err, "argument %d", i)
	}
	return v, nil
}
