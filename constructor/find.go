package constructor

import (
	"context"
	"reflect"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// Func is a resolved constructor called with boxed arguments.
type Func struct {
	fn     reflect.Value
	params []reflect.Type
	result reflect.Type
}

// Find is the untyped entry point, for signatures only known at run time. It shares the
// cache entries of Of0 through Of4.
func Find(ctx context.Context, result reflect.Type, params ...reflect.Type) (*Func, error) {
	fn, err := find(ctx, params, result)
	if err != nil {
		return nil, err
	}
	return &Func{fn: reflect.ValueOf(fn), params: params, result: result}, nil
}

func (f *Func) Result() reflect.Type {
	return f.result
}

func (f *Func) Params() []reflect.Type {
	return f.params
}

func (f *Func) Signature() string {
	return errs.Signature(f.params, f.result)
}

// New calls the constructor. Arguments must match the parameters in count and type.
func (f *Func) New(args ...any) (any, error) {
	if len(args) != len(f.params) {
		return nil, errs.ArgumentMismatch(f.Signature(), nil, "expected %d arguments, got %d", len(f.params), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := helper.ValueFor(f.params[i], a)
		if err != nil {
			return nil, errs.ArgumentMismatch(f.Signature(), err, "argument %d", i)
		}
		in[i] = v
	}
	return f.fn.Call(in)[0].Interface(), nil
}
