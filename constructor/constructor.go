// Package constructor resolves registered constructor functions by exact signature and
// caches them as natively typed functions.
//
// Constructors are plain functions registered in an introspect.Table. A request names
// the parameter types in order and the result type; the first registered function with
// exactly that signature wins, and the resolved function is memoized in the registry
// under (arity, parameter types..., result type).
//
//	newPage, err := constructor.Of4[int64, int, string, *Book, *Page](ctx)
package constructor

import (
	"context"
	"reflect"

	"go.uber.org/zap"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/internal/cache"
	"github.com/on-the-ground/compiled_reflect/registry"
	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// MaxParams is the largest constructor arity that can be requested.
const MaxParams = 4

func Of0[R any](ctx context.Context) (func() R, error) {
	fn, err := find(ctx, nil, helper.TypeOf[R]())
	if err != nil {
		return nil, err
	}
	return fn.(func() R), nil
}

func Of1[T1, R any](ctx context.Context) (func(T1) R, error) {
	fn, err := find(ctx, []reflect.Type{helper.TypeOf[T1]()}, helper.TypeOf[R]())
	if err != nil {
		return nil, err
	}
	return fn.(func(T1) R), nil
}

func Of2[T1, T2, R any](ctx context.Context) (func(T1, T2) R, error) {
	fn, err := find(ctx, []reflect.Type{helper.TypeOf[T1](), helper.TypeOf[T2]()}, helper.TypeOf[R]())
	if err != nil {
		return nil, err
	}
	return fn.(func(T1, T2) R), nil
}

func Of3[T1, T2, T3, R any](ctx context.Context) (func(T1, T2, T3) R, error) {
	fn, err := find(ctx, []reflect.Type{helper.TypeOf[T1](), helper.TypeOf[T2](), helper.TypeOf[T3]()}, helper.TypeOf[R]())
	if err != nil {
		return nil, err
	}
	return fn.(func(T1, T2, T3) R), nil
}

func Of4[T1, T2, T3, T4, R any](ctx context.Context) (func(T1, T2, T3, T4) R, error) {
	fn, err := find(ctx, []reflect.Type{helper.TypeOf[T1](), helper.TypeOf[T2](), helper.TypeOf[T3](), helper.TypeOf[T4]()}, helper.TypeOf[R]())
	if err != nil {
		return nil, err
	}
	return fn.(func(T1, T2, T3, T4) R), nil
}

// find resolves the constructor of result taking exactly params and returns it as a
// func(params...) result. Every entry point goes through here.
func find(ctx context.Context, params []reflect.Type, result reflect.Type) (any, error) {
	if len(params) > MaxParams {
		return nil, errs.NotSupported(result, "", "constructors take at most %d parameters, got %d", MaxParams, len(params))
	}
	if result == nil {
		return nil, errs.NotSupported(nil, "", "constructor result type is required")
	}
	keys := make([]cache.Key, 0, len(params)+2)
	keys = append(keys, len(params))
	for i, p := range params {
		if p == nil {
			return nil, errs.NotSupported(result, "", "parameter %d has no type", i)
		}
		keys = append(keys, p)
	}
	keys = append(keys, result)

	r := registry.FromContext(ctx)
	signature := errs.Signature(params, result)
	fn, loaded, err := r.Constructors().LoadOrCompute(keys, func() (any, error) {
		funcType := reflect.FuncOf(params, []reflect.Type{result}, false)
		for _, c := range r.Introspector().Constructors(result) {
			if c.Matches(params) && c.Func.Type().ConvertibleTo(funcType) {
				r.Logger().Debug("compiled constructor",
					zap.String("signature", signature),
					zap.String("func", c.Name),
				)
				return c.Func.Convert(funcType).Interface(), nil
			}
		}
		return nil, errs.ConstructorNotFound(result, signature)
	})
	if err != nil {
		r.Logger().Debug("constructor resolution failed", zap.String("signature", signature), zap.Error(err))
		return nil, err
	}
	if loaded {
		r.Logger().Debug("constructor cache hit", zap.String("signature", signature))
	}
	return fn, nil
}
