package expr

import (
	"reflect"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// Concat feeds the result of first into second, producing one lambda over first's
// parameter. Every reference to second's parameter is replaced by first's body, so the
// result contains no intermediate call.
//
// Both arguments must be single-parameter lambdas; anything else fails with
// errs.ErrNotSupported. When first type-checks, its body type must also be second's
// parameter type. Bodies holding nodes the compiler does not know are substituted as
// they are and left for Compile to judge.
func Concat(first, second Expr) (*Lambda, error) {
	f, ok := first.(*Lambda)
	if !ok || f == nil {
		return nil, errs.NotSupported(nil, "", "only lambdas can be concatenated, got %T", first)
	}
	s, ok := second.(*Lambda)
	if !ok || s == nil {
		return nil, errs.NotSupported(nil, "", "only lambdas can be concatenated, got %T", second)
	}
	if len(f.Params) != 1 || len(s.Params) != 1 {
		return nil, errs.NotSupported(nil, "", "only single-parameter lambdas can be concatenated")
	}

	if mid, err := TypeOf(f); err == nil && mid != s.Params[0].Type {
		return nil, errs.NotSupported(mid, "", "result does not feed a parameter of type %s", s.Params[0].Type)
	}

	body := ReplaceParameter(s.Body, s.Params[0], f.Body)
	return &Lambda{Params: f.Params, Body: body}, nil
}

// Mapping is a single-parameter lambda from A to B.
type Mapping[A, B any] struct {
	lambda *Lambda
}

// Lambda1 builds a Mapping whose body is produced from its only parameter.
func Lambda1[A, B any](name string, build func(p *Parameter) Expr) Mapping[A, B] {
	p := Param[A](name)
	return Mapping[A, B]{lambda: NewLambda(build(p), p)}
}

// MappingOf checks that e is a lambda from A to B.
func MappingOf[A, B any](e Expr) (Mapping[A, B], error) {
	l, _, err := checkMapping[A, B](e)
	if err != nil {
		return Mapping[A, B]{}, err
	}
	return Mapping[A, B]{lambda: l}, nil
}

func checkMapping[A, B any](e Expr) (*Lambda, *Compiled, error) {
	l, ok := e.(*Lambda)
	if !ok || l == nil {
		return nil, nil, errs.NotSupported(nil, "", "mapping must be a lambda, got %T", e)
	}
	if len(l.Params) != 1 {
		return nil, nil, errs.NotSupported(nil, "", "mapping must take one parameter, got %d", len(l.Params))
	}
	if l.Params[0].Type != helper.TypeOf[A]() {
		return nil, nil, errs.NotSupported(l.Params[0].Type, "", "mapping parameter must be %s", helper.TypeOf[A]())
	}
	c, err := Compile(l)
	if err != nil {
		return nil, nil, err
	}
	if !c.Type().AssignableTo(helper.TypeOf[B]()) {
		return nil, nil, errs.NotSupported(c.Type(), "", "mapping result is not assignable to %s", helper.TypeOf[B]())
	}
	return l, c, nil
}

func (m Mapping[A, B]) Expr() *Lambda {
	return m.lambda
}

func (m Mapping[A, B]) String() string {
	if m.lambda == nil {
		return "<nil mapping>"
	}
	return m.lambda.String()
}

// Compile returns the mapping as a plain function.
func (m Mapping[A, B]) Compile() (func(A) B, error) {
	_, c, err := checkMapping[A, B](m.lambda)
	if err != nil {
		return nil, err
	}
	return func(a A) B {
		var b B
		reflect.ValueOf(&b).Elem().Set(c.Call(reflect.ValueOf(&a).Elem()))
		return b
	}, nil
}

// ConcatMapping is the typed form of Concat.
func ConcatMapping[A, B, C any](first Mapping[A, B], second Mapping[B, C]) (Mapping[A, C], error) {
	l, err := Concat(first.lambda, second.lambda)
	if err != nil {
		return Mapping[A, C]{}, err
	}
	return MappingOf[A, C](l)
}
