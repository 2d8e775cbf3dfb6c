package expr

import (
	"reflect"

	"github.com/on-the-ground/compiled_reflect/errs"
)

var boolType = reflect.TypeOf(false)

func (c *compiler) binary(n *Binary) (node, error) {
	left, err := c.compile(n.Left)
	if err != nil {
		return node{}, err
	}
	right, err := c.compile(n.Right)
	if err != nil {
		return node{}, err
	}

	switch n.Op {
	case AndAlso, OrElse:
		if left.typ.Kind() != reflect.Bool || right.typ.Kind() != reflect.Bool {
			return node{}, errs.NotSupported(left.typ, "", "%s needs bool operands", n.Op)
		}
		isAnd := n.Op == AndAlso
		return node{typ: boolType, eval: func(f *frame) reflect.Value {
			l := left.eval(f).Bool()
			if l != isAnd {
				return reflect.ValueOf(l)
			}
			return reflect.ValueOf(right.eval(f).Bool())
		}}, nil
	}

	if left.typ != right.typ {
		return node{}, errs.NotSupported(left.typ, "", "%s operands differ: %s and %s", n.Op, left.typ, right.typ)
	}
	t := left.typ

	switch n.Op {
	case Eq, Ne:
		if !t.Comparable() {
			return node{}, errs.NotSupported(t, "", "type is not comparable")
		}
		negate := n.Op == Ne
		return node{typ: boolType, eval: func(f *frame) reflect.Value {
			return reflect.ValueOf(left.eval(f).Equal(right.eval(f)) != negate)
		}}, nil
	case Lt, Le, Gt, Ge:
		if !isOrdered(t) {
			return node{}, errs.NotSupported(t, "", "type is not ordered")
		}
		op := n.Op
		return node{typ: boolType, eval: func(f *frame) reflect.Value {
			return reflect.ValueOf(ordered(op, compare(left.eval(f), right.eval(f))))
		}}, nil
	case Add, Sub, Mul, Div, Rem:
		if !arithmeticSupported(n.Op, t) {
			return node{}, errs.NotSupported(t, "", "operator %s is not defined", n.Op)
		}
		op := n.Op
		return node{typ: t, eval: func(f *frame) reflect.Value {
			return arithmetic(op, t, left.eval(f), right.eval(f))
		}}, nil
	default:
		return node{}, errs.NotSupported(t, "", "unknown binary operator %s", n.Op)
	}
}

func (c *compiler) unary(n *Unary) (node, error) {
	operand, err := c.compile(n.Operand)
	if err != nil {
		return node{}, err
	}
	t := operand.typ

	switch n.Op {
	case Not:
		if t.Kind() != reflect.Bool {
			return node{}, errs.NotSupported(t, "", "! needs a bool operand")
		}
		return node{typ: t, eval: func(f *frame) reflect.Value {
			out := reflect.New(t).Elem()
			out.SetBool(!operand.eval(f).Bool())
			return out
		}}, nil
	case Negate:
		switch {
		case isSigned(t), isFloat(t):
		default:
			return node{}, errs.NotSupported(t, "", "- needs a signed numeric operand")
		}
		return node{typ: t, eval: func(f *frame) reflect.Value {
			v := operand.eval(f)
			out := reflect.New(t).Elem()
			if isSigned(t) {
				out.SetInt(-v.Int())
			} else {
				out.SetFloat(-v.Float())
			}
			return out
		}}, nil
	case Convert:
		to := n.To
		if to == nil || !t.ConvertibleTo(to) {
			return node{}, errs.NotSupported(t, "", "cannot convert to %v", to)
		}
		return node{typ: to, eval: func(f *frame) reflect.Value {
			return operand.eval(f).Convert(to)
		}}, nil
	default:
		return node{}, errs.NotSupported(t, "", "unknown unary operator %d", int(n.Op))
	}
}

func isSigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(t reflect.Type) bool {
	return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
}

func isInteger(t reflect.Type) bool {
	return isSigned(t) || isUnsigned(t)
}

func isOrdered(t reflect.Type) bool {
	return isInteger(t) || isFloat(t) || t.Kind() == reflect.String
}

func intOf(v reflect.Value) int {
	if isSigned(v.Type()) {
		return int(v.Int())
	}
	return int(v.Uint())
}

func arithmeticSupported(op BinaryOp, t reflect.Type) bool {
	switch {
	case isInteger(t):
		return true
	case isFloat(t):
		return op != Rem
	case t.Kind() == reflect.String:
		return op == Add
	default:
		return false
	}
}

// compare returns -1, 0 or 1. Both values share an ordered type.
func compare(a, b reflect.Value) int {
	t := a.Type()
	switch {
	case isSigned(t):
		return cmp3(a.Int() < b.Int(), a.Int() > b.Int())
	case isUnsigned(t):
		return cmp3(a.Uint() < b.Uint(), a.Uint() > b.Uint())
	case isFloat(t):
		return cmp3(a.Float() < b.Float(), a.Float() > b.Float())
	default:
		return cmp3(a.String() < b.String(), a.String() > b.String())
	}
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

func ordered(op BinaryOp, c int) bool {
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	default:
		return c >= 0
	}
}

// arithmetic keeps the operand type, so named numeric types survive.
// Integer division by zero panics, as it does in Go.
func arithmetic(op BinaryOp, t reflect.Type, a, b reflect.Value) reflect.Value {
	out := reflect.New(t).Elem()
	switch {
	case isSigned(t):
		x, y := a.Int(), b.Int()
		var r int64
		switch op {
		case Add:
			r = x + y
		case Sub:
			r = x - y
		case Mul:
			r = x * y
		case Div:
			r = x / y
		case Rem:
			r = x % y
		}
		out.SetInt(r)
	case isUnsigned(t):
		x, y := a.Uint(), b.Uint()
		var r uint64
		switch op {
		case Add:
			r = x + y
		case Sub:
			r = x - y
		case Mul:
			r = x * y
		case Div:
			r = x / y
		case Rem:
			r = x % y
		}
		out.SetUint(r)
	case isFloat(t):
		x, y := a.Float(), b.Float()
		var r float64
		switch op {
		case Add:
			r = x + y
		case Sub:
			r = x - y
		case Mul:
			r = x * y
		case Div:
			r = x / y
		}
		out.SetFloat(r)
	default:
		out.SetString(a.String() + b.String())
	}
	return out
}
