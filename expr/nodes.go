package expr

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/on-the-ground/compiled_reflect/shared/helper"
)

// Expr is a node of an expression tree. The nodes defined in this package form the
// set that Substitute rewrites and Compile understands; any other implementation is
// treated as an opaque leaf.
type Expr interface {
	String() string
}

// Parameter is a formal parameter. Parameters are compared by identity.
type Parameter struct {
	Type reflect.Type
	Name string
}

func NewParameter(name string, t reflect.Type) *Parameter {
	return &Parameter{Name: name, Type: t}
}

// Param declares a parameter of type T.
func Param[T any](name string) *Parameter {
	return NewParameter(name, helper.TypeOf[T]())
}

func (p *Parameter) String() string {
	return p.Name
}

// Constant is a fixed value. A nil Type means reflect.TypeOf(Value).
type Constant struct {
	Value any
	Type  reflect.Type
}

func Const(v any) *Constant {
	return &Constant{Value: v}
}

// ConstOf keeps the static type T, which matters for interface-typed and nil values.
func ConstOf[T any](v T) *Constant {
	return &Constant{Value: v, Type: helper.TypeOf[T]()}
}

func (c *Constant) String() string {
	return fmt.Sprintf("%#v", c.Value)
}

// Member reads a public field or property of Object.
type Member struct {
	Object Expr
	Name   string
}

func (m *Member) String() string {
	return m.Object.String() + "." + m.Name
}

// Call invokes Method on Object, or the function Func when Object is nil.
// The callee must return exactly one value.
type Call struct {
	Object Expr
	Func   any
	Method string
	Args   []Expr
}

func (c *Call) String() string {
	callee := c.Method
	if c.Object != nil {
		callee = c.Object.String() + "." + c.Method
	} else if callee == "" {
		callee = fmt.Sprintf("%T", c.Func)
	}
	return callee + "(" + join(c.Args) + ")"
}

type BinaryOp int

const (
	Add BinaryOp = iota + 1
	Sub
	Mul
	Div
	Rem
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	AndAlso
	OrElse
)

var binaryOpSymbols = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	AndAlso: "&&", OrElse: "||",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

type Binary struct {
	Left  Expr
	Right Expr
	Op    BinaryOp
}

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

type UnaryOp int

const (
	Not UnaryOp = iota + 1
	Negate
	// Convert converts Operand to the Unary's To type.
	Convert
)

type Unary struct {
	Operand Expr
	To      reflect.Type
	Op      UnaryOp
}

func (u *Unary) String() string {
	switch u.Op {
	case Not:
		return "!" + u.Operand.String()
	case Negate:
		return "-" + u.Operand.String()
	case Convert:
		return fmt.Sprintf("%s(%s)", u.To, u.Operand)
	default:
		return fmt.Sprintf("UnaryOp(%d)(%s)", int(u.Op), u.Operand)
	}
}

// New constructs a value, either by calling the constructor function Func with Args or,
// when Func is nil, as the zero value of Type (a fresh allocation for pointer types).
type New struct {
	Func any
	Type reflect.Type
	Args []Expr
}

func (n *New) String() string {
	if n.Func != nil {
		return fmt.Sprintf("new %T(%s)", n.Func, join(n.Args))
	}
	return fmt.Sprintf("new %s()", n.Type)
}

type Conditional struct {
	Test    Expr
	IfTrue  Expr
	IfFalse Expr
}

func (c *Conditional) String() string {
	return "(" + c.Test.String() + " ? " + c.IfTrue.String() + " : " + c.IfFalse.String() + ")"
}

// Index reads an element of a slice, array, string or map.
type Index struct {
	Object Expr
	Index  Expr
}

func (i *Index) String() string {
	return i.Object.String() + "[" + i.Index.String() + "]"
}

// ListInit builds a []Elem from Elems.
type ListInit struct {
	Elem  reflect.Type
	Elems []Expr
}

func (l *ListInit) String() string {
	return "[]" + l.Elem.String() + "{" + join(l.Elems) + "}"
}

// ArrayInit builds a [len(Elems)]Elem from Elems.
type ArrayInit struct {
	Elem  reflect.Type
	Elems []Expr
}

func (a *ArrayInit) String() string {
	return fmt.Sprintf("[%d]%s{%s}", len(a.Elems), a.Elem, join(a.Elems))
}

// Binding assigns Value to the member Name of a MemberInit's new value.
type Binding struct {
	Value Expr
	Name  string
}

// MemberInit constructs a value with New and then assigns each binding in order.
type MemberInit struct {
	New      Expr
	Bindings []Binding
}

func (m *MemberInit) String() string {
	parts := make([]string, len(m.Bindings))
	for i, b := range m.Bindings {
		parts[i] = b.Name + ": " + b.Value.String()
	}
	return m.New.String() + "{" + strings.Join(parts, ", ") + "}"
}

type SwitchCase struct {
	Body  Expr
	Tests []Expr
}

// Switch evaluates the body of the first case with a test equal to Value, or Default.
// A nil Default yields the zero value of the case body type.
type Switch struct {
	Value   Expr
	Default Expr
	Cases   []SwitchCase
}

func (s *Switch) String() string {
	var b strings.Builder
	b.WriteString("switch ")
	b.WriteString(s.Value.String())
	b.WriteString(" {")
	for _, c := range s.Cases {
		b.WriteString(" case ")
		b.WriteString(join(c.Tests))
		b.WriteString(": ")
		b.WriteString(c.Body.String())
		b.WriteByte(';')
	}
	if s.Default != nil {
		b.WriteString(" default: ")
		b.WriteString(s.Default.String())
		b.WriteByte(';')
	}
	b.WriteString(" }")
	return b.String()
}

// TypeIs reports whether Operand's dynamic type is Target, or implements Target when
// Target is an interface.
type TypeIs struct {
	Operand Expr
	Target  reflect.Type
}

func (t *TypeIs) String() string {
	return fmt.Sprintf("(%s is %s)", t.Operand, t.Target)
}

// Lambda binds Body to Params. Mapping expressions are lambdas with one parameter.
type Lambda struct {
	Body   Expr
	Params []*Parameter
}

func NewLambda(body Expr, params ...*Parameter) *Lambda {
	return &Lambda{Body: body, Params: params}
}

func (l *Lambda) String() string {
	names := make([]string, len(l.Params))
	for i, p := range l.Params {
		names[i] = p.Name
	}
	return "func(" + strings.Join(names, ", ") + ") { " + l.Body.String() + " }"
}

func join(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
