package expr

import (
	"reflect"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/introspect"
)

type frame struct {
	args []reflect.Value
}

type evalFn func(f *frame) reflect.Value

type node struct {
	typ  reflect.Type
	eval evalFn
}

// Compiled is a type-checked lambda ready to run.
type Compiled struct {
	out  reflect.Type
	eval evalFn
}

// Type is the static type of the lambda body.
func (c *Compiled) Type() reflect.Type {
	return c.out
}

// Call evaluates the body with args bound to the parameters in order. Each arg must
// already have the parameter's type.
func (c *Compiled) Call(args ...reflect.Value) reflect.Value {
	return c.eval(&frame{args: args})
}

// Compile type-checks l and turns it into a tree of closures.
func Compile(l *Lambda) (*Compiled, error) {
	if l == nil {
		return nil, errs.NotSupported(nil, "", "cannot compile a nil lambda")
	}
	c := &compiler{
		params:  make(map[*Parameter]int, len(l.Params)),
		members: introspect.Reflection{},
	}
	for i, p := range l.Params {
		if p == nil || p.Type == nil {
			return nil, errs.NotSupported(nil, "", "lambda parameter %d has no type", i)
		}
		c.params[p] = i
	}
	body, err := c.compile(l.Body)
	if err != nil {
		return nil, err
	}
	return &Compiled{out: body.typ, eval: body.eval}, nil
}

// TypeOf type-checks l and returns the static type of its body.
func TypeOf(l *Lambda) (reflect.Type, error) {
	c, err := Compile(l)
	if err != nil {
		return nil, err
	}
	return c.out, nil
}

type compiler struct {
	params  map[*Parameter]int
	members introspect.Introspector
}

func (c *compiler) compile(e Expr) (node, error) {
	switch n := e.(type) {
	case nil:
		return node{}, errs.NotSupported(nil, "", "missing expression")
	case *Parameter:
		return c.parameter(n)
	case *Constant:
		return c.constant(n)
	case *Member:
		return c.member(n)
	case *Call:
		return c.call(n)
	case *Binary:
		return c.binary(n)
	case *Unary:
		return c.unary(n)
	case *New:
		return c.newValue(n)
	case *Conditional:
		return c.conditional(n)
	case *Index:
		return c.index(n)
	case *ListInit:
		return c.listInit(n)
	case *ArrayInit:
		return c.arrayInit(n)
	case *MemberInit:
		return c.memberInit(n)
	case *Switch:
		return c.switchExpr(n)
	case *TypeIs:
		return c.typeIs(n)
	default:
		return node{}, errs.NotSupported(nil, "", "cannot compile expression node %T", e)
	}
}

func (c *compiler) compileAll(es []Expr) ([]node, error) {
	out := make([]node, len(es))
	for i, e := range es {
		n, err := c.compile(e)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func (c *compiler) parameter(p *Parameter) (node, error) {
	idx, ok := c.params[p]
	if !ok {
		return node{}, errs.NotSupported(p.Type, p.Name, "parameter is not bound by the lambda")
	}
	return node{typ: p.Type, eval: func(f *frame) reflect.Value {
		return f.args[idx]
	}}, nil
}

func (c *compiler) constant(k *Constant) (node, error) {
	t := k.Type
	var v reflect.Value
	switch {
	case t == nil && k.Value == nil:
		return node{}, errs.NotSupported(nil, "", "untyped nil constant")
	case t == nil:
		v = reflect.ValueOf(k.Value)
		t = v.Type()
	case k.Value == nil:
		v = reflect.Zero(t)
	default:
		rv := reflect.ValueOf(k.Value)
		if !rv.Type().AssignableTo(t) {
			return node{}, errs.NotSupported(t, "", "constant of type %s is not assignable", rv.Type())
		}
		v = reflect.New(t).Elem()
		v.Set(rv)
	}
	return node{typ: t, eval: func(*frame) reflect.Value { return v }}, nil
}

func (c *compiler) member(m *Member) (node, error) {
	obj, err := c.compile(m.Object)
	if err != nil {
		return node{}, err
	}
	found := c.members.Members(obj.typ, m.Name)
	if len(found) == 0 {
		return node{}, errs.MissingMember(obj.typ, m.Name, "no public field or property")
	}
	member := found[0]
	return node{typ: member.Type, eval: readMember(obj.eval, member)}, nil
}

func readMember(obj evalFn, m introspect.Member) evalFn {
	switch {
	case m.Kind == introspect.Field:
		index := m.Index
		return func(f *frame) reflect.Value {
			return reflect.Indirect(obj(f)).FieldByIndex(index)
		}
	case m.Getter.Func.IsValid():
		getter := m.Getter.Func
		return func(f *frame) reflect.Value {
			return getter.Call([]reflect.Value{obj(f)})[0]
		}
	default:
		name := m.Name
		return func(f *frame) reflect.Value {
			return obj(f).MethodByName(name).Call(nil)[0]
		}
	}
}

func (c *compiler) call(n *Call) (node, error) {
	args, err := c.compileAll(n.Args)
	if err != nil {
		return node{}, err
	}

	if n.Object == nil {
		fn := reflect.ValueOf(n.Func)
		if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
			return node{}, errs.NotSupported(reflect.TypeOf(n.Func), n.Method, "call target must be a function")
		}
		out, err := checkCall(fn.Type(), 0, args, n.Method)
		if err != nil {
			return node{}, err
		}
		return node{typ: out, eval: func(f *frame) reflect.Value {
			return fn.Call(evalAll(args, f))[0]
		}}, nil
	}

	obj, err := c.compile(n.Object)
	if err != nil {
		return node{}, err
	}
	method, ok := obj.typ.MethodByName(n.Method)
	if !ok || !method.IsExported() {
		return node{}, errs.MissingMember(obj.typ, n.Method, "no public method")
	}

	if obj.typ.Kind() == reflect.Interface {
		out, err := checkCall(method.Type, 0, args, n.Method)
		if err != nil {
			return node{}, err
		}
		name := n.Method
		return node{typ: out, eval: func(f *frame) reflect.Value {
			return obj.eval(f).MethodByName(name).Call(evalAll(args, f))[0]
		}}, nil
	}

	out, err := checkCall(method.Type, 1, args, n.Method)
	if err != nil {
		return node{}, err
	}
	fn := method.Func
	return node{typ: out, eval: func(f *frame) reflect.Value {
		in := make([]reflect.Value, 0, len(args)+1)
		in = append(in, obj.eval(f))
		return fn.Call(append(in, evalAll(args, f)...))[0]
	}}, nil
}

// checkCall validates args against ft's inputs starting at skip and returns the single
// result type.
func checkCall(ft reflect.Type, skip int, args []node, name string) (reflect.Type, error) {
	if ft.IsVariadic() {
		return nil, errs.NotSupported(ft, name, "variadic calls are not supported")
	}
	if ft.NumOut() != 1 {
		return nil, errs.NotSupported(ft, name, "callee must return exactly one value, got %d", ft.NumOut())
	}
	if ft.NumIn()-skip != len(args) {
		return nil, errs.NotSupported(ft, name, "expected %d arguments, got %d", ft.NumIn()-skip, len(args))
	}
	for i, a := range args {
		if !a.typ.AssignableTo(ft.In(i + skip)) {
			return nil, errs.NotSupported(ft, name, "argument %d: %s is not assignable to %s", i, a.typ, ft.In(i+skip))
		}
	}
	return ft.Out(0), nil
}

func evalAll(nodes []node, f *frame) []reflect.Value {
	out := make([]reflect.Value, len(nodes))
	for i, n := range nodes {
		out[i] = n.eval(f)
	}
	return out
}

func (c *compiler) newValue(n *New) (node, error) {
	if n.Func == nil {
		t := n.Type
		if t == nil {
			return node{}, errs.NotSupported(nil, "", "new needs a constructor function or a type")
		}
		if len(n.Args) > 0 {
			return node{}, errs.NotSupported(t, "", "zero-value construction takes no arguments")
		}
		if t.Kind() == reflect.Pointer {
			elem := t.Elem()
			return node{typ: t, eval: func(*frame) reflect.Value { return reflect.New(elem) }}, nil
		}
		return node{typ: t, eval: func(*frame) reflect.Value { return reflect.New(t).Elem() }}, nil
	}

	fn := reflect.ValueOf(n.Func)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return node{}, errs.NotSupported(fn.Type(), "", "constructor must be a function")
	}
	args, err := c.compileAll(n.Args)
	if err != nil {
		return node{}, err
	}
	out, err := checkCall(fn.Type(), 0, args, "")
	if err != nil {
		return node{}, err
	}
	if n.Type != nil && out != n.Type {
		return node{}, errs.NotSupported(n.Type, "", "constructor returns %s", out)
	}
	return node{typ: out, eval: func(f *frame) reflect.Value {
		return fn.Call(evalAll(args, f))[0]
	}}, nil
}

func (c *compiler) conditional(n *Conditional) (node, error) {
	test, err := c.compile(n.Test)
	if err != nil {
		return node{}, err
	}
	if test.typ.Kind() != reflect.Bool {
		return node{}, errs.NotSupported(test.typ, "", "condition must be a bool")
	}
	ifTrue, err := c.compile(n.IfTrue)
	if err != nil {
		return node{}, err
	}
	ifFalse, err := c.compile(n.IfFalse)
	if err != nil {
		return node{}, err
	}
	if ifTrue.typ != ifFalse.typ {
		return node{}, errs.NotSupported(ifTrue.typ, "", "branches differ: %s and %s", ifTrue.typ, ifFalse.typ)
	}
	return node{typ: ifTrue.typ, eval: func(f *frame) reflect.Value {
		if test.eval(f).Bool() {
			return ifTrue.eval(f)
		}
		return ifFalse.eval(f)
	}}, nil
}

func (c *compiler) index(n *Index) (node, error) {
	obj, err := c.compile(n.Object)
	if err != nil {
		return node{}, err
	}
	idx, err := c.compile(n.Index)
	if err != nil {
		return node{}, err
	}

	t := obj.typ
	deref := false
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Array {
		t = t.Elem()
		deref = true
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		if !isInteger(idx.typ) {
			return node{}, errs.NotSupported(idx.typ, "", "index must be an integer")
		}
		elem := reflect.TypeOf(byte(0))
		if t.Kind() != reflect.String {
			elem = t.Elem()
		}
		return node{typ: elem, eval: func(f *frame) reflect.Value {
			v := obj.eval(f)
			if deref {
				v = v.Elem()
			}
			return v.Index(intOf(idx.eval(f)))
		}}, nil
	case reflect.Map:
		if !idx.typ.AssignableTo(t.Key()) {
			return node{}, errs.NotSupported(idx.typ, "", "key is not assignable to %s", t.Key())
		}
		elem := t.Elem()
		return node{typ: elem, eval: func(f *frame) reflect.Value {
			v := obj.eval(f).MapIndex(idx.eval(f))
			if !v.IsValid() {
				return reflect.Zero(elem)
			}
			return v
		}}, nil
	default:
		return node{}, errs.NotSupported(obj.typ, "", "type cannot be indexed")
	}
}

func (c *compiler) listInit(n *ListInit) (node, error) {
	if n.Elem == nil {
		return node{}, errs.NotSupported(nil, "", "list element type is required")
	}
	elems, err := c.compileElems(n.Elem, n.Elems)
	if err != nil {
		return node{}, err
	}
	t := reflect.SliceOf(n.Elem)
	return node{typ: t, eval: func(f *frame) reflect.Value {
		s := reflect.MakeSlice(t, len(elems), len(elems))
		for i, e := range elems {
			s.Index(i).Set(e.eval(f))
		}
		return s
	}}, nil
}

func (c *compiler) arrayInit(n *ArrayInit) (node, error) {
	if n.Elem == nil {
		return node{}, errs.NotSupported(nil, "", "array element type is required")
	}
	elems, err := c.compileElems(n.Elem, n.Elems)
	if err != nil {
		return node{}, err
	}
	t := reflect.ArrayOf(len(elems), n.Elem)
	return node{typ: t, eval: func(f *frame) reflect.Value {
		a := reflect.New(t).Elem()
		for i, e := range elems {
			a.Index(i).Set(e.eval(f))
		}
		return a
	}}, nil
}

func (c *compiler) compileElems(elem reflect.Type, es []Expr) ([]node, error) {
	nodes, err := c.compileAll(es)
	if err != nil {
		return nil, err
	}
	for i, n := range nodes {
		if !n.typ.AssignableTo(elem) {
			return nil, errs.NotSupported(n.typ, "", "element %d is not assignable to %s", i, elem)
		}
	}
	return nodes, nil
}

func (c *compiler) memberInit(n *MemberInit) (node, error) {
	base, err := c.compile(n.New)
	if err != nil {
		return node{}, err
	}
	t := base.typ
	byPointer := t.Kind() == reflect.Pointer

	type assign struct {
		value  node
		member introspect.Member
	}
	assigns := make([]assign, len(n.Bindings))
	for i, b := range n.Bindings {
		found := c.members.Members(t, b.Name)
		if len(found) == 0 {
			return node{}, errs.MissingMember(t, b.Name, "no public field or property")
		}
		m := found[0]
		writable := (m.Kind == introspect.Property && m.HasSetter && byPointer) ||
			(m.Kind == introspect.Field && (byPointer || m.Direct))
		if !writable {
			return node{}, errs.NotSupported(t, b.Name, "member cannot be assigned")
		}
		v, err := c.compile(b.Value)
		if err != nil {
			return node{}, err
		}
		if !v.typ.AssignableTo(m.Type) {
			return node{}, errs.NotSupported(t, b.Name, "%s is not assignable to %s", v.typ, m.Type)
		}
		assigns[i] = assign{value: v, member: m}
	}

	return node{typ: t, eval: func(f *frame) reflect.Value {
		obj := base.eval(f)
		if !byPointer {
			cp := reflect.New(t).Elem()
			cp.Set(obj)
			obj = cp
		}
		for _, a := range assigns {
			v := a.value.eval(f)
			if a.member.Kind == introspect.Field {
				reflect.Indirect(obj).FieldByIndex(a.member.Index).Set(v)
				continue
			}
			a.member.Setter.Func.Call([]reflect.Value{obj, v})
		}
		return obj
	}}, nil
}

func (c *compiler) switchExpr(n *Switch) (node, error) {
	value, err := c.compile(n.Value)
	if err != nil {
		return node{}, err
	}
	if !value.typ.Comparable() {
		return node{}, errs.NotSupported(value.typ, "", "switch value is not comparable")
	}

	type compiledCase struct {
		tests []node
		body  node
	}
	var bodyType reflect.Type
	cases := make([]compiledCase, len(n.Cases))
	for i, sc := range n.Cases {
		tests, err := c.compileAll(sc.Tests)
		if err != nil {
			return node{}, err
		}
		for _, t := range tests {
			if t.typ != value.typ {
				return node{}, errs.NotSupported(t.typ, "", "case test does not match switch type %s", value.typ)
			}
		}
		body, err := c.compile(sc.Body)
		if err != nil {
			return node{}, err
		}
		if bodyType == nil {
			bodyType = body.typ
		} else if body.typ != bodyType {
			return node{}, errs.NotSupported(body.typ, "", "case bodies differ: %s and %s", bodyType, body.typ)
		}
		cases[i] = compiledCase{tests: tests, body: body}
	}

	var fallback evalFn
	if n.Default != nil {
		d, err := c.compile(n.Default)
		if err != nil {
			return node{}, err
		}
		if bodyType != nil && d.typ != bodyType {
			return node{}, errs.NotSupported(d.typ, "", "default body differs from case bodies %s", bodyType)
		}
		bodyType = d.typ
		fallback = d.eval
	}
	if bodyType == nil {
		return node{}, errs.NotSupported(value.typ, "", "switch has neither cases nor default")
	}
	if fallback == nil {
		zero := reflect.Zero(bodyType)
		fallback = func(*frame) reflect.Value { return zero }
	}

	return node{typ: bodyType, eval: func(f *frame) reflect.Value {
		v := value.eval(f)
		for _, sc := range cases {
			for _, t := range sc.tests {
				if v.Equal(t.eval(f)) {
					return sc.body.eval(f)
				}
			}
		}
		return fallback(f)
	}}, nil
}

func (c *compiler) typeIs(n *TypeIs) (node, error) {
	operand, err := c.compile(n.Operand)
	if err != nil {
		return node{}, err
	}
	if n.Target == nil {
		return node{}, errs.NotSupported(nil, "", "type test needs a target type")
	}
	target := n.Target

	if operand.typ.Kind() != reflect.Interface {
		static := reflect.ValueOf(matchesType(operand.typ, target))
		return node{typ: boolType, eval: func(f *frame) reflect.Value {
			operand.eval(f)
			return static
		}}, nil
	}

	return node{typ: boolType, eval: func(f *frame) reflect.Value {
		v := operand.eval(f)
		if v.IsNil() {
			return reflect.ValueOf(false)
		}
		return reflect.ValueOf(matchesType(v.Elem().Type(), target))
	}}, nil
}

func matchesType(dynamic, target reflect.Type) bool {
	if target.Kind() == reflect.Interface {
		return dynamic.Implements(target)
	}
	return dynamic == target
}
