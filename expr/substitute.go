package expr

// Substitute returns a copy of e in which every node matching match is replaced by
// replacement. Children are rewritten first and composite nodes rebuilt around them;
// the input tree is never modified. Nodes outside this package pass through unchanged.
func Substitute(e Expr, match func(Expr) bool, replacement Expr) Expr {
	if e == nil {
		return nil
	}
	if match(e) {
		return replacement
	}

	sub := func(child Expr) Expr {
		return Substitute(child, match, replacement)
	}

	switch n := e.(type) {
	case *Call:
		return &Call{Object: sub(n.Object), Func: n.Func, Method: n.Method, Args: substituteAll(n.Args, sub)}
	case *Binary:
		return &Binary{Op: n.Op, Left: sub(n.Left), Right: sub(n.Right)}
	case *Unary:
		return &Unary{Op: n.Op, To: n.To, Operand: sub(n.Operand)}
	case *New:
		return &New{Func: n.Func, Type: n.Type, Args: substituteAll(n.Args, sub)}
	case *Conditional:
		return &Conditional{Test: sub(n.Test), IfTrue: sub(n.IfTrue), IfFalse: sub(n.IfFalse)}
	case *Index:
		return &Index{Object: sub(n.Object), Index: sub(n.Index)}
	case *ListInit:
		return &ListInit{Elem: n.Elem, Elems: substituteAll(n.Elems, sub)}
	case *Member:
		return &Member{Object: sub(n.Object), Name: n.Name}
	case *ArrayInit:
		return &ArrayInit{Elem: n.Elem, Elems: substituteAll(n.Elems, sub)}
	case *MemberInit:
		bindings := make([]Binding, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = Binding{Name: b.Name, Value: sub(b.Value)}
		}
		return &MemberInit{New: sub(n.New), Bindings: bindings}
	case *Switch:
		cases := make([]SwitchCase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = SwitchCase{Tests: substituteAll(c.Tests, sub), Body: sub(c.Body)}
		}
		return &Switch{Value: sub(n.Value), Cases: cases, Default: sub(n.Default)}
	case *TypeIs:
		return &TypeIs{Operand: sub(n.Operand), Target: n.Target}
	case *Lambda:
		return &Lambda{Params: n.Params, Body: sub(n.Body)}
	default:
		return e
	}
}

func substituteAll(es []Expr, sub func(Expr) Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = sub(e)
	}
	return out
}

// ReplaceParameter substitutes every reference to p in e with replacement.
func ReplaceParameter(e Expr, p *Parameter, replacement Expr) Expr {
	return Substitute(e, func(n Expr) bool {
		q, ok := n.(*Parameter)
		return ok && q == p
	}, replacement)
}
