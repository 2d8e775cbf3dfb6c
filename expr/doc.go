// Package expr is a small expression tree with a compiler and a composition primitive.
//
// A mapping is a single-parameter Lambda. Concat fuses two mappings A->B and B->C into
// one A->C mapping by substituting the first body for every reference to the second
// parameter, so a chain of any length compiles to a single flat function:
//
//	firstPage := expr.Lambda1[*Book, *Page]("b", func(b *expr.Parameter) expr.Expr {
//		return &expr.Index{Object: &expr.Member{Object: b, Name: "Pages"}, Index: expr.Const(0)}
//	})
//	text := expr.Lambda1[*Page, string]("p", func(p *expr.Parameter) expr.Expr {
//		return &expr.Member{Object: p, Name: "Text"}
//	})
//	firstText, err := expr.ConcatMapping(firstPage, text)
//	fn, err := firstText.Compile()
//
// The node set is closed: Parameter, Constant, Member, Call, Binary, Unary, New,
// Conditional, Index, ListInit, ArrayInit, MemberInit, Switch, TypeIs and Lambda.
// Substitute passes any other Expr implementation through untouched and Compile rejects it.
package expr
