package cond

import "github.com/gnolang/jlint/internal/jsast"

// FromAST converts a parsed guard expression. Parentheses are transparent;
// operand text is taken verbatim from f.
func FromAST(f *jsast.File, x jsast.Expr) Expr {
	switch n := x.(type) {
	case *jsast.ParenExpr:
		return FromAST(f, n.X)

	case *jsast.UnaryExpr:
		if n.Op == "!" {
			return Not{X: FromAST(f, n.X)}
		}

	case *jsast.BinaryExpr:
		op := CmpOp(n.Op)
		if _, ok := op.Inverse(); ok {
			return Binary{
				Op:   op,
				X:    opaque(f, n.X),
				Y:    opaque(f, n.Y),
				Text: f.Text(n),
			}
		}

	case *jsast.LogicalExpr:
		switch n.Op {
		case "&&":
			return Logical{Op: And, X: FromAST(f, n.X), Y: FromAST(f, n.Y)}
		case "||":
			return Logical{Op: Or, X: FromAST(f, n.X), Y: FromAST(f, n.Y)}
		}
	}
	return opaque(f, x)
}

func opaque(f *jsast.File, x jsast.Expr) Opaque {
	inner := x
	for {
		p, ok := inner.(*jsast.ParenExpr)
		if !ok {
			break
		}
		inner = p.X
	}
	// a parenthesised operand keeps its parentheses and so reads as atomic
	if inner != x {
		return Opaque{Text: f.Text(x), Atomic: true}
	}
	return Opaque{Text: f.Text(x), Atomic: isAtomic(x)}
}

func isAtomic(x jsast.Expr) bool {
	switch n := x.(type) {
	case *jsast.Ident, *jsast.Literal, *jsast.MemberExpr, *jsast.CallExpr,
		*jsast.NewExpr, *jsast.TaggedTemplate, *jsast.MetaProp,
		*jsast.ArrayLit, *jsast.ObjectLit, *jsast.ParenExpr, *jsast.UpdateExpr:
		return true
	case *jsast.UnaryExpr:
		return n.Op != "!"
	}
	return false
}
