package cond

// Negate returns the logical complement of e in minimal form:
//
//   - !x becomes x
//   - a comparison takes its inverse operator
//   - && and || are rewritten by De Morgan's laws, negating each operand
//   - anything else is prefixed with !
//
// Negate never fails; unrecognised shapes fall back to a plain negation.
func Negate(e Expr) Expr {
	switch e := e.(type) {
	case Not:
		return e.X
	case Binary:
		inv, ok := e.Op.Inverse()
		if !ok {
			return Not{X: e}
		}
		return Binary{
			Op:   inv,
			X:    e.X,
			Y:    e.Y,
			Text: e.X.Text + " " + string(inv) + " " + e.Y.Text,
		}
	case Logical:
		return Logical{
			Op: e.Op.Dual(),
			X:  Negate(e.X),
			Y:  Negate(e.Y),
		}
	default:
		return Not{X: e}
	}
}

// NegateText is Render(Negate(e)).
func NegateText(e Expr) string {
	return Render(Negate(e))
}
