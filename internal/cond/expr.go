// Package cond models the boolean guard of an if statement and computes its
// logical negation.
package cond

import "strings"

// Expr is a guard expression: Not, Binary, Logical or Opaque.
type Expr interface {
	isExpr()
	String() string
}

// Not is a logical negation.
type Not struct {
	X Expr
}

// Binary is a comparison using one of the eight recognised operators.
// Operands are kept as source text; they are never rewritten.
type Binary struct {
	Op CmpOp
	X  Opaque
	Y  Opaque
	// Text is the rendered form. For expressions taken from source it is
	// the original text, spacing included.
	Text string
}

// Logical is a conjunction or disjunction.
type Logical struct {
	Op LogicalOp
	X  Expr
	Y  Expr
}

// Opaque is any expression the negator does not look into. Atomic opaque
// expressions (identifiers, member accesses, calls, literals, ...) can take
// a bare "!" prefix; compound ones need parentheses first.
type Opaque struct {
	Text   string
	Atomic bool
}

func (Not) isExpr()     {}
func (Binary) isExpr()  {}
func (Logical) isExpr() {}
func (Opaque) isExpr()  {}

func (e Not) String() string     { return Render(e) }
func (e Binary) String() string  { return Render(e) }
func (e Logical) String() string { return Render(e) }
func (e Opaque) String() string  { return e.Text }

// CmpOp is a recognised comparison operator.
type CmpOp string

const (
	OpStrictEq  CmpOp = "==="
	OpStrictNeq CmpOp = "!=="
	OpEq        CmpOp = "=="
	OpNeq       CmpOp = "!="
	OpGt        CmpOp = ">"
	OpGte       CmpOp = ">="
	OpLt        CmpOp = "<"
	OpLte       CmpOp = "<="
)

var inverse = map[CmpOp]CmpOp{
	OpStrictEq:  OpStrictNeq,
	OpStrictNeq: OpStrictEq,
	OpEq:        OpNeq,
	OpNeq:       OpEq,
	OpGt:        OpLte,
	OpLte:       OpGt,
	OpGte:       OpLt,
	OpLt:        OpGte,
}

// Inverse returns the operator whose result is the complement of op's.
// The pairing is an involution.
func (op CmpOp) Inverse() (CmpOp, bool) {
	inv, ok := inverse[op]
	return inv, ok
}

// LogicalOp is && or ||.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

func (op LogicalOp) String() string {
	if op == Or {
		return "||"
	}
	return "&&"
}

// Dual swaps && and ||.
func (op LogicalOp) Dual() LogicalOp {
	if op == And {
		return Or
	}
	return And
}

// Binding strength of each variant, weakest first.
const (
	precCompound = iota
	precOr
	precAnd
	precCompare
	precNot
	precAtomic
)

func precedence(e Expr) int {
	switch e := e.(type) {
	case Logical:
		if e.Op == Or {
			return precOr
		}
		return precAnd
	case Binary:
		return precCompare
	case Not:
		return precNot
	case Opaque:
		if e.Atomic {
			return precAtomic
		}
	}
	return precCompound
}

// Render prints e, adding parentheses only where an operand binds looser
// than its parent.
func Render(e Expr) string {
	var sb strings.Builder
	render(&sb, e)
	return sb.String()
}

func render(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case Not:
		sb.WriteByte('!')
		renderOperand(sb, e.X, precNot)
	case Binary:
		if e.Text != "" {
			sb.WriteString(e.Text)
			return
		}
		sb.WriteString(e.X.Text)
		sb.WriteString(" " + string(e.Op) + " ")
		sb.WriteString(e.Y.Text)
	case Logical:
		p := precedence(e)
		renderOperand(sb, e.X, p)
		sb.WriteString(" " + e.Op.String() + " ")
		renderOperand(sb, e.Y, p)
	case Opaque:
		sb.WriteString(e.Text)
	}
}

func renderOperand(sb *strings.Builder, x Expr, parent int) {
	if precedence(x) >= parent {
		render(sb, x)
		return
	}
	sb.WriteByte('(')
	render(sb, x)
	sb.WriteByte(')')
}
