package cond

import "fmt"

// MaxAtoms bounds the truth tables built by VerifyNegation.
const MaxAtoms = 16

// VerificationResult is the outcome of VerifyNegation.
type VerificationResult int

const (
	_ VerificationResult = iota
	// Equivalent means the candidate is the complement of the guard under
	// every valuation of its atoms.
	Equivalent
	// NotEquivalent means some valuation makes both sides agree.
	NotEquivalent
	// Unknown means the check was not attempted.
	Unknown
)

func (r VerificationResult) String() string {
	switch r {
	case Equivalent:
		return "Equivalent"
	case NotEquivalent:
		return "NotEquivalent"
	case Unknown:
		return "Unknown"
	default:
		return "?"
	}
}

// ReasonCode explains a VerificationResult.
type ReasonCode int

const (
	ReasonNone ReasonCode = iota
	ReasonSameResult
	ReasonCounterexample
	ReasonTooManyAtoms
)

func (r ReasonCode) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonSameResult:
		return "complementary for all valuations"
	case ReasonCounterexample:
		return "a valuation satisfies both or neither"
	case ReasonTooManyAtoms:
		return "too many atoms to enumerate"
	default:
		return "unknown"
	}
}

// VerificationReport provides detail on a VerifyNegation call.
type VerificationReport struct {
	Result VerificationResult
	Reason ReasonCode
	Detail string
}

// atom is a propositional variable. A comparison and its inverse share one
// atom with opposite polarity, so "a < b" is the complement of "a >= b".
type atom struct {
	text string
}

// VerifyNegation checks that negated is the logical complement of guard,
// treating opaque operands and comparisons as propositional atoms. The
// comparison pairing is taken at face value: "a > b" and "a <= b" are
// complements even though NaN falsifies both.
func VerifyNegation(guard, negated Expr) VerificationReport {
	index := make(map[atom]int)
	collectAtoms(guard, index)
	collectAtoms(negated, index)

	n := len(index)
	if n > MaxAtoms {
		return VerificationReport{
			Result: Unknown,
			Reason: ReasonTooManyAtoms,
			Detail: fmt.Sprintf("%d atoms, limit is %d", n, MaxAtoms),
		}
	}

	for valuation := uint32(0); valuation < 1<<n; valuation++ {
		g := eval(guard, index, valuation)
		c := eval(negated, index, valuation)
		if g == c {
			return VerificationReport{
				Result: NotEquivalent,
				Reason: ReasonCounterexample,
				Detail: fmt.Sprintf("%s and %s are both %t", Render(guard), Render(negated), g),
			}
		}
	}

	return VerificationReport{Result: Equivalent, Reason: ReasonSameResult}
}

// atomOf returns the atom for a leaf and whether the leaf is its positive
// form.
func atomOf(e Expr) (atom, bool) {
	switch e := e.(type) {
	case Binary:
		switch e.Op {
		case OpStrictNeq, OpNeq, OpLte, OpLt:
			inv, _ := e.Op.Inverse()
			return atom{e.X.Text + " " + string(inv) + " " + e.Y.Text}, false
		default:
			return atom{e.X.Text + " " + string(e.Op) + " " + e.Y.Text}, true
		}
	case Opaque:
		return atom{e.Text}, true
	}
	return atom{}, false
}

func collectAtoms(e Expr, index map[atom]int) {
	switch e := e.(type) {
	case Not:
		collectAtoms(e.X, index)
	case Logical:
		collectAtoms(e.X, index)
		collectAtoms(e.Y, index)
	default:
		a, _ := atomOf(e)
		if _, ok := index[a]; !ok {
			index[a] = len(index)
		}
	}
}

func eval(e Expr, index map[atom]int, valuation uint32) bool {
	switch e := e.(type) {
	case Not:
		return !eval(e.X, index, valuation)
	case Logical:
		if e.Op == And {
			return eval(e.X, index, valuation) && eval(e.Y, index, valuation)
		}
		return eval(e.X, index, valuation) || eval(e.Y, index, valuation)
	default:
		a, positive := atomOf(e)
		v := valuation&(1<<index[a]) != 0
		return v == positive
	}
}
