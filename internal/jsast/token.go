package jsast

import "fmt"

// TokenKind defines the lexical class of a token.
type TokenKind int

const (
	EOF TokenKind = iota
	IdentToken
	PrivateName
	Number
	String
	Template
	Regexp
	Punct
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case IdentToken:
		return "Ident"
	case PrivateName:
		return "PrivateName"
	case Number:
		return "Number"
	case String:
		return "String"
	case Template:
		return "Template"
	case Regexp:
		return "Regexp"
	case Punct:
		return "Punct"
	default:
		return "Unknown"
	}
}

// Token is a lexical token. Keywords are scanned as IdentToken tokens and
// recognised by the parser, since most JavaScript keywords are contextual.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int
	End   int
	// NewlineBefore reports whether a line terminator separates this token
	// from the previous one. Used for automatic semicolon insertion.
	NewlineBefore bool
}

// is reports whether the token is the punctuator or word v.
func (t Token) is(v string) bool {
	return (t.Kind == Punct || t.Kind == IdentToken) && t.Value == v
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Value)
}

// punctuators is ordered longest first so the scanner can take the first match.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*",
	"/", "%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@",
}

// regexpAfterWord lists the words after which a slash starts a regular
// expression literal rather than a division.
var regexpAfterWord = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"throw":      true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
}

// statementOnlyWords can never start or appear as an expression operand.
var statementOnlyWords = map[string]bool{
	"break":    true,
	"case":     true,
	"catch":    true,
	"const":    true,
	"continue": true,
	"debugger": true,
	"default":  true,
	"do":       true,
	"else":     true,
	"export":   true,
	"extends":  true,
	"finally":  true,
	"for":      true,
	"if":       true,
	"return":   true,
	"switch":   true,
	"throw":    true,
	"try":      true,
	"var":      true,
	"while":    true,
	"with":     true,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true,
	"|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

// binaryPrec maps binary punctuators to their precedence. Higher binds tighter.
var binaryPrec = map[string]int{
	"??":  1,
	"||":  2,
	"&&":  3,
	"|":   4,
	"^":   5,
	"&":   6,
	"==":  7,
	"!=":  7,
	"===": 7,
	"!==": 7,
	"<":   8,
	">":   8,
	"<=":  8,
	">=":  8,
	"<<":  9,
	">>":  9,
	">>>": 9,
	"+":   10,
	"-":   10,
	"*":   11,
	"/":   11,
	"%":   11,
	"**":  12,
}

const relationalPrec = 8
