package jsast

// Node is implemented by every syntax tree node. Positions are byte offsets
// into the source; End is exclusive.
type Node interface {
	Pos() int
	End() int
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Function is implemented by function-like nodes: function declarations,
// function expressions, object and class methods, and arrow functions.
type Function interface {
	Node
	// FuncBody returns the function's block body, or nil for an arrow
	// function with an expression body.
	FuncBody() *BlockStmt
}

// Span is the half-open byte range [From, To) covered by a node.
type Span struct {
	From int
	To   int
}

func (s Span) Pos() int { return s.From }
func (s Span) End() int { return s.To }

// Comment is a line or block comment, including its delimiters.
type Comment struct {
	Span
	Text  string
	Block bool
}

/***** Expressions *****/

type LitKind int

const (
	LitNull LitKind = iota
	LitBool
	LitNumber
	LitString
	LitTemplate
	LitRegexp
)

type (
	// Ident is an identifier, a private name (#x), or one of the
	// keywords this, super and import used as an expression.
	Ident struct {
		Span
		Name string
	}

	Literal struct {
		Span
		Kind LitKind
		Raw  string
	}

	// ParenExpr keeps parenthesised expressions so that source text can be
	// reproduced exactly.
	ParenExpr struct {
		Span
		X Expr
	}

	// UnaryExpr is a prefix operator: ! - + ~ typeof void delete await.
	UnaryExpr struct {
		Span
		Op string
		X  Expr
	}

	UpdateExpr struct {
		Span
		Op     string
		Prefix bool
		X      Expr
	}

	// BinaryExpr is any non-logical binary operator application.
	BinaryExpr struct {
		Span
		Op string
		X  Expr
		Y  Expr
	}

	// LogicalExpr is an application of &&, || or ??.
	LogicalExpr struct {
		Span
		Op string
		X  Expr
		Y  Expr
	}

	CondExpr struct {
		Span
		Test Expr
		Cons Expr
		Alt  Expr
	}

	AssignExpr struct {
		Span
		Op     string
		Target Expr
		Value  Expr
	}

	SeqExpr struct {
		Span
		List []Expr
	}

	CallExpr struct {
		Span
		Callee   Expr
		Args     []Expr
		Optional bool
	}

	NewExpr struct {
		Span
		Callee Expr
		Args   []Expr
	}

	MemberExpr struct {
		Span
		X        Expr
		Prop     Expr
		Computed bool
		Optional bool
	}

	TaggedTemplate struct {
		Span
		Tag   Expr
		Quasi *Literal
	}

	// MetaProp is new.target or import.meta.
	MetaProp struct {
		Span
		Meta string
		Prop string
	}

	SpreadElement struct {
		Span
		X Expr
	}

	// ArrayLit is an array literal or array pattern. Holes are nil.
	ArrayLit struct {
		Span
		Elems []Expr
	}

	// ObjectLit is an object literal or object pattern.
	ObjectLit struct {
		Span
		Props []*Property
	}

	YieldExpr struct {
		Span
		Delegate bool
		X        Expr
	}

	// FuncLit is a function expression, a method, or the function of a
	// function declaration.
	FuncLit struct {
		Span
		Name      *Ident
		Params    []Expr
		Body      *BlockStmt
		Async     bool
		Generator bool
	}

	// ArrowFunc has either a *BlockStmt or an Expr body.
	ArrowFunc struct {
		Span
		Params []Expr
		Body   Node
		Async  bool
	}

	ClassLit struct {
		Span
		Name    *Ident
		Super   Expr
		Members []*ClassMember
	}
)

func (*Ident) exprNode()          {}
func (*Literal) exprNode()        {}
func (*ParenExpr) exprNode()      {}
func (*UnaryExpr) exprNode()      {}
func (*UpdateExpr) exprNode()     {}
func (*BinaryExpr) exprNode()     {}
func (*LogicalExpr) exprNode()    {}
func (*CondExpr) exprNode()       {}
func (*AssignExpr) exprNode()     {}
func (*SeqExpr) exprNode()        {}
func (*CallExpr) exprNode()       {}
func (*NewExpr) exprNode()        {}
func (*MemberExpr) exprNode()     {}
func (*TaggedTemplate) exprNode() {}
func (*MetaProp) exprNode()       {}
func (*SpreadElement) exprNode()  {}
func (*ArrayLit) exprNode()       {}
func (*ObjectLit) exprNode()      {}
func (*YieldExpr) exprNode()      {}
func (*FuncLit) exprNode()        {}
func (*ArrowFunc) exprNode()      {}
func (*ClassLit) exprNode()       {}

func (f *FuncLit) FuncBody() *BlockStmt { return f.Body }

func (a *ArrowFunc) FuncBody() *BlockStmt {
	if b, ok := a.Body.(*BlockStmt); ok {
		return b
	}
	return nil
}

type PropKind int

const (
	PropInit PropKind = iota
	PropShorthand
	PropMethod
	PropGet
	PropSet
	PropSpread
)

// Property is a member of an object literal. For PropSpread, Key is nil
// and Value is a *SpreadElement.
type Property struct {
	Span
	Kind     PropKind
	Key      Expr
	Computed bool
	Value    Expr
}

type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberConstructor
	MemberGet
	MemberSet
	MemberField
	MemberStaticBlock
)

// ClassMember is a method, accessor, field or static block of a class body.
type ClassMember struct {
	Span
	Kind     MemberKind
	Key      Expr
	Computed bool
	Static   bool
	Value    Expr
	Block    *BlockStmt
}

/***** Statements *****/

type (
	BlockStmt struct {
		Span
		List []Stmt
	}

	EmptyStmt struct {
		Span
	}

	// ExprStmt spans its terminating semicolon when one is present.
	ExprStmt struct {
		Span
		X Expr
	}

	IfStmt struct {
		Span
		Test Expr
		Cons Stmt
		Alt  Stmt
	}

	ReturnStmt struct {
		Span
		X Expr
	}

	ThrowStmt struct {
		Span
		X Expr
	}

	// BranchStmt is a break or continue statement.
	BranchStmt struct {
		Span
		Tok   string
		Label *Ident
	}

	LabeledStmt struct {
		Span
		Label *Ident
		Body  Stmt
	}

	VarDecl struct {
		Span
		Kind  string
		Decls []*VarDeclarator
	}

	FuncDecl struct {
		Span
		Func *FuncLit
	}

	ClassDecl struct {
		Span
		Class *ClassLit
	}

	// ForStmt is a classic three-clause loop. Init is a *VarDecl, an Expr
	// or nil.
	ForStmt struct {
		Span
		Init   Node
		Test   Expr
		Update Expr
		Body   Stmt
	}

	// ForInStmt is a for-in, for-of or for-await-of loop. Left is a
	// *VarDecl or an Expr.
	ForInStmt struct {
		Span
		Of    bool
		Await bool
		Left  Node
		Right Expr
		Body  Stmt
	}

	WhileStmt struct {
		Span
		Test Expr
		Body Stmt
	}

	DoWhileStmt struct {
		Span
		Body Stmt
		Test Expr
	}

	WithStmt struct {
		Span
		Object Expr
		Body   Stmt
	}

	SwitchStmt struct {
		Span
		Disc  Expr
		Cases []*CaseClause
	}

	TryStmt struct {
		Span
		Block     *BlockStmt
		Param     Expr
		Handler   *BlockStmt
		Finalizer *BlockStmt
	}

	DebuggerStmt struct {
		Span
	}

	// ImportDecl is kept opaque; only its span is recorded.
	ImportDecl struct {
		Span
	}

	// ExportDecl wraps an exported declaration, a default export
	// expression, or (with both nil) an export list or re-export.
	ExportDecl struct {
		Span
		Decl    Stmt
		Default Expr
	}
)

func (*BlockStmt) stmtNode()    {}
func (*EmptyStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
func (*IfStmt) stmtNode()       {}
func (*ReturnStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()    {}
func (*BranchStmt) stmtNode()   {}
func (*LabeledStmt) stmtNode()  {}
func (*VarDecl) stmtNode()      {}
func (*FuncDecl) stmtNode()     {}
func (*ClassDecl) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*ForInStmt) stmtNode()    {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*WithStmt) stmtNode()     {}
func (*SwitchStmt) stmtNode()   {}
func (*TryStmt) stmtNode()      {}
func (*DebuggerStmt) stmtNode() {}
func (*ImportDecl) stmtNode()   {}
func (*ExportDecl) stmtNode()   {}

type VarDeclarator struct {
	Span
	Target Expr
	Init   Expr
}

// CaseClause is a case or, when Test is nil, the default clause.
type CaseClause struct {
	Span
	Test Expr
	Body []Stmt
}
