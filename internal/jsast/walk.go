package jsast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a syntax tree in depth-first order, in the manner of
// go/ast.Walk. Nil children are skipped.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Ident, *Literal, *MetaProp, *EmptyStmt, *DebuggerStmt, *ImportDecl:
		// leaves

	case *ParenExpr:
		Walk(v, n.X)
	case *UnaryExpr:
		Walk(v, n.X)
	case *UpdateExpr:
		Walk(v, n.X)
	case *BinaryExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *LogicalExpr:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *CondExpr:
		Walk(v, n.Test)
		Walk(v, n.Cons)
		Walk(v, n.Alt)
	case *AssignExpr:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *SeqExpr:
		walkExprList(v, n.List)
	case *CallExpr:
		Walk(v, n.Callee)
		walkExprList(v, n.Args)
	case *NewExpr:
		Walk(v, n.Callee)
		walkExprList(v, n.Args)
	case *MemberExpr:
		Walk(v, n.X)
		Walk(v, n.Prop)
	case *TaggedTemplate:
		Walk(v, n.Tag)
		Walk(v, n.Quasi)
	case *SpreadElement:
		Walk(v, n.X)
	case *ArrayLit:
		walkExprList(v, n.Elems)
	case *ObjectLit:
		for _, p := range n.Props {
			Walk(v, p)
		}
	case *Property:
		if n.Key != nil {
			Walk(v, n.Key)
		}
		Walk(v, n.Value)
	case *YieldExpr:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *FuncLit:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		walkExprList(v, n.Params)
		Walk(v, n.Body)
	case *ArrowFunc:
		walkExprList(v, n.Params)
		Walk(v, n.Body)
	case *ClassLit:
		if n.Name != nil {
			Walk(v, n.Name)
		}
		if n.Super != nil {
			Walk(v, n.Super)
		}
		for _, m := range n.Members {
			Walk(v, m)
		}
	case *ClassMember:
		if n.Key != nil {
			Walk(v, n.Key)
		}
		if n.Value != nil {
			Walk(v, n.Value)
		}
		if n.Block != nil {
			Walk(v, n.Block)
		}

	case *BlockStmt:
		walkStmtList(v, n.List)
	case *ExprStmt:
		Walk(v, n.X)
	case *IfStmt:
		Walk(v, n.Test)
		Walk(v, n.Cons)
		if n.Alt != nil {
			Walk(v, n.Alt)
		}
	case *ReturnStmt:
		if n.X != nil {
			Walk(v, n.X)
		}
	case *ThrowStmt:
		Walk(v, n.X)
	case *BranchStmt:
		if n.Label != nil {
			Walk(v, n.Label)
		}
	case *LabeledStmt:
		Walk(v, n.Label)
		Walk(v, n.Body)
	case *VarDecl:
		for _, d := range n.Decls {
			Walk(v, d)
		}
	case *VarDeclarator:
		Walk(v, n.Target)
		if n.Init != nil {
			Walk(v, n.Init)
		}
	case *FuncDecl:
		Walk(v, n.Func)
	case *ClassDecl:
		Walk(v, n.Class)
	case *ForStmt:
		if n.Init != nil {
			Walk(v, n.Init)
		}
		if n.Test != nil {
			Walk(v, n.Test)
		}
		if n.Update != nil {
			Walk(v, n.Update)
		}
		Walk(v, n.Body)
	case *ForInStmt:
		Walk(v, n.Left)
		Walk(v, n.Right)
		Walk(v, n.Body)
	case *WhileStmt:
		Walk(v, n.Test)
		Walk(v, n.Body)
	case *DoWhileStmt:
		Walk(v, n.Body)
		Walk(v, n.Test)
	case *WithStmt:
		Walk(v, n.Object)
		Walk(v, n.Body)
	case *SwitchStmt:
		Walk(v, n.Disc)
		for _, c := range n.Cases {
			Walk(v, c)
		}
	case *CaseClause:
		if n.Test != nil {
			Walk(v, n.Test)
		}
		walkStmtList(v, n.Body)
	case *TryStmt:
		Walk(v, n.Block)
		if n.Param != nil {
			Walk(v, n.Param)
		}
		if n.Handler != nil {
			Walk(v, n.Handler)
		}
		if n.Finalizer != nil {
			Walk(v, n.Finalizer)
		}
	case *ExportDecl:
		if n.Decl != nil {
			Walk(v, n.Decl)
		}
		if n.Default != nil {
			Walk(v, n.Default)
		}

	default:
		panic(fmt.Sprintf("jsast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

func walkExprList(v Visitor, list []Expr) {
	for _, x := range list {
		// array holes
		if x != nil {
			Walk(v, x)
		}
	}
}

func walkStmtList(v Visitor, list []Stmt) {
	for _, s := range list {
		Walk(v, s)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses a syntax tree in depth-first order: it starts by
// calling f(node); node must not be nil. If f returns true, Inspect invokes
// f recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// WalkFile walks every top-level statement of f.
func WalkFile(v Visitor, f *File) {
	walkStmtList(v, f.Body)
}

// InspectFile is Inspect over every top-level statement of f.
func InspectFile(f *File, fn func(Node) bool) {
	WalkFile(inspector(fn), f)
}
