package jsast

import (
	"fmt"
	"go/token"
)

// parser is a recursive-descent parser over the token slice produced by the
// scanner. Syntax errors abort parsing via a bailout panic that Parse
// recovers, in the style of go/parser.
type parser struct {
	file    *File
	toks    []Token
	i       int
	tok     Token
	prevEnd int

	noIn        bool // inside a for-statement head, "in" is not an operator
	inAsync     bool
	inGenerator bool
	funcDepth   int
}

type bailout struct {
	err error
}

// Parse parses JavaScript source. The filename is only used for positions.
func Parse(filename string, src []byte) (f *File, err error) {
	fset := token.NewFileSet()
	tf := fset.AddFile(filename, -1, len(src))
	tf.SetLinesForContent(src)

	file := &File{Name: filename, Src: src, Fset: fset, tf: tf}

	toks, comments, err := scan(tf, src)
	if err != nil {
		return nil, err
	}
	file.Comments = comments

	p := &parser{file: file, toks: toks, tok: toks[0]}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			f, err = nil, b.err
		}
	}()

	for p.tok.Kind != EOF {
		file.Body = append(file.Body, p.parseStatement())
	}
	return file, nil
}

/***** token helpers *****/

func (p *parser) next() {
	p.prevEnd = p.tok.End
	if p.i < len(p.toks)-1 {
		p.i++
	}
	p.tok = p.toks[p.i]
}

func (p *parser) peek(n int) Token {
	if j := p.i + n; j < len(p.toks) {
		return p.toks[j]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) isPunct(v string) bool {
	return p.tok.Kind == Punct && p.tok.Value == v
}

func (p *parser) isWord(v string) bool {
	return p.tok.Kind == IdentToken && p.tok.Value == v
}

func (p *parser) expect(v string) int {
	if !p.tok.is(v) {
		p.errorf("expected %q, found %s", v, p.tok)
	}
	pos := p.tok.Pos
	p.next()
	return pos
}

func (p *parser) errorf(format string, args ...any) {
	panic(bailout{err: &SyntaxError{
		Pos: p.file.Position(p.tok.Pos),
		Msg: fmt.Sprintf(format, args...),
	}})
}

// semicolon consumes a statement terminator, applying automatic semicolon
// insertion before "}", at end of input, and after a line break.
func (p *parser) semicolon() {
	if p.isPunct(";") {
		p.next()
		return
	}
	if p.isPunct("}") || p.tok.Kind == EOF || p.tok.NewlineBefore {
		return
	}
	p.errorf("expected \";\", found %s", p.tok)
}

// skipBalanced consumes a bracketed token group starting at the current
// opening bracket.
func (p *parser) skipBalanced() {
	depth := 0
	for {
		switch {
		case p.tok.Kind == EOF:
			p.errorf("unexpected end of input")
		case p.isPunct("{") || p.isPunct("(") || p.isPunct("["):
			depth++
		case p.isPunct("}") || p.isPunct(")") || p.isPunct("]"):
			depth--
		}
		p.next()
		if depth == 0 {
			return
		}
	}
}

// enterFunc switches the parser into a new function context and returns a
// func restoring the previous one.
func (p *parser) enterFunc(async, generator bool) func() {
	oldAsync, oldGen, oldIn := p.inAsync, p.inGenerator, p.noIn
	p.inAsync, p.inGenerator, p.noIn = async, generator, false
	p.funcDepth++
	return func() {
		p.inAsync, p.inGenerator, p.noIn = oldAsync, oldGen, oldIn
		p.funcDepth--
	}
}

// allowIn re-enables the "in" operator inside brackets.
func (p *parser) allowIn() func() {
	old := p.noIn
	p.noIn = false
	return func() { p.noIn = old }
}

/***** statements *****/

func (p *parser) parseStatement() Stmt {
	tok := p.tok
	switch tok.Kind {
	case Punct:
		switch tok.Value {
		case "{":
			return p.parseBlock()
		case ";":
			p.next()
			return &EmptyStmt{Span: Span{tok.Pos, p.prevEnd}}
		}
	case IdentToken:
		switch tok.Value {
		case "var", "const":
			return p.parseVarStatement()
		case "let":
			if p.letStartsDecl() {
				return p.parseVarStatement()
			}
		case "function":
			fn := p.parseFunction(tok.Pos)
			return &FuncDecl{Span: fn.Span, Func: fn}
		case "async":
			if next := p.peek(1); next.is("function") && !next.NewlineBefore {
				fn := p.parseFunction(tok.Pos)
				return &FuncDecl{Span: fn.Span, Func: fn}
			}
		case "class":
			c := p.parseClass()
			return &ClassDecl{Span: c.Span, Class: c}
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "with":
			return p.parseWith()
		case "return":
			return p.parseReturn()
		case "throw":
			return p.parseThrow()
		case "break", "continue":
			return p.parseBranch()
		case "switch":
			return p.parseSwitch()
		case "try":
			return p.parseTry()
		case "debugger":
			p.next()
			p.semicolon()
			return &DebuggerStmt{Span: Span{tok.Pos, p.prevEnd}}
		case "import":
			if next := p.peek(1); !next.is("(") && !next.is(".") {
				return p.parseImport()
			}
		case "export":
			return p.parseExport()
		default:
			if p.peek(1).is(":") && !statementOnlyWords[tok.Value] {
				return p.parseLabeled()
			}
		}
	}
	return p.parseExprStatement()
}

func (p *parser) letStartsDecl() bool {
	next := p.peek(1)
	return next.Kind == IdentToken || next.is("[") || next.is("{")
}

func (p *parser) parseBlock() *BlockStmt {
	start := p.expect("{")
	var list []Stmt
	for !p.isPunct("}") {
		if p.tok.Kind == EOF {
			p.errorf("unexpected end of input, expected \"}\"")
		}
		list = append(list, p.parseStatement())
	}
	p.next()
	return &BlockStmt{Span: Span{start, p.prevEnd}, List: list}
}

func (p *parser) parseExprStatement() *ExprStmt {
	start := p.tok.Pos
	x := p.parseExpression()
	p.semicolon()
	return &ExprStmt{Span: Span{start, p.prevEnd}, X: x}
}

func (p *parser) parseVarStatement() *VarDecl {
	decl := p.parseVarDecl()
	p.semicolon()
	decl.To = p.prevEnd
	return decl
}

func (p *parser) parseVarDecl() *VarDecl {
	start := p.tok.Pos
	kind := p.tok.Value
	p.next()

	var decls []*VarDeclarator
	for {
		from := p.tok.Pos
		target := p.parseBindingTarget()
		var init Expr
		if p.isPunct("=") {
			p.next()
			init = p.parseAssign()
		}
		decls = append(decls, &VarDeclarator{Span: Span{from, p.prevEnd}, Target: target, Init: init})
		if !p.isPunct(",") {
			break
		}
		p.next()
	}
	return &VarDecl{Span: Span{start, p.prevEnd}, Kind: kind, Decls: decls}
}

func (p *parser) parseIf() *IfStmt {
	start := p.expect("if")
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")
	cons := p.parseStatement()
	var alt Stmt
	if p.isWord("else") {
		p.next()
		alt = p.parseStatement()
	}
	return &IfStmt{Span: Span{start, p.prevEnd}, Test: test, Cons: cons, Alt: alt}
}

func (p *parser) parseFor() Stmt {
	start := p.expect("for")
	await := false
	if p.isWord("await") {
		await = true
		p.next()
	}
	p.expect("(")

	var init Node
	if !p.isPunct(";") {
		old := p.noIn
		p.noIn = true
		if p.isWord("var") || p.isWord("const") || (p.isWord("let") && p.letStartsDecl()) {
			init = p.parseVarDecl()
		} else {
			init = p.parseExpression()
		}
		p.noIn = old

		if p.isWord("of") || p.isWord("in") {
			of := p.tok.Value == "of"
			p.next()
			var right Expr
			if of {
				right = p.parseAssign()
			} else {
				right = p.parseExpression()
			}
			p.expect(")")
			body := p.parseStatement()
			return &ForInStmt{
				Span:  Span{start, p.prevEnd},
				Of:    of,
				Await: await,
				Left:  init,
				Right: right,
				Body:  body,
			}
		}
	}

	p.expect(";")
	var test, update Expr
	if !p.isPunct(";") {
		test = p.parseExpression()
	}
	p.expect(";")
	if !p.isPunct(")") {
		update = p.parseExpression()
	}
	p.expect(")")
	body := p.parseStatement()
	return &ForStmt{Span: Span{start, p.prevEnd}, Init: init, Test: test, Update: update, Body: body}
}

func (p *parser) parseWhile() *WhileStmt {
	start := p.expect("while")
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")
	body := p.parseStatement()
	return &WhileStmt{Span: Span{start, p.prevEnd}, Test: test, Body: body}
}

func (p *parser) parseDoWhile() *DoWhileStmt {
	start := p.expect("do")
	body := p.parseStatement()
	p.expect("while")
	p.expect("(")
	test := p.parseExpression()
	p.expect(")")
	// the semicolon after do-while is always optional
	if p.isPunct(";") {
		p.next()
	}
	return &DoWhileStmt{Span: Span{start, p.prevEnd}, Body: body, Test: test}
}

func (p *parser) parseWith() *WithStmt {
	start := p.expect("with")
	p.expect("(")
	obj := p.parseExpression()
	p.expect(")")
	body := p.parseStatement()
	return &WithStmt{Span: Span{start, p.prevEnd}, Object: obj, Body: body}
}

func (p *parser) parseReturn() *ReturnStmt {
	start := p.expect("return")
	var x Expr
	if !p.isPunct(";") && !p.isPunct("}") && p.tok.Kind != EOF && !p.tok.NewlineBefore {
		x = p.parseExpression()
	}
	p.semicolon()
	return &ReturnStmt{Span: Span{start, p.prevEnd}, X: x}
}

func (p *parser) parseThrow() *ThrowStmt {
	start := p.expect("throw")
	if p.tok.NewlineBefore {
		p.errorf("illegal newline after throw")
	}
	x := p.parseExpression()
	p.semicolon()
	return &ThrowStmt{Span: Span{start, p.prevEnd}, X: x}
}

func (p *parser) parseBranch() *BranchStmt {
	start := p.tok.Pos
	tok := p.tok.Value
	p.next()
	var label *Ident
	if p.tok.Kind == IdentToken && !p.tok.NewlineBefore && !statementOnlyWords[p.tok.Value] {
		label = p.parseIdent()
	}
	p.semicolon()
	return &BranchStmt{Span: Span{start, p.prevEnd}, Tok: tok, Label: label}
}

func (p *parser) parseLabeled() *LabeledStmt {
	start := p.tok.Pos
	label := p.parseIdent()
	p.expect(":")
	body := p.parseStatement()
	return &LabeledStmt{Span: Span{start, p.prevEnd}, Label: label, Body: body}
}

func (p *parser) parseSwitch() *SwitchStmt {
	start := p.expect("switch")
	p.expect("(")
	disc := p.parseExpression()
	p.expect(")")
	p.expect("{")

	var cases []*CaseClause
	for !p.isPunct("}") {
		from := p.tok.Pos
		var test Expr
		switch {
		case p.isWord("case"):
			p.next()
			test = p.parseExpression()
		case p.isWord("default"):
			p.next()
		default:
			p.errorf("expected case or default, found %s", p.tok)
		}
		p.expect(":")
		var body []Stmt
		for !p.isWord("case") && !p.isWord("default") && !p.isPunct("}") {
			if p.tok.Kind == EOF {
				p.errorf("unexpected end of input in switch")
			}
			body = append(body, p.parseStatement())
		}
		cases = append(cases, &CaseClause{Span: Span{from, p.prevEnd}, Test: test, Body: body})
	}
	p.next()
	return &SwitchStmt{Span: Span{start, p.prevEnd}, Disc: disc, Cases: cases}
}

func (p *parser) parseTry() *TryStmt {
	start := p.expect("try")
	stmt := &TryStmt{Block: p.parseBlock()}
	if p.isWord("catch") {
		p.next()
		if p.isPunct("(") {
			p.next()
			stmt.Param = p.parseBindingTarget()
			p.expect(")")
		}
		stmt.Handler = p.parseBlock()
	}
	if p.isWord("finally") {
		p.next()
		stmt.Finalizer = p.parseBlock()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.errorf("missing catch or finally after try")
	}
	stmt.Span = Span{start, p.prevEnd}
	return stmt
}

func (p *parser) parseImport() *ImportDecl {
	start := p.expect("import")
	for p.tok.Kind != String {
		switch {
		case p.tok.Kind == EOF || p.isPunct(";"):
			p.errorf("expected module specifier, found %s", p.tok)
		case p.isPunct("{"):
			p.skipBalanced()
		default:
			p.next()
		}
	}
	p.next()
	p.skipImportAttributes()
	p.semicolon()
	return &ImportDecl{Span: Span{start, p.prevEnd}}
}

func (p *parser) skipImportAttributes() {
	if (p.isWord("with") || p.isWord("assert")) && !p.tok.NewlineBefore && p.peek(1).is("{") {
		p.next()
		p.skipBalanced()
	}
}

func (p *parser) parseExport() *ExportDecl {
	start := p.expect("export")

	switch {
	case p.isWord("default"):
		p.next()
		switch {
		case p.isWord("function"), p.isWord("async") && p.peek(1).is("function") && !p.peek(1).NewlineBefore:
			fn := p.parseFunction(p.tok.Pos)
			decl := &FuncDecl{Span: fn.Span, Func: fn}
			return &ExportDecl{Span: Span{start, p.prevEnd}, Decl: decl}
		case p.isWord("class"):
			c := p.parseClass()
			decl := &ClassDecl{Span: c.Span, Class: c}
			return &ExportDecl{Span: Span{start, p.prevEnd}, Decl: decl}
		}
		x := p.parseAssign()
		p.semicolon()
		return &ExportDecl{Span: Span{start, p.prevEnd}, Default: x}

	case p.isPunct("*") || p.isPunct("{"):
		if p.isPunct("*") {
			p.next()
			if p.isWord("as") {
				p.next()
				p.next()
			}
		} else {
			p.skipBalanced()
		}
		if p.isWord("from") {
			p.next()
			if p.tok.Kind != String {
				p.errorf("expected module specifier, found %s", p.tok)
			}
			p.next()
			p.skipImportAttributes()
		}
		p.semicolon()
		return &ExportDecl{Span: Span{start, p.prevEnd}}
	}

	decl := p.parseStatement()
	return &ExportDecl{Span: Span{start, p.prevEnd}, Decl: decl}
}

/***** functions and classes *****/

// parseFunction parses "[async] function [*] [name] (params) { body }".
func (p *parser) parseFunction(start int) *FuncLit {
	async := false
	if p.isWord("async") {
		async = true
		p.next()
	}
	p.expect("function")
	gen := false
	if p.isPunct("*") {
		gen = true
		p.next()
	}
	var name *Ident
	if p.tok.Kind == IdentToken {
		name = p.parseIdent()
	}
	params := p.parseParams()
	body := p.parseFunctionBody(async, gen)
	return &FuncLit{
		Span:      Span{start, p.prevEnd},
		Name:      name,
		Params:    params,
		Body:      body,
		Async:     async,
		Generator: gen,
	}
}

func (p *parser) parseFunctionBody(async, generator bool) *BlockStmt {
	restore := p.enterFunc(async, generator)
	defer restore()
	return p.parseBlock()
}

func (p *parser) parseMethod(start int, async, generator bool) *FuncLit {
	params := p.parseParams()
	body := p.parseFunctionBody(async, generator)
	return &FuncLit{
		Span:      Span{start, p.prevEnd},
		Params:    params,
		Body:      body,
		Async:     async,
		Generator: generator,
	}
}

func (p *parser) parseParams() []Expr {
	p.expect("(")
	defer p.allowIn()()

	var params []Expr
	for !p.isPunct(")") {
		if p.isPunct("...") {
			from := p.tok.Pos
			p.next()
			target := p.parseBindingTarget()
			params = append(params, &SpreadElement{Span: Span{from, p.prevEnd}, X: target})
		} else {
			params = append(params, p.parseBindingElement())
		}
		if !p.isPunct(",") {
			break
		}
		p.next()
	}
	p.expect(")")
	return params
}

func (p *parser) parseBindingElement() Expr {
	start := p.tok.Pos
	target := p.parseBindingTarget()
	if !p.isPunct("=") {
		return target
	}
	p.next()
	value := p.parseAssign()
	return &AssignExpr{Span: Span{start, p.prevEnd}, Op: "=", Target: target, Value: value}
}

func (p *parser) parseBindingTarget() Expr {
	switch {
	case p.isPunct("["):
		return p.parseArrayLit()
	case p.isPunct("{"):
		return p.parseObjectLit()
	case p.tok.Kind == IdentToken:
		return p.parseIdent()
	}
	p.errorf("expected binding target, found %s", p.tok)
	return nil
}

func (p *parser) parseClass() *ClassLit {
	start := p.expect("class")
	var name *Ident
	if p.tok.Kind == IdentToken && !p.isWord("extends") {
		name = p.parseIdent()
	}
	var super Expr
	if p.isWord("extends") {
		p.next()
		super = p.parseCallMember()
	}
	p.expect("{")
	var members []*ClassMember
	for !p.isPunct("}") {
		if p.tok.Kind == EOF {
			p.errorf("unexpected end of input in class body")
		}
		if p.isPunct(";") {
			p.next()
			continue
		}
		members = append(members, p.parseClassMember())
	}
	p.next()
	return &ClassLit{Span: Span{start, p.prevEnd}, Name: name, Super: super, Members: members}
}

func (p *parser) parseClassMember() *ClassMember {
	start := p.tok.Pos
	m := &ClassMember{Kind: MemberMethod}

	if p.isWord("static") && !p.isKeyEnd(1) {
		if p.peek(1).is("{") {
			p.next()
			m.Kind = MemberStaticBlock
			m.Static = true
			m.Block = p.parseFunctionBody(false, false)
			m.Span = Span{start, p.prevEnd}
			return m
		}
		m.Static = true
		p.next()
	}

	async, gen := p.parseMethodModifiers()
	if !async && !gen && (p.isWord("get") || p.isWord("set")) && !p.isKeyEnd(1) {
		m.Kind = MemberGet
		if p.tok.Value == "set" {
			m.Kind = MemberSet
		}
		p.next()
	}

	m.Key, m.Computed = p.parsePropertyKey()
	if p.isPunct("(") {
		if id, ok := m.Key.(*Ident); ok && !m.Computed && id.Name == "constructor" && m.Kind == MemberMethod {
			m.Kind = MemberConstructor
		}
		m.Value = p.parseMethod(p.tok.Pos, async, gen)
		m.Span = Span{start, p.prevEnd}
		return m
	}

	m.Kind = MemberField
	if p.isPunct("=") {
		p.next()
		restore := p.enterFunc(false, false)
		m.Value = p.parseAssign()
		restore()
	}
	p.semicolon()
	m.Span = Span{start, p.prevEnd}
	return m
}

// parseMethodModifiers consumes the async and generator markers of a
// method definition.
func (p *parser) parseMethodModifiers() (async, gen bool) {
	if p.isWord("async") && !p.isKeyEnd(1) && !p.peek(1).NewlineBefore {
		async = true
		p.next()
	}
	if p.isPunct("*") {
		gen = true
		p.next()
	}
	return async, gen
}

// isKeyEnd reports whether the token n ahead ends a property key, meaning
// the current word is itself the key rather than a modifier.
func (p *parser) isKeyEnd(n int) bool {
	t := p.peek(n)
	if t.Kind != Punct {
		return t.Kind == EOF
	}
	switch t.Value {
	case "(", ",", ":", "}", "=", ";":
		return true
	}
	return false
}

func (p *parser) parsePropertyKey() (Expr, bool) {
	tok := p.tok
	switch tok.Kind {
	case IdentToken, PrivateName:
		p.next()
		return &Ident{Span: Span{tok.Pos, tok.End}, Name: tok.Value}, false
	case String:
		p.next()
		return &Literal{Span: Span{tok.Pos, tok.End}, Kind: LitString, Raw: tok.Value}, false
	case Number:
		p.next()
		return &Literal{Span: Span{tok.Pos, tok.End}, Kind: LitNumber, Raw: tok.Value}, false
	case Punct:
		if tok.Value == "[" {
			p.next()
			restore := p.allowIn()
			key := p.parseAssign()
			restore()
			p.expect("]")
			return key, true
		}
	}
	p.errorf("expected property name, found %s", tok)
	return nil, false
}

/***** expressions *****/

func (p *parser) parseExpression() Expr {
	start := p.tok.Pos
	x := p.parseAssign()
	if !p.isPunct(",") {
		return x
	}
	list := []Expr{x}
	for p.isPunct(",") {
		p.next()
		list = append(list, p.parseAssign())
	}
	return &SeqExpr{Span: Span{start, p.prevEnd}, List: list}
}

func (p *parser) parseAssign() Expr {
	if arrow := p.tryArrow(); arrow != nil {
		return arrow
	}
	if p.isWord("yield") && p.inGenerator {
		return p.parseYield()
	}

	start := p.tok.Pos
	x := p.parseConditional()
	if p.tok.Kind == Punct && assignOps[p.tok.Value] {
		op := p.tok.Value
		p.next()
		value := p.parseAssign()
		return &AssignExpr{Span: Span{start, p.prevEnd}, Op: op, Target: x, Value: value}
	}
	return x
}

// tryArrow parses an arrow function if one starts at the current token.
func (p *parser) tryArrow() Expr {
	start := p.tok.Pos
	async := false
	k := 0
	if p.isWord("async") {
		next := p.peek(1)
		if !next.NewlineBefore &&
			((next.Kind == IdentToken && p.peek(2).is("=>")) || (next.is("(") && p.arrowAfterParen(p.i+1))) {
			async = true
			k = 1
		}
	}

	t := p.peek(k)
	switch {
	case t.Kind == IdentToken && !statementOnlyWords[t.Value] && p.peek(k+1).is("=>") && !p.peek(k+1).NewlineBefore:
		if async {
			p.next()
		}
		param := p.parseIdent()
		return p.parseArrowRest(start, []Expr{param}, async)
	case t.is("(") && p.arrowAfterParen(p.i+k):
		if async {
			p.next()
		}
		params := p.parseParams()
		return p.parseArrowRest(start, params, async)
	}
	return nil
}

// arrowAfterParen reports whether the parenthesised group opening at token
// index idx is followed by "=>" on the same line.
func (p *parser) arrowAfterParen(idx int) bool {
	depth := 0
	for j := idx; j < len(p.toks); j++ {
		t := p.toks[j]
		switch {
		case t.Kind == EOF:
			return false
		case t.is("(") || t.is("[") || t.is("{"):
			depth++
		case t.is(")") || t.is("]") || t.is("}"):
			depth--
			if depth == 0 {
				if j+1 >= len(p.toks) {
					return false
				}
				arrow := p.toks[j+1]
				return arrow.is("=>") && !arrow.NewlineBefore
			}
		}
	}
	return false
}

func (p *parser) parseArrowRest(start int, params []Expr, async bool) *ArrowFunc {
	p.expect("=>")
	var body Node
	if p.isPunct("{") {
		body = p.parseFunctionBody(async, false)
	} else {
		restore := p.enterFunc(async, false)
		body = p.parseAssign()
		restore()
	}
	return &ArrowFunc{Span: Span{start, p.prevEnd}, Params: params, Body: body, Async: async}
}

func (p *parser) parseYield() Expr {
	start := p.expect("yield")
	delegate := false
	if p.isPunct("*") && !p.tok.NewlineBefore {
		delegate = true
		p.next()
	}
	var x Expr
	if delegate || (!p.tok.NewlineBefore && p.startsExpr()) {
		x = p.parseAssign()
	}
	return &YieldExpr{Span: Span{start, p.prevEnd}, Delegate: delegate, X: x}
}

// startsExpr reports whether the current token can begin an operand.
func (p *parser) startsExpr() bool {
	switch p.tok.Kind {
	case EOF:
		return false
	case Punct:
		switch p.tok.Value {
		case ")", "]", "}", ",", ";", ":", "=>", "?", "=":
			return false
		}
	case IdentToken:
		return p.tok.Value != "in" && p.tok.Value != "of" && p.tok.Value != "instanceof"
	}
	return true
}

func (p *parser) parseConditional() Expr {
	start := p.tok.Pos
	x := p.parseBinary(0)
	if !p.isPunct("?") {
		return x
	}
	p.next()
	restore := p.allowIn()
	cons := p.parseAssign()
	restore()
	p.expect(":")
	alt := p.parseAssign()
	return &CondExpr{Span: Span{start, p.prevEnd}, Test: x, Cons: cons, Alt: alt}
}

func (p *parser) binaryPrec() int {
	switch p.tok.Kind {
	case Punct:
		return binaryPrec[p.tok.Value]
	case IdentToken:
		switch p.tok.Value {
		case "instanceof":
			return relationalPrec
		case "in":
			if !p.noIn {
				return relationalPrec
			}
		}
	}
	return 0
}

// parseBinary parses binary operators binding tighter than minPrec by
// precedence climbing. Exponentiation is right-associative.
func (p *parser) parseBinary(minPrec int) Expr {
	start := p.tok.Pos
	x := p.parseUnary()
	for {
		prec := p.binaryPrec()
		if prec == 0 || prec <= minPrec {
			return x
		}
		op := p.tok.Value
		p.next()

		var y Expr
		if op == "**" {
			y = p.parseBinary(prec - 1)
		} else {
			y = p.parseBinary(prec)
		}

		span := Span{start, p.prevEnd}
		switch op {
		case "&&", "||", "??":
			x = &LogicalExpr{Span: span, Op: op, X: x, Y: y}
		default:
			x = &BinaryExpr{Span: span, Op: op, X: x, Y: y}
		}
	}
}

func (p *parser) parseUnary() Expr {
	start := p.tok.Pos
	switch p.tok.Kind {
	case Punct:
		switch op := p.tok.Value; op {
		case "!", "-", "+", "~":
			p.next()
			x := p.parseUnary()
			return &UnaryExpr{Span: Span{start, p.prevEnd}, Op: op, X: x}
		case "++", "--":
			p.next()
			x := p.parseUnary()
			return &UpdateExpr{Span: Span{start, p.prevEnd}, Op: op, Prefix: true, X: x}
		}
	case IdentToken:
		switch op := p.tok.Value; op {
		case "typeof", "void", "delete":
			p.next()
			x := p.parseUnary()
			return &UnaryExpr{Span: Span{start, p.prevEnd}, Op: op, X: x}
		case "await":
			if p.inAsync || (p.funcDepth == 0 && p.awaitOperandFollows()) {
				p.next()
				x := p.parseUnary()
				return &UnaryExpr{Span: Span{start, p.prevEnd}, Op: op, X: x}
			}
		}
	}
	return p.parsePostfix()
}

// awaitOperandFollows decides whether a top-level "await" is the module
// await operator or a plain identifier.
func (p *parser) awaitOperandFollows() bool {
	next := p.peek(1)
	if next.NewlineBefore {
		return false
	}
	switch next.Kind {
	case IdentToken:
		return !statementOnlyWords[next.Value] && next.Value != "in" &&
			next.Value != "of" && next.Value != "instanceof"
	case Number, String, Template, Regexp, PrivateName:
		return true
	case Punct:
		return next.Value == "(" || next.Value == "!"
	}
	return false
}

func (p *parser) parsePostfix() Expr {
	start := p.tok.Pos
	x := p.parseCallMember()
	if (p.isPunct("++") || p.isPunct("--")) && !p.tok.NewlineBefore {
		op := p.tok.Value
		p.next()
		return &UpdateExpr{Span: Span{start, p.prevEnd}, Op: op, X: x}
	}
	return x
}

func (p *parser) parseCallMember() Expr {
	start := p.tok.Pos
	var x Expr
	if p.isWord("new") {
		x = p.parseNew()
	} else {
		x = p.parsePrimary()
	}
	return p.parseSuffixes(start, x, true)
}

func (p *parser) parseNew() Expr {
	start := p.expect("new")
	if p.isPunct(".") {
		p.next()
		prop := p.parsePropertyName()
		return &MetaProp{Span: Span{start, p.prevEnd}, Meta: "new", Prop: prop.Name}
	}

	calleeStart := p.tok.Pos
	var callee Expr
	if p.isWord("new") {
		callee = p.parseNew()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseSuffixes(calleeStart, callee, false)

	var args []Expr
	if p.isPunct("(") {
		args = p.parseArgs()
	}
	return &NewExpr{Span: Span{start, p.prevEnd}, Callee: callee, Args: args}
}

// parseSuffixes parses member accesses, calls and tagged templates
// following x. Calls are not consumed when parsing the callee of new.
func (p *parser) parseSuffixes(start int, x Expr, allowCall bool) Expr {
	for {
		switch {
		case p.isPunct("."):
			p.next()
			prop := p.parsePropertyName()
			x = &MemberExpr{Span: Span{start, p.prevEnd}, X: x, Prop: prop}
		case p.isPunct("?."):
			if !allowCall {
				p.errorf("invalid optional chain in new expression")
			}
			p.next()
			switch {
			case p.isPunct("("):
				args := p.parseArgs()
				x = &CallExpr{Span: Span{start, p.prevEnd}, Callee: x, Args: args, Optional: true}
			case p.isPunct("["):
				p.next()
				restore := p.allowIn()
				prop := p.parseExpression()
				restore()
				p.expect("]")
				x = &MemberExpr{Span: Span{start, p.prevEnd}, X: x, Prop: prop, Computed: true, Optional: true}
			default:
				prop := p.parsePropertyName()
				x = &MemberExpr{Span: Span{start, p.prevEnd}, X: x, Prop: prop, Optional: true}
			}
		case p.isPunct("["):
			p.next()
			restore := p.allowIn()
			prop := p.parseExpression()
			restore()
			p.expect("]")
			x = &MemberExpr{Span: Span{start, p.prevEnd}, X: x, Prop: prop, Computed: true}
		case p.isPunct("(") && allowCall:
			args := p.parseArgs()
			x = &CallExpr{Span: Span{start, p.prevEnd}, Callee: x, Args: args}
		case p.tok.Kind == Template:
			quasi := &Literal{Span: Span{p.tok.Pos, p.tok.End}, Kind: LitTemplate, Raw: p.tok.Value}
			p.next()
			x = &TaggedTemplate{Span: Span{start, p.prevEnd}, Tag: x, Quasi: quasi}
		default:
			return x
		}
	}
}

func (p *parser) parseArgs() []Expr {
	p.expect("(")
	defer p.allowIn()()

	var args []Expr
	for !p.isPunct(")") {
		args = append(args, p.parseElement())
		if !p.isPunct(")") {
			p.expect(",")
		}
	}
	p.next()
	return args
}

// parseElement parses an array element or call argument, which may be spread.
func (p *parser) parseElement() Expr {
	if !p.isPunct("...") {
		return p.parseAssign()
	}
	start := p.tok.Pos
	p.next()
	x := p.parseAssign()
	return &SpreadElement{Span: Span{start, p.prevEnd}, X: x}
}

func (p *parser) parsePropertyName() *Ident {
	tok := p.tok
	if tok.Kind != IdentToken && tok.Kind != PrivateName {
		p.errorf("expected property name, found %s", tok)
	}
	p.next()
	return &Ident{Span: Span{tok.Pos, tok.End}, Name: tok.Value}
}

func (p *parser) parseIdent() *Ident {
	tok := p.tok
	if tok.Kind != IdentToken {
		p.errorf("expected identifier, found %s", tok)
	}
	p.next()
	return &Ident{Span: Span{tok.Pos, tok.End}, Name: tok.Value}
}

func (p *parser) parsePrimary() Expr {
	tok := p.tok
	span := Span{tok.Pos, tok.End}

	switch tok.Kind {
	case Number:
		p.next()
		return &Literal{Span: span, Kind: LitNumber, Raw: tok.Value}
	case String:
		p.next()
		return &Literal{Span: span, Kind: LitString, Raw: tok.Value}
	case Template:
		p.next()
		return &Literal{Span: span, Kind: LitTemplate, Raw: tok.Value}
	case Regexp:
		p.next()
		return &Literal{Span: span, Kind: LitRegexp, Raw: tok.Value}
	case PrivateName:
		p.next()
		return &Ident{Span: span, Name: tok.Value}
	case Punct:
		switch tok.Value {
		case "(":
			return p.parseParen()
		case "[":
			return p.parseArrayLit()
		case "{":
			return p.parseObjectLit()
		}
	case IdentToken:
		switch tok.Value {
		case "function":
			return p.parseFunction(tok.Pos)
		case "async":
			if next := p.peek(1); next.is("function") && !next.NewlineBefore {
				return p.parseFunction(tok.Pos)
			}
		case "class":
			return p.parseClass()
		case "null":
			p.next()
			return &Literal{Span: span, Kind: LitNull, Raw: tok.Value}
		case "true", "false":
			p.next()
			return &Literal{Span: span, Kind: LitBool, Raw: tok.Value}
		case "import":
			p.next()
			if p.isPunct(".") {
				p.next()
				prop := p.parsePropertyName()
				return &MetaProp{Span: Span{tok.Pos, p.prevEnd}, Meta: "import", Prop: prop.Name}
			}
			return &Ident{Span: span, Name: tok.Value}
		}
		if statementOnlyWords[tok.Value] {
			p.errorf("unexpected keyword %s", tok)
		}
		p.next()
		return &Ident{Span: span, Name: tok.Value}
	case EOF:
		p.errorf("unexpected end of input")
	}
	p.errorf("unexpected token %s", tok)
	return nil
}

func (p *parser) parseParen() *ParenExpr {
	start := p.expect("(")
	restore := p.allowIn()
	x := p.parseExpression()
	restore()
	p.expect(")")
	return &ParenExpr{Span: Span{start, p.prevEnd}, X: x}
}

func (p *parser) parseArrayLit() *ArrayLit {
	start := p.expect("[")
	defer p.allowIn()()

	var elems []Expr
	for !p.isPunct("]") {
		if p.isPunct(",") {
			p.next()
			elems = append(elems, nil)
			continue
		}
		elems = append(elems, p.parseElement())
		if !p.isPunct("]") {
			p.expect(",")
		}
	}
	p.next()
	return &ArrayLit{Span: Span{start, p.prevEnd}, Elems: elems}
}

func (p *parser) parseObjectLit() *ObjectLit {
	start := p.expect("{")
	defer p.allowIn()()

	var props []*Property
	for !p.isPunct("}") {
		props = append(props, p.parseProperty())
		if !p.isPunct("}") {
			p.expect(",")
		}
	}
	p.next()
	return &ObjectLit{Span: Span{start, p.prevEnd}, Props: props}
}

func (p *parser) parseProperty() *Property {
	start := p.tok.Pos

	if p.isPunct("...") {
		p.next()
		x := p.parseAssign()
		spread := &SpreadElement{Span: Span{start, p.prevEnd}, X: x}
		return &Property{Span: spread.Span, Kind: PropSpread, Value: spread}
	}

	kind := PropInit
	async, gen := p.parseMethodModifiers()
	if !async && !gen && (p.isWord("get") || p.isWord("set")) && !p.isKeyEnd(1) {
		kind = PropGet
		if p.tok.Value == "set" {
			kind = PropSet
		}
		p.next()
	}

	key, computed := p.parsePropertyKey()
	if p.isPunct("(") {
		fn := p.parseMethod(p.tok.Pos, async, gen)
		if kind == PropInit {
			kind = PropMethod
		}
		return &Property{Span: Span{start, p.prevEnd}, Kind: kind, Key: key, Computed: computed, Value: fn}
	}
	if kind != PropInit || async || gen {
		p.errorf("expected \"(\", found %s", p.tok)
	}

	if p.isPunct(":") {
		p.next()
		value := p.parseAssign()
		return &Property{Span: Span{start, p.prevEnd}, Kind: PropInit, Key: key, Computed: computed, Value: value}
	}

	id, ok := key.(*Ident)
	if !ok || computed {
		p.errorf("expected \":\", found %s", p.tok)
	}
	var value Expr = id
	if p.isPunct("=") {
		// default value in an object pattern: {a = 1} = obj
		p.next()
		def := p.parseAssign()
		value = &AssignExpr{Span: Span{start, p.prevEnd}, Op: "=", Target: id, Value: def}
	}
	return &Property{Span: Span{start, p.prevEnd}, Kind: PropShorthand, Key: key, Value: value}
}
