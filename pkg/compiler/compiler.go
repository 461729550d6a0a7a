// Package compiler implements clox's single-pass compiler: source text goes
// straight to bytecode with no intermediate AST, using Pratt (operator
// precedence) parsing for expressions and ordinary recursive descent for
// statements, scanning and emitting in one pass rather than building and
// then walking a separate AST.
//
// A Compile call walks a chain of funcCompiler values, one per nested
// function/method being compiled, mirroring the way the call stack itself
// nests at runtime: compiling a function literal pushes a new funcCompiler
// with the enclosing one linked through its enclosing field, and popping
// back via endCompiler is what resolveUpvalue walks to find variables
// captured from an outer function.
package compiler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kristofer/clox/pkg/bytecode"
	"github.com/kristofer/clox/pkg/lexer"
	"github.com/kristofer/clox/pkg/object"
	"github.com/kristofer/clox/pkg/value"
)

// FunctionType tags what kind of callable body a funcCompiler is compiling,
// since that changes a handful of behaviors (slot 0's meaning, whether
// `return <expr>` is legal, what an implicit return yields).
type FunctionType int

const (
	TypeFunction FunctionType = iota
	TypeInitializer
	TypeMethod
	TypeScript
)

const maxLocals = 256
const maxUpvalues = 256
const maxParameters = 255
const maxArguments = 255

type local struct {
	name       lexer.Token
	depth      int // -1 means "declared but not yet defined"
	isCaptured bool
}

type upvalueRef struct {
	index   uint8
	isLocal bool
}

// loopRecord tracks one enclosing loop so break/continue can patch their
// jumps and know how many block scopes to unwind. Grounded on the original
// tree-walker's BreakContext tuple of {last_continue, last_break,
// last_scope_depth}, expressed here as a stack of structs instead of a
// save/restore pair around each loop.
type loopRecord struct {
	continueTarget int // LOOP instruction target for `continue`
	breakJumps     []int
	scopeDepth     int // fc.scopeDepth at loop entry; unwind down to this
}

// funcCompiler holds the compile-time state for one function body: its
// locals (a flat stack mirroring the VM's runtime stack slots), the
// upvalues it has had to capture from enclosing functions, and the current
// lexical scope depth.
type funcCompiler struct {
	enclosing *funcCompiler
	function  *object.ObjFunction
	fnType    FunctionType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
	loops      []loopRecord
}

func newFuncCompiler(enclosing *funcCompiler, fnType FunctionType, gc *object.GC) *funcCompiler {
	fc := &funcCompiler{enclosing: enclosing, fnType: fnType, function: gc.NewFunction()}
	// Slot 0 is reserved: for methods and initializers it holds the
	// receiver (`this`); for plain functions and the top-level script it is
	// unnamed and never referenced.
	name := ""
	if fnType == TypeMethod || fnType == TypeInitializer {
		name = "this"
	}
	fc.locals = append(fc.locals, local{name: lexer.Token{Lexeme: name}, depth: 0})
	return fc
}

// classCompiler tracks nested class-body compilation, chained the same way
// funcCompiler is, so `super` and `this` resolve correctly inside methods
// of a class nested lexically inside another class's method.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// Parser drives the whole compile: it owns the token stream and the chain
// of in-progress function and class compilers. There is exactly one Parser
// per Compile call; it is never reused.
type Parser struct {
	lex *lexer.Lexer
	gc  *object.GC

	current  lexer.Token
	previous lexer.Token

	hadError  bool
	panicMode bool
	errOut    io.Writer

	fc    *funcCompiler
	class *classCompiler
}

// Compile compiles source into a top-level ObjFunction (the implicit
// `<script>` function) ready to be wrapped in a closure and run. ok is
// false if any lexical or syntax error was encountered; errOut receives one
// "[line N] Error ...: ..." line per error.
func Compile(source string, gc *object.GC, errOut io.Writer) (fn *object.ObjFunction, ok bool) {
	p := &Parser{lex: lexer.New(source), gc: gc, errOut: errOut}
	p.fc = newFuncCompiler(nil, TypeScript, gc)

	p.advance()
	for !p.match(lexer.TokenEOF) {
		p.declaration()
	}
	fn = p.endCompiler()
	return fn, !p.hadError
}

// --- token stream plumbing ---

func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.NextToken()
		if p.current.Type != lexer.TokenError {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current.Type == tt
}

func (p *Parser) match(tt lexer.TokenType) bool {
	if !p.check(tt) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(tt lexer.TokenType, message string) {
	if p.current.Type == tt {
		p.advance()
		return
	}
	p.errorAtCurrent(message)
}

func (p *Parser) errorAtCurrent(message string) { p.errorAt(p.current, message) }
func (p *Parser) error(message string)          { p.errorAt(p.previous, message) }

func (p *Parser) errorAt(tok lexer.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	fmt.Fprintf(p.errOut, "[line %d] Error", tok.Line)
	switch tok.Type {
	case lexer.TokenEOF:
		fmt.Fprint(p.errOut, " at end")
	case lexer.TokenError:
		// lexeme already *is* the message; no location detail to add
	default:
		fmt.Fprintf(p.errOut, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(p.errOut, ": %s\n", message)
}

// synchronize discards tokens after a syntax error until it reaches a
// plausible statement boundary, so one mistake is reported once instead of
// cascading into dozens of follow-on errors.
func (p *Parser) synchronize() {
	p.panicMode = false
	for p.current.Type != lexer.TokenEOF {
		if p.previous.Type == lexer.TokenSemicolon {
			return
		}
		switch p.current.Type {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}

// --- emission helpers ---

func (p *Parser) chunk() *bytecode.Chunk { return p.fc.function.Chunk }

func (p *Parser) emitByte(b byte) { p.chunk().Write(b, p.previous.Line) }
func (p *Parser) emitOp(op bytecode.OpCode) { p.chunk().WriteOp(op, p.previous.Line) }

func (p *Parser) emitOps(a, b bytecode.OpCode) {
	p.emitOp(a)
	p.emitOp(b)
}

// emitJump emits op followed by a two-byte placeholder operand and returns
// the offset of that placeholder, to be filled in later by patchJump.
func (p *Parser) emitJump(op bytecode.OpCode) int {
	p.emitOp(op)
	return p.chunk().WriteUint16(0xffff, p.previous.Line)
}

func (p *Parser) patchJump(offset int) {
	jump := len(p.chunk().Code) - offset - 2
	if jump > 0xffff {
		p.error("Too much code to jump over.")
		return
	}
	p.chunk().PatchUint16(offset, uint16(jump))
}

// emitLoop emits OP_LOOP with a backward offset to loopStart.
func (p *Parser) emitLoop(loopStart int) {
	p.emitOp(bytecode.OpLoop)
	offset := len(p.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		p.error("Loop body too large.")
		return
	}
	p.chunk().WriteUint16(uint16(offset), p.previous.Line)
}

func (p *Parser) makeConstant(v value.Value) uint16 {
	idx := p.chunk().AddConstant(v)
	if idx > bytecode.MaxConstants-1 {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return uint16(idx)
}

func (p *Parser) emitConstant(v value.Value) {
	idx := p.makeConstant(v)
	p.emitOp(bytecode.OpConstant)
	p.chunk().WriteUint16(idx, p.previous.Line)
}

func (p *Parser) emitReturn() {
	if p.fc.fnType == TypeInitializer {
		// `return;` inside init() yields the instance itself (slot 0 is
		// always `this` for initializers), so `var a = Foo(); a == a.init()`
		// holds.
		p.emitOp(bytecode.OpGetLocal)
		p.emitByte(0)
	} else {
		p.emitOp(bytecode.OpNil)
	}
	p.emitOp(bytecode.OpReturn)
}

func (p *Parser) endCompiler() *object.ObjFunction {
	p.emitReturn()
	fn := p.fc.function
	p.fc = p.fc.enclosing
	return fn
}

func (p *Parser) beginScope() { p.fc.scopeDepth++ }

func (p *Parser) endScope() {
	p.fc.scopeDepth--
	for len(p.fc.locals) > 0 && p.fc.locals[len(p.fc.locals)-1].depth > p.fc.scopeDepth {
		last := p.fc.locals[len(p.fc.locals)-1]
		if last.isCaptured {
			p.emitOp(bytecode.OpCloseUpvalue)
		} else {
			p.emitOp(bytecode.OpPop)
		}
		p.fc.locals = p.fc.locals[:len(p.fc.locals)-1]
	}
}

// --- variable resolution ---

func (p *Parser) identifierConstant(name lexer.Token) uint16 {
	s := p.gc.InternString(name.Lexeme)
	return p.makeConstant(value.FromObj(s))
}

func identifiersEqual(a, b lexer.Token) bool { return a.Lexeme == b.Lexeme }

func (p *Parser) resolveLocal(fc *funcCompiler, name lexer.Token) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		l := &fc.locals[i]
		if identifiersEqual(l.name, name) {
			if l.depth == -1 {
				p.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (p *Parser) resolveUpvalue(fc *funcCompiler, name lexer.Token) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := p.resolveLocal(fc.enclosing, name); local != -1 {
		fc.enclosing.locals[local].isCaptured = true
		return p.addUpvalue(fc, uint8(local), true)
	}
	if up := p.resolveUpvalue(fc.enclosing, name); up != -1 {
		return p.addUpvalue(fc, uint8(up), false)
	}
	return -1
}

func (p *Parser) addUpvalue(fc *funcCompiler, index uint8, isLocal bool) int {
	for i, u := range fc.upvalues {
		if u.index == index && u.isLocal == isLocal {
			return i
		}
	}
	if len(fc.upvalues) == maxUpvalues {
		p.error("Too many closure variables in function.")
		return 0
	}
	fc.upvalues = append(fc.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fc.function.UpvalueCountField++
	return len(fc.upvalues) - 1
}

func (p *Parser) addLocal(name lexer.Token) {
	if len(p.fc.locals) == maxLocals {
		p.error("Too many local variables in function.")
		return
	}
	p.fc.locals = append(p.fc.locals, local{name: name, depth: -1})
}

func (p *Parser) declareVariable() {
	if p.fc.scopeDepth == 0 {
		return
	}
	name := p.previous
	for i := len(p.fc.locals) - 1; i >= 0; i-- {
		l := p.fc.locals[i]
		if l.depth != -1 && l.depth < p.fc.scopeDepth {
			break
		}
		if identifiersEqual(l.name, name) {
			p.error("Already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *Parser) parseVariable(errMessage string) uint16 {
	p.consume(lexer.TokenIdentifier, errMessage)
	p.declareVariable()
	if p.fc.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous)
}

func (p *Parser) markInitialized() {
	if p.fc.scopeDepth == 0 {
		return
	}
	p.fc.locals[len(p.fc.locals)-1].depth = p.fc.scopeDepth
}

func (p *Parser) defineVariable(global uint16) {
	if p.fc.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOp(bytecode.OpDefineGlobal)
	p.chunk().WriteUint16(global, p.previous.Line)
}

// --- declarations & statements ---

func (p *Parser) declaration() {
	switch {
	case p.match(lexer.TokenClass):
		p.classDeclaration()
	case p.match(lexer.TokenFun):
		p.funDeclaration()
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.statement()
	}
	if p.panicMode {
		p.synchronize()
	}
}

func (p *Parser) classDeclaration() {
	p.consume(lexer.TokenIdentifier, "Expect class name.")
	className := p.previous
	nameConstant := p.identifierConstant(p.previous)
	p.declareVariable()

	p.emitOp(bytecode.OpClass)
	p.chunk().WriteUint16(nameConstant, p.previous.Line)
	p.defineVariable(nameConstant)

	cc := &classCompiler{enclosing: p.class}
	p.class = cc

	if p.match(lexer.TokenLess) {
		p.consume(lexer.TokenIdentifier, "Expect superclass name.")
		p.variable(false)
		if identifiersEqual(className, p.previous) {
			p.error("A class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal(lexer.Token{Lexeme: "super"})
		p.defineVariable(0)

		p.namedVariable(className, false)
		p.emitOp(bytecode.OpInherit)
		cc.hasSuperclass = true
	}

	p.namedVariable(className, false)
	p.consume(lexer.TokenLeftBrace, "Expect '{' before class body.")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.method()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after class body.")
	p.emitOp(bytecode.OpPop)

	if cc.hasSuperclass {
		p.endScope()
	}
	p.class = cc.enclosing
}

func (p *Parser) method() {
	p.consume(lexer.TokenIdentifier, "Expect method name.")
	name := p.previous
	constant := p.identifierConstant(name)

	fnType := TypeMethod
	if name.Lexeme == "init" {
		fnType = TypeInitializer
	}
	p.function(fnType)

	p.emitOp(bytecode.OpMethod)
	p.chunk().WriteUint16(constant, p.previous.Line)
}

func (p *Parser) funDeclaration() {
	global := p.parseVariable("Expect function name.")
	p.markInitialized()
	p.function(TypeFunction)
	p.defineVariable(global)
}

func (p *Parser) function(fnType FunctionType) {
	enclosing := p.fc
	p.fc = newFuncCompiler(enclosing, fnType, p.gc)
	if fnType != TypeScript {
		p.fc.function.Name = p.gc.InternString(p.previous.Lexeme)
	}

	p.beginScope()
	p.consume(lexer.TokenLeftParen, "Expect '(' after function name.")
	if !p.check(lexer.TokenRightParen) {
		for {
			p.fc.function.Arity++
			if p.fc.function.Arity > maxParameters {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConstant := p.parseVariable("Expect parameter name.")
			p.defineVariable(paramConstant)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after parameters.")
	p.consume(lexer.TokenLeftBrace, "Expect '{' before function body.")
	p.block()

	fc := p.fc
	fn := p.endCompiler()

	constant := p.makeConstant(value.FromObj(fn))
	p.emitOp(bytecode.OpClosure)
	p.chunk().WriteUint16(constant, p.previous.Line)
	for _, u := range fc.upvalues {
		if u.isLocal {
			p.emitByte(1)
		} else {
			p.emitByte(0)
		}
		p.emitByte(u.index)
	}
}

func (p *Parser) varDeclaration() {
	global := p.parseVariable("Expect variable name.")
	if p.match(lexer.TokenEqual) {
		p.expression()
	} else {
		p.emitOp(bytecode.OpNil)
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	p.defineVariable(global)
}

func (p *Parser) statement() {
	switch {
	case p.match(lexer.TokenPrint):
		p.printStatement()
	case p.match(lexer.TokenFor):
		p.forStatement()
	case p.match(lexer.TokenIf):
		p.ifStatement()
	case p.match(lexer.TokenReturn):
		p.returnStatement()
	case p.match(lexer.TokenWhile):
		p.whileStatement()
	case p.match(lexer.TokenBreak):
		p.breakStatement()
	case p.match(lexer.TokenContinue):
		p.continueStatement()
	case p.match(lexer.TokenLeftBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *Parser) block() {
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.declaration()
	}
	p.consume(lexer.TokenRightBrace, "Expect '}' after block.")
}

func (p *Parser) printStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	p.emitOp(bytecode.OpPrint)
}

func (p *Parser) expressionStatement() {
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	p.emitOp(bytecode.OpPop)
}

func (p *Parser) returnStatement() {
	if p.fc.fnType == TypeScript {
		p.error("Can't return from top-level code.")
	}
	if p.match(lexer.TokenSemicolon) {
		p.emitReturn()
		return
	}
	if p.fc.fnType == TypeInitializer {
		p.error("Can't return a value from an initializer.")
	}
	p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after return value.")
	p.emitOp(bytecode.OpReturn)
}

func (p *Parser) ifStatement() {
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'if'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	thenJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.statement()

	elseJump := p.emitJump(bytecode.OpJump)
	p.patchJump(thenJump)
	p.emitOp(bytecode.OpPop)

	if p.match(lexer.TokenElse) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *Parser) pushLoop(continueTarget int) {
	p.fc.loops = append(p.fc.loops, loopRecord{continueTarget: continueTarget, scopeDepth: p.fc.scopeDepth})
}

func (p *Parser) currentLoop() *loopRecord {
	if len(p.fc.loops) == 0 {
		return nil
	}
	return &p.fc.loops[len(p.fc.loops)-1]
}

func (p *Parser) popLoop() {
	p.fc.loops = p.fc.loops[:len(p.fc.loops)-1]
}

// patchLoopExits resolves every break jump recorded for the loop just
// finished to the instruction right after it.
func (p *Parser) patchLoopExits(lr loopRecord) {
	for _, jump := range lr.breakJumps {
		p.patchJump(jump)
	}
}

func (p *Parser) whileStatement() {
	loopStart := len(p.chunk().Code)
	p.pushLoop(loopStart)

	p.consume(lexer.TokenLeftParen, "Expect '(' after 'while'.")
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after condition.")

	exitJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(bytecode.OpPop)

	lr := *p.currentLoop()
	p.patchLoopExits(lr)
	p.popLoop()
}

func (p *Parser) forStatement() {
	p.beginScope()
	p.consume(lexer.TokenLeftParen, "Expect '(' after 'for'.")
	switch {
	case p.match(lexer.TokenSemicolon):
		// no initializer
	case p.match(lexer.TokenVar):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.chunk().Code)
	exitJump := -1
	if !p.match(lexer.TokenSemicolon) {
		p.expression()
		p.consume(lexer.TokenSemicolon, "Expect ';' after loop condition.")
		exitJump = p.emitJump(bytecode.OpJumpIfFalse)
		p.emitOp(bytecode.OpPop)
	}

	if !p.match(lexer.TokenRightParen) {
		bodyJump := p.emitJump(bytecode.OpJump)
		incrementStart := len(p.chunk().Code)
		p.expression()
		p.emitOp(bytecode.OpPop)
		p.consume(lexer.TokenRightParen, "Expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.pushLoop(loopStart)
	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(bytecode.OpPop)
	}

	lr := *p.currentLoop()
	p.patchLoopExits(lr)
	p.popLoop()
	p.endScope()
}

// unwindLoopLocals emits the pops (or upvalue closes) for every local
// declared since lr's loop entry, used by both break and continue since
// each skips the block-scope endScope that would otherwise do this.
func (p *Parser) unwindLoopLocals(lr *loopRecord) {
	for i := len(p.fc.locals) - 1; i >= 0 && p.fc.locals[i].depth > lr.scopeDepth; i-- {
		if p.fc.locals[i].isCaptured {
			p.emitOp(bytecode.OpCloseUpvalue)
		} else {
			p.emitOp(bytecode.OpPop)
		}
	}
}

func (p *Parser) breakStatement() {
	lr := p.currentLoop()
	if lr == nil {
		p.error("Cannot use 'break' outside of a loop.")
		p.consume(lexer.TokenSemicolon, "Expect ';' after 'break'.")
		return
	}
	p.unwindLoopLocals(lr)
	jump := p.emitJump(bytecode.OpJump)
	lr.breakJumps = append(lr.breakJumps, jump)
	p.consume(lexer.TokenSemicolon, "Expect ';' after 'break'.")
}

func (p *Parser) continueStatement() {
	lr := p.currentLoop()
	if lr == nil {
		p.error("Cannot use 'continue' outside of a loop.")
		p.consume(lexer.TokenSemicolon, "Expect ';' after 'continue'.")
		return
	}
	p.unwindLoopLocals(lr)
	p.emitLoop(lr.continueTarget)
	p.consume(lexer.TokenSemicolon, "Expect ';' after 'continue'.")
}

// --- expression entry point (see rules.go for the Pratt table) ---

func (p *Parser) expression() {
	p.parsePrecedence(PrecAssignment)
}

func (p *Parser) argumentList() uint8 {
	var argCount int
	if !p.check(lexer.TokenRightParen) {
		for {
			p.expression()
			if argCount == maxArguments {
				p.error("Can't have more than 255 arguments.")
			}
			argCount++
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "Expect ')' after arguments.")
	return uint8(argCount)
}

func (p *Parser) namedVariable(name lexer.Token, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	arg := p.resolveLocal(p.fc, name)
	var wide bool
	switch {
	case arg != -1:
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	default:
		if up := p.resolveUpvalue(p.fc, name); up != -1 {
			arg = up
			getOp, setOp = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue
		} else {
			arg = int(p.identifierConstant(name))
			getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
			wide = true
		}
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.expression()
		p.emitOp(setOp)
	} else {
		p.emitOp(getOp)
	}
	if wide {
		p.chunk().WriteUint16(uint16(arg), p.previous.Line)
	} else {
		p.emitByte(byte(arg))
	}
}

func (p *Parser) variable(canAssign bool) {
	p.namedVariable(p.previous, canAssign)
}

func (p *Parser) number(_ bool) {
	n, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("Invalid number literal.")
		return
	}
	p.emitConstant(value.Number(n))
}

func (p *Parser) stringLiteral(_ bool) {
	s := p.previous.Lexeme[1 : len(p.previous.Lexeme)-1]
	p.emitConstant(value.FromObj(p.gc.InternString(s)))
}

func (p *Parser) literal(_ bool) {
	switch p.previous.Type {
	case lexer.TokenFalse:
		p.emitOp(bytecode.OpFalse)
	case lexer.TokenNil:
		p.emitOp(bytecode.OpNil)
	case lexer.TokenTrue:
		p.emitOp(bytecode.OpTrue)
	}
}

func (p *Parser) grouping(_ bool) {
	p.expression()
	p.consume(lexer.TokenRightParen, "Expect ')' after expression.")
}

func (p *Parser) unary(_ bool) {
	opType := p.previous.Type
	p.parsePrecedence(PrecUnary)
	switch opType {
	case lexer.TokenBang:
		p.emitOp(bytecode.OpNot)
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpNegate)
	}
}

func (p *Parser) binary(_ bool) {
	opType := p.previous.Type
	rule := getRule(opType)
	p.parsePrecedence(rule.precedence + 1)

	switch opType {
	case lexer.TokenBangEqual:
		p.emitOps(bytecode.OpEqual, bytecode.OpNot)
	case lexer.TokenEqualEqual:
		p.emitOp(bytecode.OpEqual)
	case lexer.TokenGreater:
		p.emitOp(bytecode.OpGreater)
	case lexer.TokenGreaterEqual:
		p.emitOps(bytecode.OpLess, bytecode.OpNot)
	case lexer.TokenLess:
		p.emitOp(bytecode.OpLess)
	case lexer.TokenLessEqual:
		p.emitOps(bytecode.OpGreater, bytecode.OpNot)
	case lexer.TokenPlus:
		p.emitOp(bytecode.OpAdd)
	case lexer.TokenMinus:
		p.emitOp(bytecode.OpSubtract)
	case lexer.TokenStar:
		p.emitOp(bytecode.OpMultiply)
	case lexer.TokenSlash:
		p.emitOp(bytecode.OpDivide)
	}
}

func (p *Parser) call(_ bool) {
	argCount := p.argumentList()
	p.emitOp(bytecode.OpCall)
	p.emitByte(byte(argCount))
}

func (p *Parser) dot(canAssign bool) {
	p.consume(lexer.TokenIdentifier, "Expect property name after '.'.")
	name := p.identifierConstant(p.previous)

	switch {
	case canAssign && p.match(lexer.TokenEqual):
		p.expression()
		p.emitOp(bytecode.OpSetProperty)
		p.chunk().WriteUint16(name, p.previous.Line)
	case p.match(lexer.TokenLeftParen):
		argCount := p.argumentList()
		p.emitOp(bytecode.OpInvoke)
		p.chunk().WriteUint16(name, p.previous.Line)
		p.emitByte(byte(argCount))
	default:
		p.emitOp(bytecode.OpGetProperty)
		p.chunk().WriteUint16(name, p.previous.Line)
	}
}

func (p *Parser) and_(_ bool) {
	endJump := p.emitJump(bytecode.OpJumpIfFalse)
	p.emitOp(bytecode.OpPop)
	p.parsePrecedence(PrecAnd)
	p.patchJump(endJump)
}

func (p *Parser) or_(_ bool) {
	elseJump := p.emitJump(bytecode.OpJumpIfFalse)
	endJump := p.emitJump(bytecode.OpJump)
	p.patchJump(elseJump)
	p.emitOp(bytecode.OpPop)
	p.parsePrecedence(PrecOr)
	p.patchJump(endJump)
}

func (p *Parser) this_(_ bool) {
	if p.class == nil {
		p.error("Can't use 'this' outside of a class.")
		return
	}
	p.variable(false)
}

func (p *Parser) super_(_ bool) {
	switch {
	case p.class == nil:
		p.error("Can't use 'super' outside of a class.")
	case !p.class.hasSuperclass:
		p.error("Can't use 'super' in a class with no superclass.")
	}

	p.consume(lexer.TokenDot, "Expect '.' after 'super'.")
	p.consume(lexer.TokenIdentifier, "Expect superclass method name.")
	name := p.identifierConstant(p.previous)

	p.namedVariable(lexer.Token{Lexeme: "this"}, false)
	if p.match(lexer.TokenLeftParen) {
		argCount := p.argumentList()
		p.namedVariable(lexer.Token{Lexeme: "super"}, false)
		p.emitOp(bytecode.OpSuperInvoke)
		p.chunk().WriteUint16(name, p.previous.Line)
		p.emitByte(byte(argCount))
	} else {
		p.namedVariable(lexer.Token{Lexeme: "super"}, false)
		p.emitOp(bytecode.OpGetSuper)
		p.chunk().WriteUint16(name, p.previous.Line)
	}
}
