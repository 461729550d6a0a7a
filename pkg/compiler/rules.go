package compiler

import "github.com/kristofer/clox/pkg/lexer"

// Precedence orders clox's binary operators from loosest- to
// tightest-binding; parsePrecedence consumes infix operators whose
// precedence is at least as high as the level it was called with.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// ruleSpec is one row of the Pratt table: the prefix parser to use when a
// token starts an expression, the infix parser to use when it appears
// between two expressions, and the infix operator's precedence. Entries
// are Go method expressions ((*Parser).grouping has type
// func(*Parser, bool)), so the table is built once at package init and
// every Parser instance shares it.
type ruleSpec struct {
	prefix     func(*Parser, bool)
	infix      func(*Parser, bool)
	precedence Precedence
}

var rules map[lexer.TokenType]ruleSpec

func init() {
	rules = map[lexer.TokenType]ruleSpec{
		lexer.TokenLeftParen:    {prefix: (*Parser).grouping, infix: (*Parser).call, precedence: PrecCall},
		lexer.TokenDot:          {infix: (*Parser).dot, precedence: PrecCall},
		lexer.TokenMinus:        {prefix: (*Parser).unary, infix: (*Parser).binary, precedence: PrecTerm},
		lexer.TokenPlus:         {infix: (*Parser).binary, precedence: PrecTerm},
		lexer.TokenSlash:        {infix: (*Parser).binary, precedence: PrecFactor},
		lexer.TokenStar:         {infix: (*Parser).binary, precedence: PrecFactor},
		lexer.TokenBang:         {prefix: (*Parser).unary},
		lexer.TokenBangEqual:    {infix: (*Parser).binary, precedence: PrecEquality},
		lexer.TokenEqualEqual:   {infix: (*Parser).binary, precedence: PrecEquality},
		lexer.TokenGreater:      {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenGreaterEqual: {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenLess:         {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenLessEqual:    {infix: (*Parser).binary, precedence: PrecComparison},
		lexer.TokenIdentifier:   {prefix: (*Parser).variable},
		lexer.TokenString:       {prefix: (*Parser).stringLiteral},
		lexer.TokenNumber:       {prefix: (*Parser).number},
		lexer.TokenAnd:          {infix: (*Parser).and_, precedence: PrecAnd},
		lexer.TokenOr:           {infix: (*Parser).or_, precedence: PrecOr},
		lexer.TokenFalse:        {prefix: (*Parser).literal},
		lexer.TokenNil:          {prefix: (*Parser).literal},
		lexer.TokenTrue:         {prefix: (*Parser).literal},
		lexer.TokenThis:         {prefix: (*Parser).this_},
		lexer.TokenSuper:        {prefix: (*Parser).super_},
	}
}

func getRule(tt lexer.TokenType) ruleSpec {
	return rules[tt] // zero value has precedence PrecNone and nil funcs
}

func (p *Parser) parsePrecedence(precedence Precedence) {
	p.advance()
	rule := getRule(p.previous.Type)
	if rule.prefix == nil {
		p.error("Expect expression.")
		return
	}
	canAssign := precedence <= PrecAssignment
	rule.prefix(p, canAssign)

	for precedence <= getRule(p.current.Type).precedence {
		p.advance()
		infixRule := getRule(p.previous.Type)
		infixRule.infix(p, canAssign)
	}

	if canAssign && p.match(lexer.TokenEqual) {
		p.error("Invalid assignment target.")
	}
}
