package parser

import (
	"strings"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/token"
)

// Приоритеты (от слабого к сильному):
// or < and < not < сравнения < & (join) < + - < * / % < унарный минус < primary

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseOr()
}

type binLevel struct {
	ops  map[token.Kind]ast.BinaryOp
	next func(*Parser) (ast.ExprID, bool)
}

var (
	orOps      = map[token.Kind]ast.BinaryOp{token.KwOr: ast.OpOr}
	andOps     = map[token.Kind]ast.BinaryOp{token.KwAnd: ast.OpAnd}
	compareOps = map[token.Kind]ast.BinaryOp{
		token.Assign: ast.OpEq, token.BangEq: ast.OpNe,
		token.Lt: ast.OpLt, token.Gt: ast.OpGt,
		token.LtEq: ast.OpLe, token.GtEq: ast.OpGe,
	}
	joinOps = map[token.Kind]ast.BinaryOp{token.Amp: ast.OpJoin}
	addOps  = map[token.Kind]ast.BinaryOp{token.Plus: ast.OpAdd, token.Minus: ast.OpSub}
	mulOps  = map[token.Kind]ast.BinaryOp{token.Star: ast.OpMul, token.Slash: ast.OpDiv, token.Percent: ast.OpMod}
)

// parseBinary — общий левоассоциативный цикл для одного уровня приоритета.
func (p *Parser) parseBinary(level binLevel) (ast.ExprID, bool) {
	left, ok := level.next(p)
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op, isOp := level.ops[p.lx.Peek().Kind]
		if !isOp {
			return left, true
		}
		p.advance()
		right, ok := level.next(p)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(span, op, left, right)
	}
}

func (p *Parser) parseOr() (ast.ExprID, bool) {
	return p.parseBinary(binLevel{ops: orOps, next: (*Parser).parseAnd})
}

func (p *Parser) parseAnd() (ast.ExprID, bool) {
	return p.parseBinary(binLevel{ops: andOps, next: (*Parser).parseNot})
}

func (p *Parser) parseNot() (ast.ExprID, bool) {
	if !p.at(token.KwNot) {
		return p.parseCompare()
	}
	kw := p.advance()
	operand, ok := p.parseNot()
	if !ok {
		return ast.NoExprID, false
	}
	span := kw.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(span, ast.OpNot, operand), true
}

func (p *Parser) parseCompare() (ast.ExprID, bool) {
	return p.parseBinary(binLevel{ops: compareOps, next: (*Parser).parseJoin})
}

func (p *Parser) parseJoin() (ast.ExprID, bool) {
	return p.parseBinary(binLevel{ops: joinOps, next: (*Parser).parseAdd})
}

func (p *Parser) parseAdd() (ast.ExprID, bool) {
	return p.parseBinary(binLevel{ops: addOps, next: (*Parser).parseMul})
}

func (p *Parser) parseMul() (ast.ExprID, bool) {
	return p.parseBinary(binLevel{ops: mulOps, next: (*Parser).parseUnary})
}

// -x; минус перед числовым литералом сворачиваем в сам литерал.
func (p *Parser) parseUnary() (ast.ExprID, bool) {
	if !p.at(token.Minus) {
		return p.parsePrimary()
	}
	minus := p.advance()
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	span := minus.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	if lit, isLit := p.arenas.Exprs.Lit(operand); isLit && lit.Kind == ast.LitNumber {
		value := "-" + lit.Value
		if rest, neg := strings.CutPrefix(lit.Value, "-"); neg {
			value = rest
		}
		return p.arenas.Exprs.NewLit(span, ast.LitNumber, value), true
	}
	return p.arenas.Exprs.NewUnary(span, ast.OpNeg, operand), true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitNumber, tok.Value), true
	case token.StringLit:
		p.advance()
		return p.arenas.Exprs.NewLit(tok.Span, ast.LitString, tok.Value), true
	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(open.Span.Cover(closeTok.Span), inner), true
	case token.Ident:
		name, _ := p.parseIdent()
		switch {
		case p.at(token.LBracket):
			index, ok := p.parseBracketIndex()
			if !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewIndex(name.Span.Cover(p.lastSpan), name, index), true
		case p.at(token.LParen):
			args, ok := p.parseCallArgs()
			if !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewCall(name.Span.Cover(p.lastSpan), name, args), true
		}
		return p.arenas.Exprs.NewIdent(name.Span, name), true
	default:
		p.err(diag.SynExpectExpression, "expected expression, got \""+p.describePeek()+"\"")
		return ast.NoExprID, false
	}
}

// ( [expr (, expr)*] )
func (p *Parser) parseCallArgs() ([]ast.ExprID, bool) {
	p.advance() // '('
	args := make([]ast.ExprID, 0)
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close argument list"); !ok {
		return nil, false
	}
	return args, true
}
