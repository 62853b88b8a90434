package parser

import (
	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/token"
)

// var x [= expr];
func (p *Parser) parseVarItem() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	init := ast.NoExprID
	if p.at(token.Assign) {
		p.advance()
		if init, ok = p.parseExpr(); !ok {
			return ast.NoItemID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variable declaration")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewVar(kw.Span.Cover(semi.Span), name, init), true
}

// list L [= [a, b, ...]];
func (p *Parser) parseListItem() (ast.ItemID, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	var init []ast.ExprID
	if p.at(token.Assign) {
		p.advance()
		if _, ok = p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '[' to start list initializer"); !ok {
			return ast.NoItemID, false
		}
		init = make([]ast.ExprID, 0)
		for !p.at(token.RBracket) && !p.at(token.EOF) {
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoItemID, false
			}
			init = append(init, e)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok = p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' to close list initializer"); !ok {
			return ast.NoItemID, false
		}
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after list declaration")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.Items.NewList(kw.Span.Cover(semi.Span), name, init), true
}

// [warp|nowarp] def name [a, b, ...] { ... }
func (p *Parser) parseFnItem() (ast.ItemID, bool) {
	start := p.lx.Peek().Span
	fn := ast.FnItem{Warp: ast.WarpDefault}
	switch p.lx.Peek().Kind {
	case token.KwWarp:
		fn.Warp = ast.WarpOn
		fn.WarpSpan = p.advance().Span
	case token.KwNoWarp:
		fn.Warp = ast.WarpOff
		fn.WarpSpan = p.advance().Span
	}
	if _, ok := p.expect(token.KwDef, diag.SynExpectDef, "expected 'def' after warp annotation"); !ok {
		return ast.NoItemID, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Name = name
	fn.Params = make(ast.Names, 0)
	if p.at(token.Ident) {
		for {
			param, ok := p.parseIdent()
			if !ok {
				return ast.NoItemID, false
			}
			fn.Params = append(fn.Params, param)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	fn.Body = body
	return p.arenas.Items.NewFn(start.Cover(p.lastSpan), fn), true
}

// onflag|onclick|onclone { } ; onkey "k" { } ; onbroadcast "m" { }
func (p *Parser) parseEventItem() (ast.ItemID, bool) {
	kw := p.advance()
	ev := ast.EventItem{}
	switch kw.Kind {
	case token.KwOnFlag:
		ev.Event = ast.EventFlag
	case token.KwOnClick:
		ev.Event = ast.EventClick
	case token.KwOnClone:
		ev.Event = ast.EventClone
	case token.KwOnKey:
		ev.Event = ast.EventKey
	case token.KwOnBroadcast:
		ev.Event = ast.EventBroadcast
	}
	if ev.Event == ast.EventKey || ev.Event == ast.EventBroadcast {
		arg, ok := p.expect(token.StringLit, diag.SynExpectString, "expected string after '"+kw.Text+"'")
		if !ok {
			return ast.NoItemID, false
		}
		ev.Arg = arg.Value
		ev.ArgSpan = arg.Span
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	ev.Body = body
	return p.arenas.Items.NewEvent(kw.Span.Cover(p.lastSpan), ev), true
}
