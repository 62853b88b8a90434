package parser

import (
	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/token"
)

func (p *Parser) parseBlock() (ast.StmtID, bool) {
	openTok, ok := p.expect(token.LBrace, diag.SynExpectBlock, "expected '{' to start block")
	if !ok {
		return ast.NoStmtID, false
	}
	stmtIDs := make([]ast.StmtID, 0)

	for !p.at(token.EOF) && !p.at(token.RBrace) {
		stmtID, ok := p.parseStmt()
		if ok {
			stmtIDs = append(stmtIDs, stmtID)
			continue
		}
		// ошибка при парсинге statement — восстанавливаемся до следующего statement
		p.resyncStatement()
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(openTok.Span.Cover(closeTok.Span), stmtIDs), true
}

func (p *Parser) resyncStatement() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.LBrace)
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.at(token.LBrace):
		// пропускаем вложенный блок целиком, чтобы не сломать баланс скобок
		depth := 0
		for !p.at(token.EOF) {
			switch p.advance().Kind {
			case token.LBrace:
				depth++
			case token.RBrace:
				depth--
			}
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwRepeat, token.KwUntil:
		return p.parseLoopStmt()
	case token.KwForever:
		kw := p.advance()
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewLoop(ast.StmtForever, kw.Span.Cover(p.lastSpan), ast.NoExprID, body), true
	case token.KwAdd:
		return p.parseAddStmt()
	case token.KwDelete:
		return p.parseDeleteStmt()
	case token.KwInsert:
		return p.parseInsertStmt()
	case token.Ident:
		return p.parseIdentStmt()
	default:
		p.err(diag.SynUnexpectedToken, "unexpected \""+p.describePeek()+"\" in statement position")
		return ast.NoStmtID, false
	}
}

func (p *Parser) expectSemi(what string) bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+what)
	return ok
}

// if cond { } [else { } | else if ...]
func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	kw := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	els := ast.NoStmtID
	if p.at(token.KwElse) {
		p.advance()
		if p.at(token.KwIf) {
			els, ok = p.parseIfStmt()
		} else {
			els, ok = p.parseBlock()
		}
		if !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(kw.Span.Cover(p.lastSpan), cond, then, els), true
}

// repeat n { } ; until cond { }
func (p *Parser) parseLoopStmt() (ast.StmtID, bool) {
	kw := p.advance()
	kind := ast.StmtRepeat
	if kw.Kind == token.KwUntil {
		kind = ast.StmtUntil
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLoop(kind, kw.Span.Cover(p.lastSpan), cond, body), true
}

// add v to L;
func (p *Parser) parseAddStmt() (ast.StmtID, bool) {
	kw := p.advance()
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.KwTo, diag.SynUnexpectedToken, "expected 'to' after value"); !ok {
		return ast.NoStmtID, false
	}
	list, ok := p.parseIdent()
	if !ok || !p.expectSemi("'add'") {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewListOp(ast.StmtListAdd, kw.Span.Cover(p.lastSpan), list, ast.NoExprID, value), true
}

// delete L; delete L[i];
func (p *Parser) parseDeleteStmt() (ast.StmtID, bool) {
	kw := p.advance()
	list, ok := p.parseIdent()
	if !ok {
		return ast.NoStmtID, false
	}
	index := ast.NoExprID
	if p.at(token.LBracket) {
		if index, ok = p.parseBracketIndex(); !ok {
			return ast.NoStmtID, false
		}
	}
	if !p.expectSemi("'delete'") {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewListOp(ast.StmtListDelete, kw.Span.Cover(p.lastSpan), list, index, ast.NoExprID), true
}

// insert v at L[i];
func (p *Parser) parseInsertStmt() (ast.StmtID, bool) {
	kw := p.advance()
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.KwAt, diag.SynUnexpectedToken, "expected 'at' after value"); !ok {
		return ast.NoStmtID, false
	}
	list, ok := p.parseIdent()
	if !ok {
		return ast.NoStmtID, false
	}
	index, ok := p.parseBracketIndex()
	if !ok || !p.expectSemi("'insert'") {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewListOp(ast.StmtListInsert, kw.Span.Cover(p.lastSpan), list, index, value), true
}

func (p *Parser) parseBracketIndex() (ast.ExprID, bool) {
	if _, ok := p.expect(token.LBracket, diag.SynUnexpectedToken, "expected '['"); !ok {
		return ast.NoExprID, false
	}
	index, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok = p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after index"); !ok {
		return ast.NoExprID, false
	}
	return index, true
}

// x = e; x += e; x -= e; L[i] = e; name args...;
func (p *Parser) parseIdentStmt() (ast.StmtID, bool) {
	name, _ := p.parseIdent()
	switch p.lx.Peek().Kind {
	case token.Assign, token.PlusAssign, token.MinusAssign:
		op := ast.AssignSet
		switch p.advance().Kind {
		case token.PlusAssign:
			op = ast.AssignAdd
		case token.MinusAssign:
			op = ast.AssignSub
		}
		value, ok := p.parseExpr()
		if !ok || !p.expectSemi("assignment") {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAssign(name.Span.Cover(p.lastSpan), op, name, value), true

	case token.LBracket:
		index, ok := p.parseBracketIndex()
		if !ok {
			return ast.NoStmtID, false
		}
		if _, ok = p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after list index"); !ok {
			return ast.NoStmtID, false
		}
		value, ok := p.parseExpr()
		if !ok || !p.expectSemi("assignment") {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewListOp(ast.StmtListSet, name.Span.Cover(p.lastSpan), name, index, value), true
	}

	args := make([]ast.ExprID, 0)
	if !p.at(token.Semicolon) {
		for {
			arg, ok := p.parseExpr()
			if !ok {
				return ast.NoStmtID, false
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if !p.expectSemi("call") {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewCall(name.Span.Cover(p.lastSpan), name, args), true
}
