package parser

import (
	"slices"

	"goboscript/internal/ast"
	"goboscript/internal/diag"
	"goboscript/internal/lexer"
	"goboscript/internal/source"
	"goboscript/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	// Errors counts syntax errors reported by the parser itself; lexer
	// errors go straight to the reporter.
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(lx.EmptySpan()),
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	p.parseItems()
	return Result{
		File:   p.file,
		Errors: p.opts.CurrentErrors,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseItems — основной цикл верхнего уровня: пока не EOF — parseItem.
func (p *Parser) parseItems() {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		p.arenas.PushItem(p.file, itemID)
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lx.Peek().Span)
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwVar:
		return p.parseVarItem()
	case token.KwList:
		return p.parseListItem()
	case token.KwDef, token.KwWarp, token.KwNoWarp:
		return p.parseFnItem()
	case token.KwOnFlag, token.KwOnClick, token.KwOnClone, token.KwOnKey, token.KwOnBroadcast:
		return p.parseEventItem()
	default:
		p.err(diag.SynUnexpectedTopLevel, "unexpected top-level construct \""+p.lx.Peek().Text+"\"")
		p.advance()
		return ast.NoItemID, false
	}
}

// resyncTop — восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующего item ИЛИ EOF.
func (p *Parser) resyncTop() {
	for !p.at(token.EOF) {
		tok := p.lx.Peek()
		if tok.IsItemStarter() {
			return
		}
		p.advance()
		if tok.Kind == token.Semicolon {
			return
		}
	}
}

// parseIdent — утилита: ожидает Ident и возвращает ast.Name с NFC текстом.
func (p *Parser) parseIdent() (ast.Name, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.Name{Text: tok.Value, Span: tok.Span}, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.describePeek()+"\"")
	return ast.Name{}, false
}

func (p *Parser) describePeek() string {
	tok := p.lx.Peek()
	if tok.Kind == token.EOF {
		return tok.Kind.String()
	}
	return tok.Text
}
