package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Синтаксические
	SynUnexpectedToken    Code = 2001
	SynUnexpectedTopLevel Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectSemicolon    Code = 2004
	SynExpectExpression   Code = 2005
	SynExpectBlock        Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedParen      Code = 2008
	SynUnclosedBracket    Code = 2009
	SynExpectString       Code = 2010
	SynExpectDef          Code = 2011

	// Семантические
	SemaDuplicateSymbol    Code = 3002
	SemaNameCollision      Code = 3003
	SemaShadowSymbol       Code = 3004
	SemaUndefinedVariable  Code = 3005
	SemaUndefinedFunction  Code = 3006
	SemaUndefinedList      Code = 3007
	SemaArgumentCount      Code = 3008
	SemaDuplicateParam     Code = 3009
	SemaBuiltinRedefined   Code = 3010
	SemaAssignToParam      Code = 3011
	SemaUnusedParam        Code = 3012
	SemaNonConstInit       Code = 3013
	SemaWarpYields         Code = 3014
	SemaActorOnlyBlock     Code = 3015
	SemaNotAList           Code = 3016
	SemaUnknownReporter    Code = 3017

	// Проект
	CfgUnknownKey Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexBadEscape:                "Unknown escape sequence",
	SynUnexpectedToken:          "Unexpected token",
	SynUnexpectedTopLevel:       "Unexpected top-level construct",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectSemicolon:          "Expected semicolon",
	SynExpectExpression:         "Expected expression",
	SynExpectBlock:              "Expected block",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBracket:          "Unclosed bracket",
	SynExpectString:             "Expected string literal",
	SynExpectDef:                "Expected 'def'",
	SemaDuplicateSymbol:         "Duplicate declaration",
	SemaNameCollision:           "Name collides with a function",
	SemaShadowSymbol:            "Local declaration shadows a stage declaration",
	SemaUndefinedVariable:       "Undefined variable",
	SemaUndefinedFunction:       "Undefined function",
	SemaUndefinedList:           "Undefined list",
	SemaArgumentCount:           "Wrong number of arguments",
	SemaDuplicateParam:          "Duplicate parameter",
	SemaBuiltinRedefined:        "Function redefines a builtin block",
	SemaAssignToParam:           "Assignment to parameter",
	SemaUnusedParam:             "Unused parameter",
	SemaNonConstInit:            "Initializer is not a literal",
	SemaWarpYields:              "Warp function can yield",
	SemaActorOnlyBlock:          "Block is not available on the stage",
	SemaNotAList:                "Indexed name is not a list",
	SemaUnknownReporter:         "Unknown reporter",
	CfgUnknownKey:               "Unknown config key",
}

// IsParse reports whether the code belongs to the lexer or parser ranges.
func (c Code) IsParse() bool {
	return c >= 1000 && c < 3000
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
