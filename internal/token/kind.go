package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit is an integer literal (decimal, 0x, 0o or 0b).
	IntLit
	// FloatLit is a literal with a fraction or exponent.
	FloatLit
	// StringLit is a double-quoted string literal.
	StringLit

	KwVar         // var
	KwList        // list
	KwDef         // def
	KwWarp        // warp
	KwNoWarp      // nowarp
	KwOnFlag      // onflag
	KwOnKey       // onkey
	KwOnClick     // onclick
	KwOnBroadcast // onbroadcast
	KwOnClone     // onclone
	KwIf          // if
	KwElse        // else
	KwRepeat      // repeat
	KwUntil       // until
	KwForever     // forever
	KwAdd         // add
	KwTo          // to
	KwDelete      // delete
	KwInsert      // insert
	KwAt          // at
	KwAnd         // and
	KwOr          // or
	KwNot         // not

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Percent     // %
	Amp         // &
	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	Comma       // ,
	Semicolon   // ;
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
)

var kindNames = [...]string{
	Invalid:       "invalid",
	EOF:           "end of file",
	Ident:         "identifier",
	IntLit:        "integer",
	FloatLit:      "number",
	StringLit:     "string",
	KwVar:         "var",
	KwList:        "list",
	KwDef:         "def",
	KwWarp:        "warp",
	KwNoWarp:      "nowarp",
	KwOnFlag:      "onflag",
	KwOnKey:       "onkey",
	KwOnClick:     "onclick",
	KwOnBroadcast: "onbroadcast",
	KwOnClone:     "onclone",
	KwIf:          "if",
	KwElse:        "else",
	KwRepeat:      "repeat",
	KwUntil:       "until",
	KwForever:     "forever",
	KwAdd:         "add",
	KwTo:          "to",
	KwDelete:      "delete",
	KwInsert:      "insert",
	KwAt:          "at",
	KwAnd:         "and",
	KwOr:          "or",
	KwNot:         "not",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Amp:           "&",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	BangEq:        "!=",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	Comma:         ",",
	Semicolon:     ";",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
}

// String returns the spelling used in diagnostics.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
