package token

var keywords = map[string]Kind{
	"var":         KwVar,
	"list":        KwList,
	"def":         KwDef,
	"warp":        KwWarp,
	"nowarp":      KwNoWarp,
	"onflag":      KwOnFlag,
	"onkey":       KwOnKey,
	"onclick":     KwOnClick,
	"onbroadcast": KwOnBroadcast,
	"onclone":     KwOnClone,
	"if":          KwIf,
	"else":        KwElse,
	"repeat":      KwRepeat,
	"until":       KwUntil,
	"forever":     KwForever,
	"add":         KwAdd,
	"to":          KwTo,
	"delete":      KwDelete,
	"insert":      KwInsert,
	"at":          KwAt,
	"and":         KwAnd,
	"or":          KwOr,
	"not":         KwNot,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые — только lowercase версии распознаются.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
