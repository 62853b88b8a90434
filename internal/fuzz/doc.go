// Package fuzztests houses Go fuzz harnesses that exercise the front half of
// the goboscript pipeline (source -> lexer -> parser -> resolver). Its goal
// is to smoke test robustness and guard against panics or hangs on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и резолвер.
//
// Не делает: генерацию архивов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/ast, internal/symbols, internal/testkit.
package fuzztests
