// Package token defines lexical token kinds and trivia for goboscript sources.
// Invariants:
//   - Token.Span matches the source bytes the token was scanned from.
//   - Token.Text of identifiers and strings is NFC-normalised; for strings it
//     keeps the surrounding quotes and escapes.
//   - Builtin block names (say, move, wait, ...) are identifiers.
//     They are recognised by the resolver, not the lexer.
package token
