// Package diag defines the diagnostic model shared by every compiler phase.
//
// A Diagnostic carries a Severity, a numeric Code, a message, a primary
// source.Span and optional notes. Codes are grouped by phase: LEX (1xxx) and
// SYN (2xxx) are parse failures, SEM (3xxx) are findings of the resolver and
// the code generator. Diagnostic.IsParse tells the two kinds apart.
//
// Phases emit through a Reporter so they do not care where diagnostics end up.
// BagReporter collects them into a Bag, one Bag per compiled unit; diagnostics
// never move between units. Summary is built once at the end of a build from
// every unit's Bag and decides the exit status.
//
// Rendering lives in internal/diagfmt.
package diag
