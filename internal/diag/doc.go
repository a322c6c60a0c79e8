// Package diag defines the diagnostic model shared by the parser, the
// validator, the bit planner and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (diagnostic.go).
//   - Code: numeric identifier with a stable ID ("PRS1018"), a machine name
//     ("NON_UNIQUE_NAME") and a title (codes.go).
//   - Message: one line naming the offending item.
//   - Primary: the source.Span of the spec node, or source.NoSpan when the
//     spec was built in memory or the front-end cannot locate the node.
//   - Notes: optional secondary spans with extra context.
//
// # Emitting diagnostics
//
// Phases that can recover (lint mode) report through a Reporter, usually a
// BagReporter wrapped in Dedup. Fail-fast phases return *Error, which wraps a single
// Diagnostic and satisfies the error interface; CodeOf recovers the code
// from any wrapped chain.
//
// Rendering lives in internal/diagfmt.
package diag
