// Package sema validates a parsed spec before any code is planned.
//
// Validate stops at the first violation and returns it as *diag.Error.
// Check walks the whole spec and reports every violation, which is what
// lint mode wants. Both run the same checks in the same order, so the
// first diagnostic of Check is always the error Validate returns.
//
// Per module the order is:
//
//  1. non-empty category and error lists
//  2. identifier emptiness and characters
//  3. identifier case
//  4. reserved words
//  5. type-name overrides against reserved output identifiers, then
//     collisions between generated type names
//  6. name uniqueness (case-insensitive)
//
// Steps 2-5 run identifier by identifier. Module-name uniqueness across the
// spec is checked after all modules.
package sema
