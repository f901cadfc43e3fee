// Package ir provides the foundational types for provsim: token trees,
// the category registry, and their portable and canonical encodings.
//
// This package imports nothing internal. Every other internal package
// imports ir, which keeps it the bottom layer with no import cycles.
//
// Key constraints:
//   - Category and importance are leaf-only; interior tokens aggregate them
//   - Sibling names are unique (Token.Validate rejects duplicates)
//   - All JSON tags use snake_case
//   - Content hashes use canonical JSON with domain separation
package ir
