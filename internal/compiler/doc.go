// Package compiler turns CUE category-registry definitions into an
// ir.Registry.
//
// A registry file declares the ordered categories and their percentage
// weights:
//
//	categories: [
//		{id: "data", weight: 30},
//		{id: "visual", weight: 20},
//	]
//
// Compilation is two-phase: CompileRegistry extracts the categories from
// the CUE value (structural errors are *CompileError with a source
// position), then ValidateCategories checks the semantic rules and reports
// every violation as a coded ValidationError.
package compiler
