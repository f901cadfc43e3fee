package provenance

import "github.com/roach88/provsim/internal/ir"

// TokenSource produces the token tree an object contributes to a state.
// A nil tree means the object has nothing to contribute.
type TokenSource interface {
	StateTokenTree() *ir.Token
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() *ir.Token

// StateTokenTree implements TokenSource.
func (f TokenSourceFunc) StateTokenTree() *ir.Token {
	return f()
}

// StaticTree is a TokenSource that always returns the same tree.
type StaticTree struct {
	Tree *ir.Token
}

// StateTokenTree implements TokenSource.
func (s StaticTree) StateTokenTree() *ir.Token {
	return s.Tree
}
