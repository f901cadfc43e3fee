package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainTokenTree = "provsim/token-tree/v1"
	DomainRegistry  = "provsim/registry/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TreeHash computes the content hash of a token tree.
// Two trees hash equal iff they are Equal. A nil tree hashes the empty
// object so stores can still record "no tree" states.
func TreeHash(t *Token) (string, error) {
	canonical, err := MarshalCanonical(CanonicalTree(t))
	if err != nil {
		return "", fmt.Errorf("TreeHash: %w", err)
	}
	return hashWithDomain(DomainTokenTree, canonical), nil
}

// MustTreeHash is like TreeHash but panics on error.
// Use only in tests or when the tree is known to be finite.
func MustTreeHash(t *Token) string {
	h, err := TreeHash(t)
	if err != nil {
		panic(err)
	}
	return h
}

// RegistryHash computes the content hash of a registry, so cached
// similarity results can be keyed by the weighting that produced them.
func RegistryHash(r *Registry) (string, error) {
	cats := make([]any, r.Len())
	for i, c := range r.categories {
		cats[i] = map[string]any{"id": c.ID, "weight": c.Weight}
	}
	canonical, err := MarshalCanonical(cats)
	if err != nil {
		return "", fmt.Errorf("RegistryHash: %w", err)
	}
	return hashWithDomain(DomainRegistry, canonical), nil
}

// CanonicalTree converts a token tree into the generic map form accepted
// by MarshalCanonical.
func CanonicalTree(t *Token) map[string]any {
	if t == nil {
		return map[string]any{}
	}
	if t.IsLeaf() {
		m := map[string]any{
			"name":       t.Name,
			"kind":       kindLeaf,
			"category":   t.Category,
			"importance": t.Importance,
		}
		if t.Value != "" {
			m["value"] = t.Value
		}
		return m
	}
	children := make([]any, len(t.Children))
	for i, c := range t.Children {
		children[i] = CanonicalTree(c)
	}
	return map[string]any{
		"name":     t.Name,
		"kind":     kindGroup,
		"children": children,
	}
}
