package ir

import (
	"encoding/json"
	"fmt"
)

// Token kinds in the portable encoding.
const (
	kindLeaf  = "leaf"
	kindGroup = "group"
)

// wireToken is the portable JSON shape of a token.
// Leaves always carry category and importance, even when zero, so a
// decoded tree is attribute-for-attribute identical to the encoded one.
type wireToken struct {
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	Children   []*wireToken `json:"children,omitempty"`
	Category   *int         `json:"category,omitempty"`
	Importance *float64     `json:"importance,omitempty"`
	Value      string       `json:"value,omitempty"`
}

// treeEnvelope versions the portable encoding.
type treeEnvelope struct {
	Version string     `json:"version"`
	Tree    *wireToken `json:"tree"`
}

// EncodeTree serializes a token tree to its portable JSON form.
// A nil tree encodes as an envelope with a null tree.
func EncodeTree(t *Token) ([]byte, error) {
	env := treeEnvelope{Version: CodecVersion, Tree: toWire(t)}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode token tree: %w", err)
	}
	return data, nil
}

// DecodeTree parses the portable JSON form produced by EncodeTree.
// A null tree decodes to (nil, nil).
func DecodeTree(data []byte) (*Token, error) {
	var env treeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode token tree: %w", err)
	}
	if env.Version != CodecVersion {
		return nil, fmt.Errorf("decode token tree: unsupported version %q", env.Version)
	}
	t, err := fromWire(env.Tree)
	if err != nil {
		return nil, fmt.Errorf("decode token tree: %w", err)
	}
	return t, nil
}

func toWire(t *Token) *wireToken {
	if t == nil {
		return nil
	}
	if t.IsLeaf() {
		cat, imp := t.Category, t.Importance
		return &wireToken{
			Name:       t.Name,
			Kind:       kindLeaf,
			Category:   &cat,
			Importance: &imp,
			Value:      t.Value,
		}
	}
	w := &wireToken{
		Name:     t.Name,
		Kind:     kindGroup,
		Children: make([]*wireToken, len(t.Children)),
	}
	for i, c := range t.Children {
		w.Children[i] = toWire(c)
	}
	return w
}

func fromWire(w *wireToken) (*Token, error) {
	if w == nil {
		return nil, nil
	}
	switch w.Kind {
	case kindLeaf:
		if len(w.Children) > 0 {
			return nil, fmt.Errorf("leaf %q has children", w.Name)
		}
		t := &Token{Name: w.Name, Value: w.Value}
		if w.Category != nil {
			t.Category = *w.Category
		}
		if w.Importance != nil {
			t.Importance = *w.Importance
		}
		return t, nil

	case kindGroup:
		t := &Token{Name: w.Name, Group: true}
		if len(w.Children) > 0 {
			t.Children = make([]*Token, len(w.Children))
		}
		for i, wc := range w.Children {
			c, err := fromWire(wc)
			if err != nil {
				return nil, err
			}
			if c == nil {
				return nil, fmt.Errorf("group %q: null child at index %d", w.Name, i)
			}
			t.Children[i] = c
		}
		return t, nil

	default:
		return nil, fmt.Errorf("token %q: unknown kind %q", w.Name, w.Kind)
	}
}
