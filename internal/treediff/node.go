package treediff

import (
	"strconv"

	"github.com/roach88/provsim/internal/ir"
)

// Tags assigned by FromToken.
const (
	TagGroup = "group"
	TagLeaf  = "leaf"
)

// Node is a generic tree node. Children with a non-empty Key are aligned
// by key between the two trees; unkeyed children are aligned by position.
type Node struct {
	Tag      string
	Key      string
	Props    map[string]string
	Children []*Node
}

// Count returns the number of descendants of n, excluding n itself.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	c := 0
	for _, child := range n.Children {
		c += 1 + child.Count()
	}
	return c
}

// FromToken converts a token tree into a diffable tree. Names become keys,
// and leaf attributes become props.
func FromToken(t *ir.Token) *Node {
	if t == nil {
		return nil
	}
	if t.IsLeaf() {
		return &Node{
			Tag: TagLeaf,
			Key: t.Name,
			Props: map[string]string{
				"category":   strconv.Itoa(t.Category),
				"importance": strconv.FormatFloat(t.Importance, 'g', -1, 64),
				"value":      t.Value,
			},
		}
	}
	n := &Node{Tag: TagGroup, Key: t.Name}
	if len(t.Children) > 0 {
		n.Children = make([]*Node, len(t.Children))
		for i, c := range t.Children {
			n.Children[i] = FromToken(c)
		}
	}
	return n
}
