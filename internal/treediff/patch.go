package treediff

import (
	"fmt"
	"slices"
)

// OpKind identifies a patch operation.
type OpKind int

const (
	// OpInsert appends Node as a new child of the indexed node.
	OpInsert OpKind = iota

	// OpRemove deletes the indexed node.
	OpRemove

	// OpProps updates the props of the indexed node.
	OpProps

	// OpReplace swaps the indexed node for Node.
	OpReplace

	// OpOrder reorders the children of the indexed node to Order.
	OpOrder
)

var opKindNames = map[OpKind]string{
	OpInsert:  "insert",
	OpRemove:  "remove",
	OpProps:   "props",
	OpReplace: "replace",
	OpOrder:   "order",
}

// String returns the string representation of the op kind.
func (k OpKind) String() string {
	if name, ok := opKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one patch operation.
type Op struct {
	Kind OpKind

	// Node is the inserted or replacing node (new tree), or the removed
	// node (old tree).
	Node *Node

	// Props holds changed or added props; Removed lists dropped prop keys.
	Props   map[string]string
	Removed []string

	// Order is the new key order of the children for OpOrder.
	Order []string
}

// Patch is the set of changes turning Root into the new tree.
type Patch struct {
	Root    *Node
	Changes map[int][]Op
}

// Distance is the number of old-tree positions touched by the patch.
func (p *Patch) Distance() int {
	return len(p.Changes)
}

// Indices returns the changed indices in ascending order.
func (p *Patch) Indices() []int {
	out := make([]int, 0, len(p.Changes))
	for i := range p.Changes {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

func (p *Patch) add(index int, op Op) {
	p.Changes[index] = append(p.Changes[index], op)
}
