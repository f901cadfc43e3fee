package treediff

import (
	"maps"
	"slices"
)

// Diff computes the patch that turns a into b.
func Diff(a, b *Node) *Patch {
	p := &Patch{Root: a, Changes: make(map[int][]Op)}
	if a == nil {
		if b != nil {
			p.add(0, Op{Kind: OpInsert, Node: b})
		}
		return p
	}
	walk(a, b, p, 0)
	return p
}

func walk(a, b *Node, p *Patch, index int) {
	if a == b {
		return
	}
	switch {
	case b == nil:
		p.add(index, Op{Kind: OpRemove, Node: a})
	case a.Tag == b.Tag && a.Key == b.Key:
		if op, changed := diffProps(a.Props, b.Props); changed {
			p.add(index, op)
		}
		diffChildren(a, b, p, index)
	default:
		p.add(index, Op{Kind: OpReplace, Node: b})
	}
}

func diffProps(a, b map[string]string) (Op, bool) {
	op := Op{Kind: OpProps}
	for k, bv := range b {
		if av, ok := a[k]; !ok || av != bv {
			if op.Props == nil {
				op.Props = make(map[string]string)
			}
			op.Props[k] = bv
		}
	}
	for _, k := range slices.Sorted(maps.Keys(a)) {
		if _, ok := b[k]; !ok {
			op.Removed = append(op.Removed, k)
		}
	}
	return op, op.Props != nil || op.Removed != nil
}

func diffChildren(a, b *Node, p *Patch, parent int) {
	aligned, order := reorder(a.Children, b.Children)
	if order != nil {
		p.add(parent, Op{Kind: OpOrder, Order: order})
	}

	index := parent
	for i, right := range aligned {
		if i >= len(a.Children) {
			// New children have no old index; file them under the parent.
			p.add(parent, Op{Kind: OpInsert, Node: right})
			continue
		}
		left := a.Children[i]
		index++
		walk(left, right, p, index)
		index += left.Count()
	}
}

// reorder aligns b's children to a's positions. The result has one slot
// per child of a (nil when removed) followed by b's new children. order is
// non-nil when the surviving keyed children change relative order.
func reorder(a, b []*Node) (aligned []*Node, order []string) {
	bKeys := make(map[string]int, len(b))
	var bFree []int
	for i, c := range b {
		if c.Key != "" {
			bKeys[c.Key] = i
		} else {
			bFree = append(bFree, i)
		}
	}

	used := make([]bool, len(b))
	aligned = make([]*Node, 0, max(len(a), len(b)))
	var kept []int
	freeIdx := 0
	for _, c := range a {
		if c.Key != "" {
			if j, ok := bKeys[c.Key]; ok {
				aligned = append(aligned, b[j])
				used[j] = true
				kept = append(kept, j)
				continue
			}
			aligned = append(aligned, nil)
			continue
		}
		if freeIdx < len(bFree) {
			j := bFree[freeIdx]
			freeIdx++
			aligned = append(aligned, b[j])
			used[j] = true
			continue
		}
		aligned = append(aligned, nil)
	}

	for j, c := range b {
		if !used[j] {
			aligned = append(aligned, c)
		}
	}

	if !slices.IsSorted(kept) {
		order = make([]string, 0, len(b))
		for _, c := range b {
			order = append(order, c.Key)
		}
	}
	return aligned, order
}
