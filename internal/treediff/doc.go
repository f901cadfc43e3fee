// Package treediff computes a patch between two generic ordered trees.
//
// The patch format follows the virtual-DOM convention: nodes of the old
// tree are numbered in pre-order, and each change is filed under the index
// of the old node it applies to. Insertions are filed under the parent.
// The old root itself is kept on the patch so the patch can be applied
// later; it is not a change and does not count towards Distance.
package treediff
