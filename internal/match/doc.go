// Package match aligns two token trees into a single matched tree and
// scores how similar they are.
//
// Alignment is a three-way partition at every level: children only on the
// left, children present on both sides (paired by name), and children only
// on the right. A leaf on one side facing an interior token on the other is
// a mismatch boundary: neither side is expanded below it.
//
// Each matched node carries an unscaled size vector with one slot per
// category. The root starts at all ones and every node splits its size
// evenly between its children, so deeply nested or heavily branched leaves
// weigh less in lineup rendering.
//
// Similarity is derived from leaf importances, category by category, and
// combined with the registry's percentage weights.
package match
