// Package dag holds the dependency graph used to order the members of a
// namespace before they are updated.
//
// A Graph is built fresh for every update pass. Nodes keep the order in which
// they were added and that order is the tie-break for members that do not
// depend on each other, so two passes over the same state always produce the
// same sequence.
package dag
