// Package doctree holds the position-addressed document tree: immutable
// nodes, position resolution, traversal, and transactions whose steps carry
// the position mapping they induce.
package doctree

// Document is a parsed document: its title plus the root node.
type Document struct {
	Title string // Document title (from metadata or filename)
	Root  *Node  // Root node, always of type TypeDoc
}
