package parser

import (
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// plain renders a node's text with hard breaks as newlines.
func plain(n *doctree.Node) string {
	var sb strings.Builder
	var walk func(*doctree.Node)
	walk = func(n *doctree.Node) {
		switch {
		case n.IsText():
			sb.WriteString(n.Text())
		case n.Is(doctree.TypeHardBreak):
			sb.WriteByte('\n')
		default:
			for _, c := range n.Content() {
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// types lists the node types of n's children.
func types(n *doctree.Node) []string {
	out := make([]string, n.ChildCount())
	for i, c := range n.Content() {
		out[i] = c.Type()
	}
	return out
}
