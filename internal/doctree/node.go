package doctree

import (
	"strings"
	"unicode/utf8"
)

// Attrs holds node attributes. Values decoded from JSON arrive as float64,
// []any and so on; use the typed accessors in attrs.go to read them.
type Attrs map[string]any

// Clone returns a shallow copy of the attributes.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge returns a copy of a with every key of b set on it.
func (a Attrs) Merge(b Attrs) Attrs {
	out := a.Clone()
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Node is an immutable tree node. Edits never modify a node in place; they
// build new ancestors and share untouched subtrees with the old tree.
type Node struct {
	typ     string
	attrs   Attrs
	content []*Node
	text    string
	size    int
}

// New builds a node of the given type. Nil children are skipped so callers
// can pass the result of NewText("") without checking it.
func New(typ string, attrs Attrs, content ...*Node) *Node {
	spec := MustSpec(typ)
	n := &Node{typ: typ, attrs: attrs}
	if spec.Atom {
		n.size = 1
		return n
	}
	for _, c := range content {
		if c != nil {
			n.content = append(n.content, c)
		}
	}
	n.size = 2 + sumSizes(n.content)
	return n
}

// NewText builds a text leaf. It returns nil for an empty string; text
// nodes never have zero size.
func NewText(s string) *Node {
	if s == "" {
		return nil
	}
	return &Node{typ: TypeText, text: s, size: utf8.RuneCountInString(s)}
}

func sumSizes(nodes []*Node) int {
	total := 0
	for _, c := range nodes {
		total += c.size
	}
	return total
}

// Type returns the node type name.
func (n *Node) Type() string { return n.typ }

// Spec returns the schema entry for the node type.
func (n *Node) Spec() NodeSpec { return MustSpec(n.typ) }

// Attrs returns the node attributes. The map must not be modified.
func (n *Node) Attrs() Attrs { return n.attrs }

// Attr returns a single attribute value.
func (n *Node) Attr(key string) any { return n.attrs[key] }

// Text returns the text of a text leaf.
func (n *Node) Text() string { return n.text }

// Size is the number of position slots the node occupies, delimiters
// included.
func (n *Node) Size() int { return n.size }

// ContentSize is the number of position slots between the node's open and
// close delimiters.
func (n *Node) ContentSize() int {
	if n.IsText() || n.IsAtom() {
		return 0
	}
	return n.size - 2
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.content) }

// Child returns the child at index i.
func (n *Node) Child(i int) *Node { return n.content[i] }

// Content returns the children. The slice must not be modified.
func (n *Node) Content() []*Node { return n.content }

// ChildOffset returns the content offset at which child i starts. Passing
// ChildCount() yields the content size.
func (n *Node) ChildOffset(i int) int {
	off := 0
	for j := 0; j < i && j < len(n.content); j++ {
		off += n.content[j].size
	}
	return off
}

func (n *Node) IsText() bool      { return n.typ == TypeText }
func (n *Node) IsAtom() bool      { return n.Spec().Atom }
func (n *Node) IsInline() bool    { return n.Spec().Inline }
func (n *Node) IsBlock() bool     { return !n.Spec().Inline && n.typ != TypeDoc }
func (n *Node) IsTextblock() bool { return n.Spec().Textblock }
func (n *Node) IsIsolating() bool { return n.Spec().Isolating }

// Is reports whether the node has the given type. Safe on nil.
func (n *Node) Is(typ string) bool { return n != nil && n.typ == typ }

// TextContent concatenates the text of all descendant text leaves.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	var sb strings.Builder
	n.Descendants(func(c *Node, _ int, _ *Node, _ int) bool {
		if c.IsText() {
			sb.WriteString(c.text)
		}
		return true
	})
	return sb.String()
}

// WithAttrs returns a copy of the node carrying attrs.
func (n *Node) WithAttrs(attrs Attrs) *Node {
	c := *n
	c.attrs = attrs
	return &c
}

// WithContent returns a copy of the node holding content instead of its
// current children.
func (n *Node) WithContent(content []*Node) *Node {
	return New(n.typ, n.attrs, content...)
}

// replaceChildren returns a copy with children [from, to) swapped for nodes.
func (n *Node) replaceChildren(from, to int, nodes []*Node) *Node {
	content := make([]*Node, 0, len(n.content)-(to-from)+len(nodes))
	content = append(content, n.content[:from]...)
	content = append(content, nodes...)
	content = append(content, n.content[to:]...)
	return n.WithContent(content)
}

// NodeAt returns the node that starts directly after pos, or nil.
func (n *Node) NodeAt(pos int) *Node {
	rp, err := n.Resolve(pos)
	if err != nil {
		return nil
	}
	return rp.NodeAfter()
}
