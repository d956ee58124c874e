package doctree

import "fmt"

// Node type names.
const (
	TypeDoc            = "doc"
	TypeText           = "text"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeBlockquote     = "blockquote"
	TypeCodeBlock      = "code_block"
	TypeBulletList     = "bullet_list"
	TypeOrderedList    = "ordered_list"
	TypeListItem       = "list_item"
	TypeHorizontalRule = "horizontal_rule"
	TypeImage          = "image"
	TypeHardBreak      = "hard_break"
	TypeTable          = "table"
	TypeTableRow       = "table_row"
	TypeTableCell      = "table_cell"
	TypeColumns        = "columns"
	TypeColumn         = "column"
)

// NodeSpec describes how a node type behaves in the position space.
type NodeSpec struct {
	Inline    bool // lives inside textblocks
	Textblock bool // content is inline nodes only
	Atom      bool // leaf occupying a single position slot
	Isolating bool // fold and containment traversal never crosses it implicitly
}

var schema = map[string]NodeSpec{
	TypeDoc:            {},
	TypeText:           {Inline: true},
	TypeParagraph:      {Textblock: true},
	TypeHeading:        {Textblock: true},
	TypeCodeBlock:      {Textblock: true},
	TypeBlockquote:     {},
	TypeBulletList:     {},
	TypeOrderedList:    {},
	TypeListItem:       {},
	TypeHorizontalRule: {Atom: true},
	TypeImage:          {Atom: true},
	TypeHardBreak:      {Inline: true, Atom: true},
	TypeTable:          {Isolating: true},
	TypeTableRow:       {},
	TypeTableCell:      {Isolating: true},
	TypeColumns:        {},
	TypeColumn:         {Isolating: true},
}

// SpecOf looks up the spec for a node type.
func SpecOf(typ string) (NodeSpec, bool) {
	s, ok := schema[typ]
	return s, ok
}

// MustSpec looks up the spec for a node type and panics when the type is
// unknown. A missing type is a configuration bug, not a document state.
func MustSpec(typ string) NodeSpec {
	s, ok := schema[typ]
	if !ok {
		panic(fmt.Sprintf("doctree: %v: %q", ErrUnknownNodeType, typ))
	}
	return s
}
