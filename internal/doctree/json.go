package doctree

import (
	"encoding/json"
	"fmt"
)

type jsonNode struct {
	Type    string  `json:"type"`
	Attrs   Attrs   `json:"attrs,omitempty"`
	Content []*Node `json:"content,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// MarshalJSON encodes the node in the {type, attrs, content, text} shape.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonNode{Type: n.typ, Attrs: n.attrs, Content: n.content, Text: n.text})
}

// UnmarshalJSON decodes a node, rejecting types missing from the schema.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw jsonNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	spec, ok := SpecOf(raw.Type)
	if !ok {
		return fmt.Errorf("decode node %q: %w", raw.Type, ErrUnknownNodeType)
	}
	var built *Node
	if raw.Type == TypeText {
		built = NewText(raw.Text)
		if built == nil {
			return fmt.Errorf("decode node: empty text: %w", ErrInvalidContent)
		}
	} else {
		if err := checkDecoded(raw.Type, spec, raw.Content); err != nil {
			return fmt.Errorf("decode node: %w", err)
		}
		built = New(raw.Type, raw.Attrs, raw.Content...)
	}
	*n = *built
	return nil
}

// checkDecoded applies the placement rules transactions enforce to a
// decoded node's children: atoms hold nothing, textblocks hold only inline
// nodes, other nodes hold only blocks, and a document never nests.
func checkDecoded(typ string, spec NodeSpec, content []*Node) error {
	if spec.Atom && len(content) > 0 {
		return fmt.Errorf("content in atom %s: %w", typ, ErrInvalidContent)
	}
	for _, c := range content {
		if c.Is(TypeDoc) {
			return fmt.Errorf("%s in %s: %w", TypeDoc, typ, ErrInvalidContent)
		}
	}
	return checkContent(New(typ, nil), content)
}
