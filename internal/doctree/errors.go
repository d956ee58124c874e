package doctree

import "errors"

// Errors returned by tree primitives.
var (
	// ErrPositionOutOfRange indicates a position outside the document content.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrInvalidReplace indicates a replace whose endpoints do not share a
	// parent or do not fall on child boundaries.
	ErrInvalidReplace = errors.New("invalid replace range")

	// ErrInvalidContent indicates content that the target parent cannot hold.
	ErrInvalidContent = errors.New("content not allowed here")

	// ErrNoNodeAt indicates no node starts at the given position.
	ErrNoNodeAt = errors.New("no node at position")

	// ErrUnknownNodeType indicates a node type missing from the schema.
	ErrUnknownNodeType = errors.New("unknown node type")
)
