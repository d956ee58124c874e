package columns

import (
	"github.com/dgallion1/docstruct/internal/doctree"
)

// CleanupKind identifies a cleanup action.
type CleanupKind int

const (
	CleanupNone CleanupKind = iota
	CleanupUnwrap
	CleanupRemoveEmpty
)

func (k CleanupKind) String() string {
	switch k {
	case CleanupUnwrap:
		return "unwrap-single-column"
	case CleanupRemoveEmpty:
		return "remove-empty-column"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CleanupKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CleanupAction is the repair a columns container needs. ColumnIndex is
// only meaningful for CleanupRemoveEmpty.
type CleanupAction struct {
	Kind         CleanupKind `json:"kind"`
	ContainerPos int         `json:"container_pos"`
	ColumnIndex  int         `json:"column_index,omitempty"`
}

// None reports whether the action is a no-op.
func (a CleanupAction) None() bool { return a.Kind == CleanupNone }

// DetectCleanupAction inspects the container starting at pos. A container
// with fewer than MinColumns children is unwrapped first; otherwise the
// first empty column is removed. Only one action is reported per call.
func DetectCleanupAction(container *doctree.Node, pos int) CleanupAction {
	if !container.Is(doctree.TypeColumns) {
		return CleanupAction{}
	}
	if container.ChildCount() < MinColumns {
		return CleanupAction{Kind: CleanupUnwrap, ContainerPos: pos}
	}
	for i, col := range container.Content() {
		if IsEmptyColumn(col) {
			return CleanupAction{Kind: CleanupRemoveEmpty, ContainerPos: pos, ColumnIndex: i}
		}
	}
	return CleanupAction{}
}

// ExecuteCleanup applies action to tr's current document. It reports false,
// leaving tr unchanged, when the action no longer matches the document.
func ExecuteCleanup(tr *doctree.Transaction, action CleanupAction) bool {
	switch action.Kind {
	case CleanupUnwrap:
		return atomically(tr, func() error { return unwrap(tr, action.ContainerPos) })
	case CleanupRemoveEmpty:
		return atomically(tr, func() error { return removeEmpty(tr, action.ContainerPos, action.ColumnIndex) })
	}
	return false
}

// unwrap replaces the container with its columns' children in column
// order. A container with no content leaves an empty paragraph behind.
func unwrap(tr *doctree.Transaction, pos int) error {
	container, ok := containerAt(tr, pos)
	if !ok {
		return doctree.ErrNoNodeAt
	}
	var content []*doctree.Node
	for _, col := range container.Content() {
		content = append(content, col.Content()...)
	}
	if len(content) == 0 {
		content = []*doctree.Node{doctree.Paragraph("")}
	}
	return tr.Replace(pos, pos+container.Size(), content...)
}

func removeEmpty(tr *doctree.Transaction, pos, index int) error {
	container, ok := containerAt(tr, pos)
	if !ok || index < 0 || index >= container.ChildCount() {
		return doctree.ErrNoNodeAt
	}
	if !IsEmptyColumn(container.Child(index)) {
		return doctree.ErrInvalidContent
	}
	from := columnPos(container, pos, index)
	if err := tr.Delete(from, from+container.Child(index).Size()); err != nil {
		return err
	}
	remaining := container.ChildCount() - 1
	if remaining < MinColumns {
		return unwrap(tr, pos)
	}
	return setWidths(tr, pos, EqualWidths(remaining))
}

// Cleanup repeatedly detects and executes actions on the container at pos
// until it needs nothing more or no longer exists. It returns the actions
// applied.
func Cleanup(tr *doctree.Transaction, pos int) []CleanupAction {
	var applied []CleanupAction
	container, ok := containerAt(tr, pos)
	if !ok {
		return nil
	}
	// Every action removes a column or the container, which bounds the loop.
	for range container.ChildCount() + 1 {
		container, ok = containerAt(tr, pos)
		if !ok {
			break
		}
		action := DetectCleanupAction(container, pos)
		// Removing a column below MinColumns unwraps the container too.
		// Whatever then starts at pos is some other node.
		gone := action.Kind == CleanupUnwrap || container.ChildCount()-1 < MinColumns
		if action.None() || !ExecuteCleanup(tr, action) {
			break
		}
		applied = append(applied, action)
		if gone {
			break
		}
	}
	return applied
}

// CleanupAll runs Cleanup over every columns container in the document.
// Containers are visited from last to first so edits never shift a
// position still waiting to be visited.
func CleanupAll(tr *doctree.Transaction) []CleanupAction {
	var applied []CleanupAction
	positions := tr.Doc().FindAll(doctree.TypeColumns)
	for i := len(positions) - 1; i >= 0; i-- {
		applied = append(applied, Cleanup(tr, positions[i])...)
	}
	return applied
}
