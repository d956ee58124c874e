// Package session holds open documents. A session owns one document and is
// its single writer: every edit runs to completion under the session lock,
// commits as one transaction and bumps the document version.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docstruct/internal/columns"
	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/drop"
	"github.com/dgallion1/docstruct/internal/hotzone"
	"github.com/dgallion1/docstruct/internal/metrics"
	"github.com/dgallion1/docstruct/internal/outline"
)

// Session is one open document plus its ephemeral drag state.
type Session struct {
	mu sync.Mutex

	ID          string
	Title       string
	Filename    string
	ContentHash string
	CreatedAt   time.Time

	doc       *doctree.Node
	version   uint64
	updatedAt time.Time
	usedAt    time.Time

	guides    *hotzone.Guides
	numbering *outline.Numbering

	classifier *hotzone.Classifier
	synth      *drop.Synthesizer
	log        *slog.Logger
	metrics    *metrics.Recorder
}

func newSession(id string, doc *doctree.Document, classifier *hotzone.Classifier, log *slog.Logger, rec *metrics.Recorder) *Session {
	now := time.Now()
	log = log.With("doc_id", id)
	return &Session{
		ID:         id,
		Title:      doc.Title,
		CreatedAt:  now,
		doc:        doc.Root,
		version:    1,
		updatedAt:  now,
		usedAt:     now,
		guides:     hotzone.NewGuides(),
		classifier: classifier,
		synth:      drop.NewSynthesizer(log),
		log:        log,
		metrics:    rec,
	}
}

// Info describes a session without its document.
type Info struct {
	ID        string    `json:"doc_id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	Info
	Doc *doctree.Node `json:"doc"`
}

func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Info: s.infoLocked(), Doc: s.doc}
}

func (s *Session) infoLocked() Info {
	return Info{
		ID:        s.ID,
		Title:     s.Title,
		Filename:  s.Filename,
		Version:   s.version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updatedAt,
	}
}

// Version returns the current document version.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usedAt = time.Now()
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedAt
}

// Commit describes a committed edit.
type Commit struct {
	Version uint64                  `json:"version"`
	Cleanup []columns.CleanupAction `json:"cleanup,omitempty"`
}

// Edit runs fn against a transaction on the current document. When fn
// reports success and changed the document, the column cleanup pass runs
// on the same transaction and the result is committed. ok is false when
// nothing was committed.
func (s *Session) Edit(op string, fn func(tr *doctree.Transaction) bool) (Commit, bool) {
	return s.edit(op, true, fn)
}

// Cleanup sweeps every columns container for empty columns and containers
// left with a single column.
func (s *Session) Cleanup() (Commit, bool) {
	return s.edit("cleanup", true, func(*doctree.Transaction) bool { return true })
}

// edit commits fn's transaction. sweep is false for edits that cannot empty
// a column, so a column just added with an empty paragraph survives until
// the user fills it.
func (s *Session) edit(op string, sweep bool, fn func(tr *doctree.Transaction) bool) (Commit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.metrics.Observe(op, time.Since(start)) }()

	tr := doctree.NewTransaction(s.doc)
	if !fn(tr) {
		return Commit{Version: s.version}, false
	}
	var cleanup []columns.CleanupAction
	if sweep {
		cleanup = columns.CleanupAll(tr)
	}
	if !tr.DocChanged() {
		return Commit{Version: s.version}, false
	}
	s.commitLocked(tr)
	for _, a := range cleanup {
		s.metrics.Cleanup(a.Kind.String())
		s.log.Debug("column cleanup", "op", op, "kind", a.Kind.String(), "container_pos", a.ContainerPos)
	}
	return Commit{Version: s.version, Cleanup: cleanup}, true
}

// commitLocked installs the transaction's document. Positions computed
// against the old version are now meaningless, so the guidelines and the
// cached numbering go with it.
func (s *Session) commitLocked(tr *doctree.Transaction) {
	s.doc = tr.Doc()
	s.version++
	s.updatedAt = time.Now()
	s.usedAt = s.updatedAt
	s.guides.Reset()
	s.numbering = nil
}

// OutlineView is the outline of one document version.
type OutlineView struct {
	Version uint64              `json:"version"`
	Entries []outline.Entry     `json:"entries"`
	Hidden  []outline.FoldRange `json:"hidden"`
}

func (s *Session) Outline() OutlineView {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := outline.Entries(s.doc)
	if entries == nil {
		entries = []outline.Entry{}
	}
	hidden := outline.HiddenRanges(s.doc)
	if hidden == nil {
		hidden = []outline.FoldRange{}
	}
	return OutlineView{Version: s.version, Entries: entries, Hidden: hidden}
}

// Fold returns the range the heading at pos would hide.
func (s *Session) Fold(pos int) (outline.FoldRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.metrics.Observe("fold", time.Since(start)) }()
	return outline.CalculateFoldRange(s.doc, pos)
}

// Numbering returns the numbering labels, computing them once per document
// version.
func (s *Session) Numbering() outline.Numbering {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numberingLocked()
}

// RecomputeNumbering drops the cached labels and recomputes them. It is the
// explicit signal for attribute changes made outside this session.
func (s *Session) RecomputeNumbering() outline.Numbering {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.numbering = nil
	return s.numberingLocked()
}

func (s *Session) numberingLocked() outline.Numbering {
	if s.numbering == nil {
		start := time.Now()
		n := outline.CalculateNumbering(s.doc)
		s.metrics.Observe("numbering", time.Since(start))
		s.numbering = &n
	}
	return *s.numbering
}

// ToggleHeading flips the collapsed flag of the heading at pos.
func (s *Session) ToggleHeading(pos int) (Commit, bool) {
	return s.edit("toggle_fold", false, func(tr *doctree.Transaction) bool {
		return outline.ToggleFold(tr, pos)
	})
}

// HeadingPatch lists heading attributes to change. Nil fields are left
// alone; an empty ManualNumber clears it.
type HeadingPatch struct {
	Level        *int    `json:"level,omitempty" validate:"omitempty,min=1,max=6"`
	Numbered     *bool   `json:"numbered,omitempty"`
	Indent       *int    `json:"indent,omitempty" validate:"omitempty,min=0,max=5"`
	ManualNumber *string `json:"manual_number,omitempty" validate:"omitempty,max=32"`
}

// UpdateHeading applies patch to the heading at pos.
func (s *Session) UpdateHeading(pos int, patch HeadingPatch) (Commit, bool) {
	return s.edit("update_heading", false, func(tr *doctree.Transaction) bool {
		n := tr.Doc().NodeAt(pos)
		if !n.Is(doctree.TypeHeading) {
			return false
		}
		h := doctree.HeadingOf(n)
		if patch.Level != nil {
			h.Level = *patch.Level
		}
		if patch.Numbered != nil {
			h.Numbered = *patch.Numbered
		}
		if patch.Indent != nil {
			h.Indent = *patch.Indent
		}
		if patch.ManualNumber != nil {
			h.ManualNumber = *patch.ManualNumber
		}
		return tr.SetNodeAttrs(pos, h.Attrs()) == nil
	})
}

// AddColumn inserts an empty column after afterIndex in the container at
// pos.
func (s *Session) AddColumn(pos, afterIndex int) (Commit, bool) {
	c, ok := s.edit("add_column", false, func(tr *doctree.Transaction) bool {
		return columns.AddColumn(tr, pos, afterIndex)
	})
	s.metrics.ColumnOp("add", ok)
	return c, ok
}

// RemoveColumn deletes the column at index of the container at pos.
func (s *Session) RemoveColumn(pos, index int) (Commit, bool) {
	c, ok := s.edit("remove_column", true, func(tr *doctree.Transaction) bool {
		return columns.RemoveColumn(tr, pos, index)
	})
	s.metrics.ColumnOp("remove", ok)
	return c, ok
}

// ResizeColumns drags the boundary right of column leftIdx by deltaPx.
func (s *Session) ResizeColumns(pos, leftIdx int, deltaPx, containerWidthPx float64) (Commit, bool) {
	c, ok := s.edit("resize_columns", false, func(tr *doctree.Transaction) bool {
		return columns.ResizeColumns(tr, pos, leftIdx, deltaPx, containerWidthPx)
	})
	s.metrics.ColumnOp("resize", ok)
	return c, ok
}

// SetColumnLayout switches the container at pos between grid and stacked.
func (s *Session) SetColumnLayout(pos int, layout string) (Commit, bool) {
	c, ok := s.edit("set_layout", false, func(tr *doctree.Transaction) bool {
		return columns.SetLayout(tr, pos, layout)
	})
	s.metrics.ColumnOp("layout", ok)
	return c, ok
}

// RebalanceColumns repairs the widths of every container in the document.
func (s *Session) RebalanceColumns() (Commit, bool) {
	return s.edit("rebalance", false, func(tr *doctree.Transaction) bool {
		changed := false
		for _, pos := range tr.Doc().FindAll(doctree.TypeColumns) {
			changed = columns.Rebalance(tr, pos) || changed
		}
		return changed
	})
}

// Guides is the guideline state after a hover.
type Guides struct {
	Vertical   hotzone.Guideline  `json:"vertical"`
	Horizontal hotzone.Horizontal `json:"horizontal"`
}

// Hover classifies a pointer position against layout and updates the
// guideline state. The vertical guideline is stamped with the current
// version so a drop after an intervening edit can be refused.
func (s *Session) Hover(layout *hotzone.Layout, x, y float64) Guides {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.metrics.Observe("hover", time.Since(start)) }()

	v := s.classifier.Classify(s.doc, layout, x, y)
	v.Version = s.version
	s.guides.SetVertical(v)
	if !v.Active() {
		s.guides.SetHorizontal(s.classifier.ClassifyHorizontal(s.doc, layout, x, y))
	}
	return Guides{Vertical: s.guides.Vertical(), Horizontal: s.guides.Horizontal()}
}

// DragEnd discards the guideline state.
func (s *Session) DragEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guides.Reset()
}

// DropRequest describes a drop. Content, when present, is dropped as a
// copy from outside the document; otherwise the block range [From, To) of
// the current document is the dragged fragment.
type DropRequest struct {
	From    int
	To      int
	Move    bool
	Content []*doctree.Node
}

// DropOutcome is the result of Drop.
type DropOutcome struct {
	drop.Result
	Version uint64 `json:"version"`
}

// Drop applies a drop at the current vertical guideline. The guideline
// state is reset whatever the outcome.
func (s *Session) Drop(req DropRequest) DropOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()
	defer func() { s.metrics.Observe("drop", time.Since(start)) }()

	g := s.guides.Vertical()
	s.guides.Reset()

	res := s.dropLocked(g, req)
	s.metrics.Drop(string(res.Case), res.Applied)
	if !res.Applied && res.Reason != nil {
		s.log.Debug("drop rejected", "reason", res.Reason, "kind", g.Kind)
	}
	return DropOutcome{Result: res, Version: s.version}
}

func (s *Session) dropLocked(g hotzone.Guideline, req DropRequest) drop.Result {
	if g.Active() && g.Version != s.version {
		return drop.Result{Reason: drop.ErrStaleTarget}
	}

	frag := &drop.Fragment{Content: req.Content}
	move := req.Move
	if len(req.Content) == 0 {
		f, ok := drop.FragmentAt(s.doc, req.From, req.To)
		if !ok {
			return drop.Result{Reason: drop.ErrNoFragment}
		}
		frag = f
	} else {
		move = false
	}

	tr := doctree.NewTransaction(s.doc)
	res := s.synth.Execute(tr, g, frag, move)
	if !res.Applied {
		return res
	}
	for _, a := range res.Cleanup {
		s.metrics.Cleanup(a.Kind.String())
	}
	s.commitLocked(tr)
	return res
}
