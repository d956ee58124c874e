package doctree

// Transaction accumulates steps against a document. Each step is applied
// to the current document immediately; the caller commits by taking Doc().
// Since nodes are immutable, a transaction that is dropped leaves the
// original document untouched.
type Transaction struct {
	before  *Node
	doc     *Node
	steps   []Step
	docs    []*Node // document before each step
	mapping Mapping
	meta    map[string]any
}

// NewTransaction starts a transaction on doc.
func NewTransaction(doc *Node) *Transaction {
	return &Transaction{before: doc, doc: doc}
}

// Before returns the document the transaction started from.
func (tr *Transaction) Before() *Node { return tr.before }

// Doc returns the current document.
func (tr *Transaction) Doc() *Node { return tr.doc }

// Steps returns the applied steps.
func (tr *Transaction) Steps() []Step { return tr.steps }

// Mapping returns the position mapping of all applied steps.
func (tr *Transaction) Mapping() *Mapping { return &tr.mapping }

// DocChanged reports whether any step was applied.
func (tr *Transaction) DocChanged() bool { return len(tr.steps) > 0 }

// Step applies s. On error the transaction is unchanged.
func (tr *Transaction) Step(s Step) error {
	doc, sm, err := s.Apply(tr.doc)
	if err != nil {
		return err
	}
	tr.docs = append(tr.docs, tr.doc)
	tr.steps = append(tr.steps, s)
	tr.mapping.Append(sm)
	tr.doc = doc
	return nil
}

// Replace swaps [from, to) for content.
func (tr *Transaction) Replace(from, to int, content ...*Node) error {
	return tr.Step(ReplaceStep{From: from, To: to, Content: content})
}

// Delete removes [from, to).
func (tr *Transaction) Delete(from, to int) error {
	return tr.Replace(from, to)
}

// Insert places content at pos.
func (tr *Transaction) Insert(pos int, content ...*Node) error {
	return tr.Replace(pos, pos, content...)
}

// SetNodeAttrs merges attrs into the node starting at pos.
func (tr *Transaction) SetNodeAttrs(pos int, attrs Attrs) error {
	return tr.Step(AttrStep{Pos: pos, Attrs: attrs})
}

// Mark returns a checkpoint usable with Rollback and Mapping().Slice.
func (tr *Transaction) Mark() int { return len(tr.steps) }

// Rollback undoes every step applied after mark.
func (tr *Transaction) Rollback(mark int) {
	if mark < 0 || mark >= len(tr.steps) {
		return
	}
	tr.doc = tr.docs[mark]
	tr.docs = tr.docs[:mark]
	tr.steps = tr.steps[:mark]
	tr.mapping.maps = tr.mapping.maps[:mark]
}

// SetMeta attaches a metadata value to the transaction.
func (tr *Transaction) SetMeta(key string, v any) {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = v
}

// Meta returns a metadata value.
func (tr *Transaction) Meta(key string) any { return tr.meta[key] }
