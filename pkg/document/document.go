package document

// Document is a linear-model document: a flat item sequence, its parallel
// metadata stream, and the annotation store and node schema it is built
// against.
type Document struct {
	items   []Item
	meta    *MetaLinearData
	store   *Store
	factory *NodeFactory

	// origDoc and origInternalListLength support newFromDocumentInsertion's
	// "this document is a slice of a larger one" bookkeeping: when a range
	// of doc is sliced out to become the source of an insertion elsewhere,
	// origDoc points back at doc and origInternalListLength records how many
	// internal-list items existed in doc at slice time.
	origDoc                *Document
	origInternalListLength int
}

// New builds a document from a complete, already-balanced item sequence. A
// nil factory selects DefaultNodeFactory.
func New(items []Item, factory *NodeFactory) *Document {
	if factory == nil {
		factory = DefaultNodeFactory()
	}
	return &Document{
		items:   CloneItems(items),
		meta:    NewMetaLinearData(len(items)),
		store:   NewStore(),
		factory: factory,
	}
}

// NewWithStore builds a document from items that already carry annotation
// indices pooled in store (for example, the output of applying a
// Transaction that referenced store via NewFromAnnotation), so the new
// document shares its predecessor's annotation pool instead of starting an
// empty one.
func NewWithStore(items []Item, factory *NodeFactory, store *Store) *Document {
	if factory == nil {
		factory = DefaultNodeFactory()
	}
	if store == nil {
		store = NewStore()
	}
	return &Document{
		items:   CloneItems(items),
		meta:    NewMetaLinearData(len(items)),
		store:   store,
		factory: factory,
	}
}

// NewFromText builds a single-paragraph document from plain text, splitting
// it into grapheme clusters. Useful for building quick fixtures.
func NewFromText(text string) *Document {
	store := NewStore()
	empty := NewAnnotationSet(store)

	items := make([]Item, 0, len(text)+2)
	items = append(items, NewOpenItem("paragraph", nil))
	for _, g := range SplitGraphemes(text) {
		items = append(items, NewCharItem(g, empty))
	}
	items = append(items, NewCloseItem("paragraph"))
	return NewWithStore(items, nil, store)
}

// Slice returns a new, independent Document covering doc's data in r,
// remembering doc as its OrigDoc so that newFromDocumentInsertion can later
// recognize shared internal-list items. origInternalListLength should be
// the length of doc's internal list at the moment of slicing.
func (d *Document) Slice(r Range) *Document {
	n := r.Normalized()
	sliced := &Document{
		items:                  CloneItems(d.items[n.Start:n.End]),
		store:                  d.store,
		factory:                d.factory,
		origDoc:                d,
		origInternalListLength: d.GetInternalList().Len(),
	}
	sliced.meta = NewMetaLinearData(len(sliced.items))
	for i, cell := range d.meta.Slice(n.Start, n.End+1) {
		sliced.meta.SetData(i, cell)
	}
	return sliced
}

// Length returns the number of items in the document's data.
func (d *Document) Length() int { return len(d.items) }

// Store returns the document's annotation pool.
func (d *Document) Store() *Store { return d.store }

// GetStore is an alias for Store.
func (d *Document) GetStore() *Store { return d.store }

// Factory returns the document's node schema.
func (d *Document) Factory() *NodeFactory { return d.factory }

// Meta returns the document's metadata stream.
func (d *Document) Meta() *MetaLinearData { return d.meta }

// OrigDoc returns the document this one was sliced from, or nil.
func (d *Document) OrigDoc() *Document { return d.origDoc }

// OrigInternalListLength returns the internal-list length recorded at slice
// time (0 if this document was not produced by Slice).
func (d *Document) OrigInternalListLength() int { return d.origInternalListLength }

// ItemAt returns the item at offset i.
func (d *Document) ItemAt(i int) Item { return d.items[i] }

// GetData returns a copy of the full data, or of the slice in r when
// provided.
func (d *Document) GetData(r ...Range) []Item {
	if len(r) == 0 {
		return CloneItems(d.items)
	}
	n := r[0].Normalized()
	return CloneItems(d.items[n.Start:n.End])
}

// GetMetadata returns a copy of the full metadata stream, or of the cells
// covering r (inclusive of the trailing cell) when provided.
func (d *Document) GetMetadata(r ...Range) [][]MetaItem {
	if len(r) == 0 {
		return d.meta.Slice(0, d.meta.Len())
	}
	n := r[0].Normalized()
	return d.meta.Slice(n.Start, n.End+1)
}

// IsElementData reports whether the item at i is a marker.
func (d *Document) IsElementData(i int) bool { return d.items[i].IsElement() }

// IsOpenElementData reports whether the item at i is an opening marker.
func (d *Document) IsOpenElementData(i int) bool { return d.items[i].IsOpenElement() }

// IsCloseElementData reports whether the item at i is a closing marker.
func (d *Document) IsCloseElementData(i int) bool { return d.items[i].IsCloseElement() }

// GetType returns the element type at i ("" for a character).
func (d *Document) GetType(i int) string { return d.items[i].Type() }

// GetAnnotationsFromOffset returns the annotation set carried by the
// character at i.
func (d *Document) GetAnnotationsFromOffset(i int) AnnotationSet { return d.items[i].Annotations() }

// FixupResult is what FixupInsertion reports about an insertion it may have
// adjusted: the (possibly unchanged) offset to insert at, the data to
// insert (possibly padded with wrapper markers), and the sub-slice of that
// data that was the caller's original intent.
type FixupResult struct {
	Offset             int
	Data               []Item
	InsertedDataOffset int
	InsertedDataLength int
}

// FixupInsertion adjusts a caller-requested insertion so the result stays
// tree-valid. A run of bare characters landing outside any content branch
// is wrapped in a new paragraph; anything else is passed through unchanged.
// InsertedDataOffset/InsertedDataLength mark the caller's original data
// within the (possibly padded) returned slice.
func (d *Document) FixupInsertion(data []Item, offset int) FixupResult {
	if len(data) == 0 {
		return FixupResult{Offset: offset, Data: nil}
	}
	if IsPlainCharacterRun(data) && !d.isInsideContentBranch(offset) {
		wrapped := make([]Item, 0, len(data)+2)
		wrapped = append(wrapped, NewOpenItem("paragraph", nil))
		wrapped = append(wrapped, CloneItems(data)...)
		wrapped = append(wrapped, NewCloseItem("paragraph"))
		return FixupResult{
			Offset:             offset,
			Data:               wrapped,
			InsertedDataOffset: 1,
			InsertedDataLength: len(data),
		}
	}
	return FixupResult{
		Offset:             offset,
		Data:               CloneItems(data),
		InsertedDataOffset: 0,
		InsertedDataLength: len(data),
	}
}

// isInsideContentBranch reports whether offset sits strictly inside an
// open content branch (between its opening marker and its matching close).
func (d *Document) isInsideContentBranch(offset int) bool {
	depth := 0
	limit := offset
	if limit > len(d.items) {
		limit = len(d.items)
	}
	for i := 0; i < limit; i++ {
		it := d.items[i]
		if it.IsOpenElement() && d.factory.CanNodeContainContent(it.Type()) {
			depth++
		} else if it.IsCloseElement() && d.factory.CanNodeContainContent(it.Type()) && depth > 0 {
			depth--
		}
	}
	return depth > 0
}
