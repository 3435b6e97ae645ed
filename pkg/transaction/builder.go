package transaction

import "github.com/coreseekdev/texere-dm/pkg/document"

// Builder assembles a Transaction one operation at a time, coalescing
// adjacent operations of the same kind: pushing a retain right after a
// retain extends it instead of appending a second one, and likewise for
// replace pushed back to back. replaceMetadata ops are never merged.
type Builder struct {
	ops         []Op
	doc         *document.Document
	offset      int // cursor into doc's data
	metaOffset  int // cursor into doc's metadata cells
}

// NewBuilder starts a Builder targeting doc. All offsets pushed to it are
// interpreted against doc's current data and metadata.
func NewBuilder(doc *document.Document) *Builder {
	return &Builder{doc: doc}
}

// Build finalizes the builder into a Transaction. It does not add a
// trailing retain; call PushFinalRetain first if the caller wants the
// transaction to explicitly retain to the end of the document.
func (b *Builder) Build() *Transaction {
	ops := make([]Op, len(b.ops))
	copy(ops, b.ops)
	return &Transaction{Operations: ops}
}

// Offset returns the builder's current data cursor.
func (b *Builder) Offset() int { return b.offset }

// RetainTo advances the cursor up to target, a no-op if it is already
// there. Most constructors use this instead of PushRetain directly, since
// the gap between two edit points is often zero.
func (b *Builder) RetainTo(target int) error {
	delta := target - b.offset
	if delta < 0 {
		return ErrInvalidRange
	}
	if delta == 0 {
		return nil
	}
	return b.PushRetain(delta)
}

func (b *Builder) last() (Op, bool) {
	if len(b.ops) == 0 {
		return nil, false
	}
	return b.ops[len(b.ops)-1], true
}

// PushRetain advances the cursor by length unchanged data offsets,
// coalescing with a preceding retain. A zero length pushes nothing; a
// negative one is rejected.
func (b *Builder) PushRetain(length int) error {
	if length < 0 {
		return ErrNegativeRetain
	}
	if length == 0 {
		return nil
	}
	if last, ok := b.last(); ok {
		if r, ok := last.(RetainOp); ok {
			b.ops[len(b.ops)-1] = RetainOp{Length: r.Length + length}
			b.offset += length
			return nil
		}
	}
	b.ops = append(b.ops, RetainOp{Length: length})
	b.offset += length
	return nil
}

// PushRetainMetadata advances the metadata cursor by length cells unchanged,
// coalescing with a preceding retainMetadata. A zero length pushes nothing;
// a negative one is rejected.
func (b *Builder) PushRetainMetadata(length int) error {
	if length < 0 {
		return ErrNegativeRetain
	}
	if length == 0 {
		return nil
	}
	if b.metaOffset+length > b.doc.Meta().Len() {
		return ErrMetadataBounds
	}
	if last, ok := b.last(); ok {
		if r, ok := last.(RetainMetadataOp); ok {
			b.ops[len(b.ops)-1] = RetainMetadataOp{Length: r.Length + length}
			b.metaOffset += length
			return nil
		}
	}
	b.ops = append(b.ops, RetainMetadataOp{Length: length})
	b.metaOffset += length
	return nil
}

// PushReplace removes the items at [offset, offset+len(remove)) and
// substitutes insert, coalescing with an immediately preceding replace (so a
// caller building up a multi-step edit by repeated PushReplace calls gets
// one op, not several). remove must equal the document's actual data at the
// cursor; callers that don't already have it should read it via
// doc.GetData with a Range built from the builder's Offset.
func (b *Builder) PushReplace(remove, insert []document.Item) error {
	if len(remove) == 0 && len(insert) == 0 {
		return nil
	}
	if last, ok := b.last(); ok {
		if _, ok := last.(ReplaceMetadataOp); ok {
			return ErrReplaceAfterReplaceMetadata
		}
		if r, ok := last.(ReplaceOp); ok {
			merged := ReplaceOp{
				Remove: append(append([]document.Item{}, r.Remove...), remove...),
				Insert: append(append([]document.Item{}, r.Insert...), insert...),
			}
			b.ops[len(b.ops)-1] = merged
			b.offset += len(remove)
			return nil
		}
	}
	b.ops = append(b.ops, ReplaceOp{Remove: document.CloneItems(remove), Insert: document.CloneItems(insert)})
	b.offset += len(remove)
	return nil
}

// PushReplaceMetadata replaces the metadata cell at the current metadata
// cursor. remove must equal the cell's actual current contents.
func (b *Builder) PushReplaceMetadata(remove, insert []document.MetaItem) error {
	if b.metaOffset >= b.doc.Meta().Len() {
		return ErrMetadataBounds
	}
	if metaItemsEqual(remove, insert) {
		return ErrEmptyMetadata
	}
	b.ops = append(b.ops, ReplaceMetadataOp{Remove: append([]document.MetaItem{}, remove...), Insert: append([]document.MetaItem{}, insert...)})
	b.metaOffset++
	return nil
}

func metaItemsEqual(a, b []document.MetaItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// PushReplaceElementAttribute pushes a single attribute change. The caller
// is responsible for having already retained up to (but not past) the
// opening element marker being changed.
func (b *Builder) PushReplaceElementAttribute(key string, from, to interface{}) error {
	if b.offset >= b.doc.Length() || !b.doc.IsOpenElementData(b.offset) {
		return ErrInvalidAttributeTarget
	}
	b.ops = append(b.ops, AttributeOp{Key: key, From: from, To: to})
	return nil
}

// PushStartAnnotating opens an annotation span at the current cursor.
func (b *Builder) PushStartAnnotating(method AnnotateMethod, index int) {
	b.ops = append(b.ops, AnnotateOp{Method: method, Bias: AnnotateStart, Index: index})
}

// PushStopAnnotating closes an annotation span at the current cursor.
func (b *Builder) PushStopAnnotating(method AnnotateMethod, index int) {
	b.ops = append(b.ops, AnnotateOp{Method: method, Bias: AnnotateStop, Index: index})
}

// PushFinalRetain appends a retain covering every offset from the builder's
// current cursor to the end of the target document, if any remain. Most
// constructors call this as their last step so the resulting Transaction's
// retains sum to the full document length.
func (b *Builder) PushFinalRetain() {
	if remaining := b.doc.Length() - b.offset; remaining > 0 {
		_ = b.PushRetain(remaining)
	}
}

// PushFinalRetainMetadata is PushFinalRetain's metadata-axis counterpart.
func (b *Builder) PushFinalRetainMetadata() {
	if remaining := b.doc.Meta().Len() - b.metaOffset; remaining > 0 {
		_ = b.PushRetainMetadata(remaining)
	}
}

// AddSafeRemoveOps appends whatever retain/replace operations are needed to
// remove the data in r, skipping over (retaining) any undeletable element
// markers found inside it instead of removing them, since the schema marks
// some structural nodes as non-deletable.
func (b *Builder) AddSafeRemoveOps(r document.Range) error {
	n := r.Normalized()
	if n.Start < b.offset || n.End > b.doc.Length() {
		return ErrInvalidRange
	}
	if n.Start > b.offset {
		if err := b.PushRetain(n.Start - b.offset); err != nil {
			return err
		}
	}
	data := b.doc.GetData(n)
	i := 0
	for i < len(data) {
		it := data[i]
		if it.IsElement() && !b.doc.Factory().IsNodeDeletable(it.Type()) {
			if err := b.flushRemoveRun(data[:i]); err != nil {
				return err
			}
			data = data[i+1:]
			if err := b.PushRetain(1); err != nil {
				return err
			}
			i = 0
			continue
		}
		i++
	}
	return b.flushRemoveRun(data)
}

func (b *Builder) flushRemoveRun(run []document.Item) error {
	if len(run) == 0 {
		return nil
	}
	return b.PushReplace(run, nil)
}
