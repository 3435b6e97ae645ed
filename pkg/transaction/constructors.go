package transaction

import (
	"reflect"

	"github.com/coreseekdev/texere-dm/pkg/document"
)

// NewFromInsertion builds a Transaction that inserts data at offset,
// running it through doc.FixupInsertion first so a bare run of characters
// landing outside a content branch is automatically wrapped in a paragraph.
func NewFromInsertion(doc *document.Document, offset int, data []document.Item) (*Transaction, error) {
	if offset < 0 || offset > doc.Length() {
		return nil, ErrInvalidRange
	}
	fixed := doc.FixupInsertion(data, offset)
	b := NewBuilder(doc)
	if fixed.Offset > 0 {
		if err := b.PushRetain(fixed.Offset); err != nil {
			return nil, err
		}
	}
	if err := b.PushReplace(nil, fixed.Data); err != nil {
		return nil, err
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

// NewFromRemoval builds a Transaction that removes r, retaining (refusing
// to delete) any non-deletable element markers it contains.
func NewFromRemoval(doc *document.Document, r document.Range) (*Transaction, error) {
	n := r.Normalized()
	if n.Start < 0 || n.End > doc.Length() {
		return nil, ErrInvalidRange
	}
	b := NewBuilder(doc)
	if err := b.AddSafeRemoveOps(n); err != nil {
		return nil, err
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

// NewFromReplacement builds a Transaction that removes r and inserts data
// in its place, applying the same fixup as NewFromInsertion.
func NewFromReplacement(doc *document.Document, r document.Range, data []document.Item) (*Transaction, error) {
	n := r.Normalized()
	if n.Start < 0 || n.End > doc.Length() {
		return nil, ErrInvalidRange
	}
	fixed := doc.FixupInsertion(data, n.Start)
	b := NewBuilder(doc)
	if n.Start > 0 {
		if err := b.PushRetain(n.Start); err != nil {
			return nil, err
		}
	}
	if err := b.PushReplace(doc.GetData(n), fixed.Data); err != nil {
		return nil, err
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

// AttributeChange is one {Key, To} pair for NewFromAttributeChanges. To nil
// means the attribute should be removed.
type AttributeChange struct {
	Key string
	To  interface{}
}

// NewFromAttributeChanges builds a Transaction that changes the attributes
// of the opening element marker at offset, emitting an attribute op only
// for keys whose value actually changes.
func NewFromAttributeChanges(doc *document.Document, offset int, changes []AttributeChange) (*Transaction, error) {
	if offset < 0 || offset >= doc.Length() || !doc.IsOpenElementData(offset) {
		return nil, ErrInvalidAttributeTarget
	}
	b := NewBuilder(doc)
	if offset > 0 {
		if err := b.PushRetain(offset); err != nil {
			return nil, err
		}
	}
	current := doc.ItemAt(offset).Attributes()
	for _, c := range changes {
		var from interface{}
		if current != nil {
			from = current[c.Key]
		}
		if reflect.DeepEqual(from, c.To) {
			continue
		}
		if err := b.PushReplaceElementAttribute(c.Key, from, c.To); err != nil {
			return nil, err
		}
	}
	if err := b.PushRetain(1); err != nil {
		return nil, err
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

// NewFromAnnotation builds a Transaction that applies (method=set) or
// removes (method=clear) annType across r, in a single linear scan: it
// walks every offset inside r and treats a character as eligible unless it
// sits inside a node whose schema ignores its children's annotations. Each
// run of eligible characters that still lacks (set) or still carries (clear)
// the annotation gets its own start/stop span. Element markers, inline
// content nodes included, are never annotated.
func NewFromAnnotation(doc *document.Document, r document.Range, method AnnotateMethod, annType string, attrs map[string]interface{}) (*Transaction, error) {
	n := r.Normalized()
	if n.Start < 0 || n.End > doc.Length() {
		return nil, ErrInvalidRange
	}
	ann := document.NewAnnotation(annType, attrs)
	index := -1
	if method == AnnotateSet {
		index = doc.Store().Index(ann)
	} else {
		index = findComparableAnnotationIndex(doc, n, ann)
		if index < 0 {
			// Nothing in range carries a matching annotation: clearing it is a no-op.
			b := NewBuilder(doc)
			b.PushFinalRetain()
			return b.Build(), nil
		}
	}

	b := NewBuilder(doc)
	if n.Start > 0 {
		if err := b.PushRetain(n.Start); err != nil {
			return nil, err
		}
	}

	started := false
	ignoreDepth := 0
	for offset := n.Start; offset < n.End; offset++ {
		it := doc.ItemAt(offset)
		eligible := it.IsChar() && ignoreDepth == 0
		if it.IsOpenElement() && doc.Factory().ShouldIgnoreChildren(it.Type()) {
			ignoreDepth++
		}
		if it.IsCloseElement() && doc.Factory().ShouldIgnoreChildren(it.Type()) && ignoreDepth > 0 {
			ignoreDepth--
		}

		hasIt := it.IsChar() && hasAnnotation(it.Annotations(), method, doc.Store(), ann, index)
		// Set needs a span where the annotation is still missing; clear needs
		// a span where it is still present.
		var wantChange bool
		if method == AnnotateSet {
			wantChange = eligible && !hasIt
		} else {
			wantChange = eligible && hasIt
		}

		if wantChange && !started {
			b.PushStartAnnotating(method, index)
			started = true
		} else if !wantChange && started {
			b.PushStopAnnotating(method, index)
			started = false
		}
		if err := b.PushRetain(1); err != nil {
			return nil, err
		}
	}
	if started {
		b.PushStopAnnotating(method, index)
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

func hasAnnotation(set document.AnnotationSet, method AnnotateMethod, store *document.Store, ann *document.Annotation, index int) bool {
	if method == AnnotateSet {
		return set.ContainsComparable(ann)
	}
	return set.Contains(store.Get(index))
}

// findComparableAnnotationIndex scans the characters in r for one already
// carrying an annotation comparably equal to ann (same type and attrs), and
// returns the store index actually referenced by that character. Clearing an
// annotation must target the index the document already uses for it, not a
// freshly pooled one, since Store.Index never deduplicates.
func findComparableAnnotationIndex(doc *document.Document, r document.Range, ann *document.Annotation) int {
	store := doc.Store()
	for offset := r.Start; offset < r.End; offset++ {
		it := doc.ItemAt(offset)
		if !it.IsChar() {
			continue
		}
		for _, idx := range it.Annotations().Indices() {
			if store.Get(idx).Equal(ann) {
				return idx
			}
		}
	}
	return -1
}

// NewFromContentBranchConversion builds a Transaction that retypes every
// content branch node fully inside r from fromType to toType, preserving
// each node's attributes.
func NewFromContentBranchConversion(doc *document.Document, r document.Range, fromType, toType string) (*Transaction, error) {
	n := r.Normalized()
	if n.Start < 0 || n.End > doc.Length() {
		return nil, ErrInvalidRange
	}
	nodes := doc.SelectNodes(n, "covered")
	b := NewBuilder(doc)
	for _, sn := range nodes {
		if sn.Node.Type() != fromType || !sn.IsWhole {
			continue
		}
		openAt := sn.Node.OuterRange().Start
		closeAt := sn.Node.OuterRange().End - 1
		if err := b.RetainTo(openAt); err != nil {
			return nil, err
		}
		if err := b.PushReplace(
			[]document.Item{document.NewOpenItem(fromType, sn.Node.Attributes())},
			[]document.Item{document.NewOpenItem(toType, sn.Node.Attributes())},
		); err != nil {
			return nil, err
		}
		if err := b.RetainTo(closeAt); err != nil {
			return nil, err
		}
		if err := b.PushReplace(
			[]document.Item{document.NewCloseItem(fromType)},
			[]document.Item{document.NewCloseItem(toType)},
		); err != nil {
			return nil, err
		}
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

// NewFromWrap builds a Transaction that replaces the element markers
// immediately surrounding r with a different set: unwrapOuter/wrapOuter name
// the types currently surrounding r and the types that should surround it
// afterwards (outermost first); unwrapEach/wrapEach do the same for every
// node directly selected inside r (used to wrap or unwrap a list of
// siblings one at a time, e.g. turning N paragraphs into N list items).
func NewFromWrap(doc *document.Document, r document.Range, unwrapOuter, wrapOuter, unwrapEach, wrapEach []string) (*Transaction, error) {
	n := r.Normalized()
	depth := len(unwrapOuter)
	if n.Start-depth < 0 || n.End+depth > doc.Length() {
		return nil, ErrInvalidRange
	}
	for i := 0; i < depth; i++ {
		openAt := n.Start - depth + i
		closeAt := n.End + (depth - 1 - i)
		if doc.GetType(openAt) != unwrapOuter[i] || doc.GetType(closeAt) != unwrapOuter[i] {
			return nil, ErrUnwrapMismatch
		}
	}

	b := NewBuilder(doc)

	// Leading markers: unwrap the existing outer nesting (outermost first),
	// then insert the new outer nesting (also outermost first) at the same
	// point, so the two runs of replace ops sit back to back.
	if err := b.RetainTo(n.Start - depth); err != nil {
		return nil, err
	}
	for i := 0; i < depth; i++ {
		openAt := n.Start - depth + i
		if err := b.PushReplace([]document.Item{document.NewOpenItem(unwrapOuter[i], doc.ItemAt(openAt).Attributes())}, nil); err != nil {
			return nil, err
		}
	}
	for _, t := range wrapOuter {
		if err := b.PushReplace(nil, []document.Item{document.NewOpenItem(t, nil)}); err != nil {
			return nil, err
		}
	}

	if err := wrapSelectedNodes(b, doc, n, unwrapEach, wrapEach); err != nil {
		return nil, err
	}

	if err := b.RetainTo(n.End); err != nil {
		return nil, err
	}

	// Trailing markers: unwrap the existing close markers (innermost first,
	// matching the nesting order), then insert the new ones (innermost
	// first, i.e. reverse of wrapOuter).
	for i := depth - 1; i >= 0; i-- {
		if err := b.PushReplace([]document.Item{document.NewCloseItem(unwrapOuter[i])}, nil); err != nil {
			return nil, err
		}
	}
	for i := len(wrapOuter) - 1; i >= 0; i-- {
		if err := b.PushReplace(nil, []document.Item{document.NewCloseItem(wrapOuter[i])}); err != nil {
			return nil, err
		}
	}

	b.PushFinalRetain()
	return b.Build(), nil
}

func wrapSelectedNodes(b *Builder, doc *document.Document, r document.Range, unwrapEach, wrapEach []string) error {
	if len(unwrapEach) == 0 && len(wrapEach) == 0 {
		return nil
	}
	nodes := doc.SelectNodes(r, "covered")
	for _, sn := range nodes {
		if !sn.IsWhole {
			continue
		}
		outer := sn.Node.OuterRange()
		for i, t := range unwrapEach {
			openAt := outer.Start + i
			if err := b.RetainTo(openAt); err != nil {
				return err
			}
			if doc.GetType(openAt) != t {
				return ErrUnwrapMismatch
			}
			if err := b.PushReplace([]document.Item{document.NewOpenItem(t, doc.ItemAt(openAt).Attributes())}, nil); err != nil {
				return err
			}
		}
		for _, t := range wrapEach {
			if err := b.PushReplace(nil, []document.Item{document.NewOpenItem(t, nil)}); err != nil {
				return err
			}
		}
		if err := b.RetainTo(outer.End - len(unwrapEach)); err != nil {
			return err
		}
		for i := len(unwrapEach) - 1; i >= 0; i-- {
			closeAt := b.Offset()
			if doc.GetType(closeAt) != unwrapEach[i] {
				return ErrUnwrapMismatch
			}
			if err := b.PushReplace([]document.Item{document.NewCloseItem(unwrapEach[i])}, nil); err != nil {
				return err
			}
		}
		for i := len(wrapEach) - 1; i >= 0; i-- {
			if err := b.PushReplace(nil, []document.Item{document.NewCloseItem(wrapEach[i])}); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewFromMetadataInsertion builds a Transaction that appends items to the
// metadata cell at offset, after the elements already in it. The number of
// cells does not change: a document keeps one cell per data offset plus a
// trailing one.
func NewFromMetadataInsertion(doc *document.Document, offset int, items []document.MetaItem) (*Transaction, error) {
	if offset < 0 || offset >= doc.Meta().Len() {
		return nil, ErrMetadataBounds
	}
	b := NewBuilder(doc)
	if err := b.RetainTo(offset); err != nil {
		return nil, err
	}
	if offset > 0 {
		if err := b.PushRetainMetadata(offset); err != nil {
			return nil, err
		}
	}
	existing := doc.Meta().GetData(offset)
	if err := b.PushReplaceMetadata(existing, append(doc.Meta().GetData(offset), items...)); err != nil {
		return nil, err
	}
	b.PushFinalRetainMetadata()
	b.PushFinalRetain()
	return b.Build(), nil
}

// NewFromMetadataRemoval builds a Transaction that removes the metadata
// cell at offset, merging its elements into the following cell so none are
// silently lost.
func NewFromMetadataRemoval(doc *document.Document, offset int) (*Transaction, error) {
	if offset < 0 || offset >= doc.Meta().Len()-1 {
		return nil, ErrMetadataBounds
	}
	b := NewBuilder(doc)
	if err := b.RetainTo(offset); err != nil {
		return nil, err
	}
	if offset > 0 {
		if err := b.PushRetainMetadata(offset); err != nil {
			return nil, err
		}
	}
	removed := doc.Meta().GetData(offset)
	if err := b.PushReplaceMetadata(removed, nil); err != nil {
		return nil, err
	}
	next := doc.Meta().GetData(offset + 1)
	merged := doc.Meta().Merge([][]document.MetaItem{removed, next})
	if metaItemsEqual(next, merged) {
		if err := b.PushRetainMetadata(1); err != nil {
			return nil, err
		}
	} else if err := b.PushReplaceMetadata(next, merged); err != nil {
		return nil, err
	}
	b.PushFinalRetainMetadata()
	b.PushFinalRetain()
	return b.Build(), nil
}

// NewFromMetadataElementReplacement builds a Transaction that replaces the
// metadata cell at offset wholesale.
func NewFromMetadataElementReplacement(doc *document.Document, offset int, items []document.MetaItem) (*Transaction, error) {
	if offset < 0 || offset >= doc.Meta().Len() {
		return nil, ErrMetadataBounds
	}
	b := NewBuilder(doc)
	if err := b.RetainTo(offset); err != nil {
		return nil, err
	}
	if offset > 0 {
		if err := b.PushRetainMetadata(offset); err != nil {
			return nil, err
		}
	}
	if err := b.PushReplaceMetadata(doc.Meta().GetData(offset), items); err != nil {
		return nil, err
	}
	b.PushFinalRetainMetadata()
	b.PushFinalRetain()
	return b.Build(), nil
}

// NewFromDocumentInsertion builds a Transaction that inserts insertDoc's
// data at offset into doc, merging insertDoc's annotation store into doc's.
// When insertDoc was sliced from doc itself (insertDoc.OrigDoc() == doc),
// the two internal lists are reconciled via InternalList.Merge: items the
// slice shares with doc are left alone, items new to the slice are appended
// to doc's internal list in a second replace, positioned relative to the
// node insertion depending on where offset falls relative to the internal
// list's own range.
func NewFromDocumentInsertion(doc *document.Document, offset int, insertDoc *document.Document) (*Transaction, error) {
	if offset < 0 || offset > doc.Length() {
		return nil, ErrInvalidRange
	}
	annMapping := doc.Store().Merge(insertDoc.Store())

	data := insertDoc.GetData()
	remapAnnotations(data, annMapping, doc.Store())

	hostList := doc.GetInternalList()
	hostRange := hostList.OuterRange(doc.Length())
	// splicePoint is where new internal items are appended: just inside the
	// list's closing marker, not past it.
	splicePoint := hostRange.End
	if hostRange.End > hostRange.Start {
		splicePoint = hostRange.End - 1
	}

	var newItems []document.Item
	if insertDoc.OrigDoc() == doc {
		_, newItemRanges := hostList.Merge(insertDoc.GetInternalList(), insertDoc.OrigInternalListLength())
		for _, r := range newItemRanges {
			newItems = append(newItems, insertDoc.GetData(r)...)
		}
	}

	b := NewBuilder(doc)
	switch {
	case len(newItems) == 0 || offset <= hostRange.Start:
		if err := pushNodeInsertion(b, doc, data, offset); err != nil {
			return nil, err
		}
		if len(newItems) > 0 {
			if err := b.RetainTo(splicePoint); err != nil {
				return nil, err
			}
			if err := b.PushReplace(nil, newItems); err != nil {
				return nil, err
			}
		}
	case offset >= hostRange.End:
		if err := b.RetainTo(splicePoint); err != nil {
			return nil, err
		}
		if err := b.PushReplace(nil, newItems); err != nil {
			return nil, err
		}
		if err := pushNodeInsertion(b, doc, data, offset); err != nil {
			return nil, err
		}
	default:
		if err := pushNodeInsertion(b, doc, data, offset); err != nil {
			return nil, err
		}
		if err := b.RetainTo(splicePoint); err != nil {
			return nil, err
		}
		if err := b.PushReplace(nil, newItems); err != nil {
			return nil, err
		}
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

func pushNodeInsertion(b *Builder, doc *document.Document, data []document.Item, offset int) error {
	fixed := doc.FixupInsertion(data, offset)
	if err := b.RetainTo(fixed.Offset); err != nil {
		return err
	}
	return b.PushReplace(nil, fixed.Data)
}

func remapAnnotations(data []document.Item, mapping map[int]int, store *document.Store) {
	if len(mapping) == 0 {
		return
	}
	for i, it := range data {
		if !it.IsChar() {
			continue
		}
		old := it.Annotations()
		remapped := document.NewAnnotationSet(store)
		for _, idx := range old.Indices() {
			if ni, ok := mapping[idx]; ok {
				remapped = remapped.With(ni)
			} else {
				remapped = remapped.With(idx)
			}
		}
		data[i] = it.WithAnnotations(remapped)
	}
}
