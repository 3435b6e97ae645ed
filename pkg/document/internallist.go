package document

// InternalList is the reserved tail region of a document holding
// referenceable "internal items" (for example, citations collected from
// elsewhere in the document). Concurrent edits to different branches of the
// same document may both mutate it; Merge implements the protocol that
// reconciles two internal lists when one document is inserted into another.
type InternalList struct {
	listNode  *Node
	itemNodes []*Node
}

// Len returns the number of internal items.
func (l *InternalList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.itemNodes)
}

// GetListNode returns the node wrapping the whole internal list, or nil if
// the document has none.
func (l *InternalList) GetListNode() *Node {
	if l == nil {
		return nil
	}
	return l.listNode
}

// GetItemNode returns the i'th internal item's node.
func (l *InternalList) GetItemNode(i int) *Node {
	return l.itemNodes[i]
}

// OuterRange returns the internal list's outer range, or a collapsed range
// at the end of the document if there is none.
func (l *InternalList) OuterRange(docLength int) Range {
	if l == nil || l.listNode == nil {
		return Range{Start: docLength, End: docLength}
	}
	return l.listNode.OuterRange()
}

// Merge reconciles l (the host list) with other (the internal list of a
// document being inserted into the host), given origLen: the number of
// items other's source document had before it was sliced out.
//
// Items at indices [0, origLen) in other are assumed to already be present
// in l at the same index (origLen tracks how many items the slice's source
// document shared with the host at the moment the slice was taken), so they
// map onto the host's existing items rather than being duplicated. Items at
// or past origLen are new: Merge reports their (host-side) destination
// index via mapping and their (other-side) source ranges via newItemRanges,
// so the caller can extract and splice exactly that data.
func (l *InternalList) Merge(other *InternalList, origLen int) (mapping map[int]int, newItemRanges []Range) {
	mapping = make(map[int]int, other.Len())
	hostLen := l.Len()
	for i := 0; i < other.Len(); i++ {
		if i < origLen && i < hostLen {
			mapping[i] = i
			continue
		}
		mapping[i] = hostLen + len(newItemRanges)
		newItemRanges = append(newItemRanges, other.itemNodes[i].OuterRange())
	}
	return mapping, newItemRanges
}

// buildInternalList locates the document's internalList node, if any, and
// materializes its item list.
func (d *Document) buildInternalList() *InternalList {
	root := d.Tree()
	for _, child := range root.Children() {
		if child.Type() == "internalList" {
			items := make([]*Node, 0, len(child.Children()))
			items = append(items, child.Children()...)
			return &InternalList{listNode: child, itemNodes: items}
		}
	}
	return &InternalList{}
}

// GetInternalList returns the document's internal list (rebuilt from the
// current data on every call, since the core treats the document as an
// immutable snapshot per transaction).
func (d *Document) GetInternalList() *InternalList {
	return d.buildInternalList()
}
