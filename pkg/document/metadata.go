package document

// MetaItem is a single metadata element attached at a data offset (for
// example, an alignment marker or a comment anchor that rides alongside the
// data stream but is manipulated on its own axis).
type MetaItem struct {
	Type  string
	Attrs ElementAttributes
}

// Equal reports value equality between two metadata elements.
func (m MetaItem) Equal(other MetaItem) bool {
	return m.Type == other.Type && m.Attrs.Equal(other.Attrs)
}

func cloneMetaItems(items []MetaItem) []MetaItem {
	if items == nil {
		return nil
	}
	out := make([]MetaItem, len(items))
	copy(out, items)
	return out
}

// MetaLinearData is the parallel metadata stream: one cell per data offset
// plus one trailing cell, each an ordered, possibly-empty list of metadata
// elements.
type MetaLinearData struct {
	cells [][]MetaItem
}

// NewMetaLinearData allocates an empty metadata stream for a document of
// dataLength characters/markers (cells has dataLength+1 entries).
func NewMetaLinearData(dataLength int) *MetaLinearData {
	return &MetaLinearData{cells: make([][]MetaItem, dataLength+1)}
}

// Len returns the number of cells (dataLength + 1).
func (m *MetaLinearData) Len() int {
	return len(m.cells)
}

// GetData returns a copy of the metadata elements at offset.
func (m *MetaLinearData) GetData(offset int) []MetaItem {
	return cloneMetaItems(m.cells[offset])
}

// SetData replaces the metadata elements at offset.
func (m *MetaLinearData) SetData(offset int, items []MetaItem) {
	m.cells[offset] = cloneMetaItems(items)
}

// Slice returns copies of the cells in [start, end).
func (m *MetaLinearData) Slice(start, end int) [][]MetaItem {
	out := make([][]MetaItem, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, cloneMetaItems(m.cells[i]))
	}
	return out
}

// Splice removes removeCount cells starting at offset and inserts the cells
// in insert, returning the removed cells (for building the inverse op).
func (m *MetaLinearData) Splice(offset, removeCount int, insert [][]MetaItem) [][]MetaItem {
	removed := make([][]MetaItem, removeCount)
	copy(removed, m.cells[offset:offset+removeCount])

	tail := make([][]MetaItem, len(m.cells)-(offset+removeCount))
	copy(tail, m.cells[offset+removeCount:])

	merged := make([][]MetaItem, 0, offset+len(insert)+len(tail))
	merged = append(merged, m.cells[:offset]...)
	merged = append(merged, insert...)
	merged = append(merged, tail...)
	m.cells = merged
	return removed
}

// Merge collapses several adjacent metadata cells (typically gathered while
// removing a range of data) into the single cell that should be attached to
// the offset immediately following the removal. The collapse rule
// concatenates the cells in order and drops exact duplicates, so that
// repeatedly merging the same metadata element does not pile up copies.
func (m *MetaLinearData) Merge(cells [][]MetaItem) []MetaItem {
	var merged []MetaItem
	for _, cell := range cells {
		for _, item := range cell {
			dup := false
			for _, existing := range merged {
				if existing.Equal(item) {
					dup = true
					break
				}
			}
			if !dup {
				merged = append(merged, item)
			}
		}
	}
	return merged
}
