package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewMetaLinearData_CellCount checks the stream allocates dataLength+1 cells.
func TestNewMetaLinearData_CellCount(t *testing.T) {
	m := NewMetaLinearData(3)
	assert.Equal(t, 4, m.Len())
}

// TestMetaLinearData_SetGetData checks a round trip through a single cell.
func TestMetaLinearData_SetGetData(t *testing.T) {
	m := NewMetaLinearData(1)
	items := []MetaItem{{Type: "comment", Attrs: ElementAttributes{"id": "c1"}}}
	m.SetData(0, items)
	assert.Equal(t, items, m.GetData(0))
}

// TestMetaLinearData_Splice checks removed cells are returned for building
// an inverse operation.
func TestMetaLinearData_Splice(t *testing.T) {
	m := NewMetaLinearData(2)
	m.SetData(1, []MetaItem{{Type: "align"}})
	removed := m.Splice(1, 1, [][]MetaItem{{{Type: "comment"}}})
	assert.Equal(t, [][]MetaItem{{{Type: "align"}}}, removed)
	assert.Equal(t, []MetaItem{{Type: "comment"}}, m.GetData(1))
}

// TestMetaLinearData_Merge_DropsExactDuplicates checks the collapse rule
// used when removing a run of data.
func TestMetaLinearData_Merge_DropsExactDuplicates(t *testing.T) {
	m := NewMetaLinearData(0)
	merged := m.Merge([][]MetaItem{
		{{Type: "comment", Attrs: ElementAttributes{"id": "c1"}}},
		{{Type: "comment", Attrs: ElementAttributes{"id": "c1"}}},
		{{Type: "align"}},
	})
	assert.Len(t, merged, 2)
}
