package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func twoParagraphDoc() *Document {
	items := []Item{
		NewOpenItem("paragraph", nil),
		NewCharItem("a", AnnotationSet{}),
		NewCloseItem("paragraph"),
		NewOpenItem("paragraph", nil),
		NewCharItem("b", AnnotationSet{}),
		NewCloseItem("paragraph"),
	}
	return New(items, nil)
}

// TestTree_ParsesNestedStructure checks Tree produces one child per
// top-level paragraph with correct outer ranges.
func TestTree_ParsesNestedStructure(t *testing.T) {
	d := twoParagraphDoc()
	root := d.Tree()
	assert.Len(t, root.Children(), 2)
	assert.Equal(t, NewRange(0, 3), root.Children()[0].OuterRange())
	assert.Equal(t, NewRange(3, 6), root.Children()[1].OuterRange())
}

// TestNode_Range checks the content range excludes the markers themselves.
func TestNode_Range(t *testing.T) {
	d := twoParagraphDoc()
	first := d.Tree().Children()[0]
	assert.Equal(t, NewRange(1, 2), first.Range())
	assert.Equal(t, 1, first.Length())
}

// TestSelectNodes_Covered checks a range spanning both paragraphs whole
// returns both as whole nodes.
func TestSelectNodes_Covered(t *testing.T) {
	d := twoParagraphDoc()
	selected := d.SelectNodes(NewRange(0, 6), "covered")
	assert.Len(t, selected, 2)
	assert.True(t, selected[0].IsWhole)
	assert.True(t, selected[1].IsWhole)
}

// TestSelectNodes_Leaves checks a partial range still reaches the leaf node
// it cuts into.
func TestSelectNodes_Leaves(t *testing.T) {
	d := twoParagraphDoc()
	selected := d.SelectNodes(NewRange(1, 2), "leaves")
	assert.Len(t, selected, 1)
	assert.Equal(t, "paragraph", selected[0].Node.Type())
	assert.False(t, selected[0].IsWhole)
}

// TestSelectNodes_Collapsed checks a zero-length range selects nothing.
func TestSelectNodes_Collapsed(t *testing.T) {
	d := twoParagraphDoc()
	assert.Nil(t, d.SelectNodes(NewRange(2, 2), "covered"))
}

// TestEnclosingContentBranch checks the walk stops at the nearest
// content-capable ancestor.
func TestEnclosingContentBranch(t *testing.T) {
	d := twoParagraphDoc()
	para := d.Tree().Children()[0]
	assert.Same(t, para, EnclosingContentBranch(para))
}
