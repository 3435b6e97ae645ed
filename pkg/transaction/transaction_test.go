package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreseekdev/texere-dm/pkg/document"
)

// TestTransaction_IsNoOp checks a transaction made only of retains reports
// itself as a no-op.
func TestTransaction_IsNoOp(t *testing.T) {
	tx := New([]Op{RetainOp{Length: 4}})
	assert.True(t, tx.IsNoOp())

	tx2 := New([]Op{RetainOp{Length: 2}, ReplaceOp{Insert: []document.Item{document.NewCharItem("x", document.AnnotationSet{})}}})
	assert.False(t, tx2.IsNoOp())
}

// TestTransaction_Reversed_Replace checks reversing swaps Remove and Insert.
func TestTransaction_Reversed_Replace(t *testing.T) {
	a := document.NewCharItem("a", document.AnnotationSet{})
	b := document.NewCharItem("b", document.AnnotationSet{})
	tx := New([]Op{ReplaceOp{Remove: []document.Item{a}, Insert: []document.Item{b}}})

	rev := tx.Reversed()
	replaced := rev.Operations[0].(ReplaceOp)
	assert.Equal(t, "b", replaced.Remove[0].Text())
	assert.Equal(t, "a", replaced.Insert[0].Text())
}

// TestTransaction_Reversed_Attribute checks reversing swaps From and To.
func TestTransaction_Reversed_Attribute(t *testing.T) {
	tx := New([]Op{AttributeOp{Key: "level", From: 1, To: 2}})
	rev := tx.Reversed()
	attr := rev.Operations[0].(AttributeOp)
	assert.Equal(t, 2, attr.From)
	assert.Equal(t, 1, attr.To)
}

// TestTransaction_Reversed_Annotate checks reversing swaps set and clear but
// keeps the same bias.
func TestTransaction_Reversed_Annotate(t *testing.T) {
	tx := New([]Op{AnnotateOp{Method: AnnotateSet, Bias: AnnotateStart, Index: 3}})
	rev := tx.Reversed()
	ann := rev.Operations[0].(AnnotateOp)
	assert.Equal(t, AnnotateClear, ann.Method)
	assert.Equal(t, AnnotateStart, ann.Bias)
}

// TestTransaction_ClonedResetsAppliedLatch checks Clone returns a fresh,
// unlatched copy.
func TestTransaction_ClonedResetsAppliedLatch(t *testing.T) {
	tx := New([]Op{RetainOp{Length: 1}})
	tx.MarkAsApplied()
	assert.True(t, tx.HasBeenApplied())

	clone := tx.Clone()
	assert.False(t, clone.HasBeenApplied())
}

// TestTransaction_GetModifiedRange checks the range covers only the
// non-retain span.
func TestTransaction_GetModifiedRange(t *testing.T) {
	tx := New([]Op{
		RetainOp{Length: 2},
		ReplaceOp{Remove: []document.Item{document.NewCharItem("a", document.AnnotationSet{})}},
		RetainOp{Length: 5},
	})
	r, ok := tx.GetModifiedRange()
	assert.True(t, ok)
	assert.Equal(t, document.NewRange(2, 2), r)
}

// TestTransaction_GetModifiedRange_NoOp checks a pure-retain transaction
// reports no modified range.
func TestTransaction_GetModifiedRange_NoOp(t *testing.T) {
	tx := New([]Op{RetainOp{Length: 4}})
	_, ok := tx.GetModifiedRange()
	assert.False(t, ok)
}
