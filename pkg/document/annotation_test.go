package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAnnotation_Equal checks value equality ignores object identity.
func TestAnnotation_Equal(t *testing.T) {
	a := NewAnnotation("bold", nil)
	b := NewAnnotation("bold", nil)
	assert.NotSame(t, a, b)
	assert.True(t, a.Equal(b))
}

// TestStore_Index_AlwaysAllocatesFreshSlot checks two value-equal
// annotations get distinct indices, so they can later be cleared one at a
// time (the asymmetric set/clear behavior the annotation model relies on).
func TestStore_Index_AlwaysAllocatesFreshSlot(t *testing.T) {
	store := NewStore()
	bold := NewAnnotation("bold", nil)
	i1 := store.Index(bold)
	i2 := store.Index(NewAnnotation("bold", nil))
	assert.NotEqual(t, i1, i2)
	assert.Equal(t, 2, store.Len())
}

// TestAnnotationSet_ContainsVsContainsComparable checks the exact/value
// asymmetry: Contains requires the exact stored object, ContainsComparable
// accepts any value-equal one.
func TestAnnotationSet_ContainsVsContainsComparable(t *testing.T) {
	store := NewStore()
	bold1 := NewAnnotation("bold", nil)
	bold2 := NewAnnotation("bold", nil)
	i1 := store.Index(bold1)
	store.Index(bold2)

	set := NewAnnotationSet(store).With(i1)
	assert.True(t, set.Contains(bold1))
	assert.False(t, set.Contains(bold2))
	assert.True(t, set.ContainsComparable(bold2))
}

// TestAnnotationSet_WithWithout checks mutators return new sets and leave
// the receiver untouched.
func TestAnnotationSet_WithWithout(t *testing.T) {
	store := NewStore()
	idx := store.Index(NewAnnotation("bold", nil))
	empty := NewAnnotationSet(store)
	withIt := empty.With(idx)

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, withIt.Len())
	assert.Equal(t, 0, withIt.Without(idx).Len())
}

// TestStore_Merge checks merging appends the source's annotations and
// returns the index remapping.
func TestStore_Merge(t *testing.T) {
	host := NewStore()
	host.Index(NewAnnotation("bold", nil))

	foreign := NewStore()
	foreign.Index(NewAnnotation("italic", nil))

	mapping := host.Merge(foreign)
	assert.Equal(t, 2, host.Len())
	assert.Equal(t, 1, mapping[0])
	assert.Equal(t, "italic", host.Get(1).Type)
}
