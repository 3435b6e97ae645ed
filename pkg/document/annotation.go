package document

import (
	"reflect"
	"sync"
)

// Annotation is a piece of formatting (bold, a link, a comment reference)
// attached to one or more characters. Annotations are pooled in a Store and
// referenced by index so that characters only carry small integer sets.
type Annotation struct {
	Type  string
	Attrs map[string]interface{}
}

// NewAnnotation builds an annotation value. Attrs may be nil.
func NewAnnotation(annType string, attrs map[string]interface{}) *Annotation {
	return &Annotation{Type: annType, Attrs: attrs}
}

// Equal reports value equality ("comparable" equality): same type and same
// attributes, regardless of whether the two values are the same object.
func (a *Annotation) Equal(other *Annotation) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	if a.Type != other.Type {
		return false
	}
	return reflect.DeepEqual(a.Attrs, other.Attrs)
}

func (a *Annotation) clone() *Annotation {
	if a == nil {
		return nil
	}
	c := &Annotation{Type: a.Type}
	if a.Attrs != nil {
		c.Attrs = make(map[string]interface{}, len(a.Attrs))
		for k, v := range a.Attrs {
			c.Attrs[k] = v
		}
	}
	return c
}

// Store is the annotation pool shared by a document. Transactions reference
// annotations by the index Store.Index returns, never by value, so that the
// same annotation instance can be shared by many characters cheaply.
type Store struct {
	mu    sync.Mutex
	items []*Annotation
}

// NewStore creates an empty annotation store.
func NewStore() *Store {
	return &Store{}
}

// Index pools ann and returns its index. Each call allocates a fresh slot,
// even for a value-equal annotation already in the store: newFromAnnotation
// relies on this to let several comparable annotations coexist and be
// cleared one at a time.
func (s *Store) Index(ann *Annotation) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, ann)
	return len(s.items) - 1
}

// Get returns the annotation at index i.
func (s *Store) Get(i int) *Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[i]
}

// Len returns the number of pooled annotations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Merge appends other's annotations to s and returns a mapping from other's
// indices to the newly assigned indices in s. Used by newFromDocumentInsertion
// to fold a foreign document's annotation pool into the host's.
func (s *Store) Merge(other *Store) map[int]int {
	if other == nil {
		return nil
	}
	other.mu.Lock()
	items := make([]*Annotation, len(other.items))
	copy(items, other.items)
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	mapping := make(map[int]int, len(items))
	for i, a := range items {
		mapping[i] = len(s.items)
		s.items = append(s.items, a)
	}
	return mapping
}

// AnnotationSet is an immutable-in-practice set of annotation indices
// carried by a single character. Every mutator returns a new set; the
// receiver is left untouched.
type AnnotationSet struct {
	store   *Store
	indices []int
}

// NewAnnotationSet returns an empty set bound to store.
func NewAnnotationSet(store *Store) AnnotationSet {
	return AnnotationSet{store: store}
}

// Store returns the backing annotation pool.
func (s AnnotationSet) Store() *Store {
	return s.store
}

// Len returns the number of annotations in the set.
func (s AnnotationSet) Len() int {
	return len(s.indices)
}

// Indices returns a copy of the pooled indices in this set, in the order
// they were added.
func (s AnnotationSet) Indices() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// Contains reports exact ("identity") containment: does the set hold the
// specific index that ann was stored at, not merely a value-equal one.
func (s AnnotationSet) Contains(ann *Annotation) bool {
	_, ok := s.IndexOf(ann)
	return ok
}

// IndexOf returns the pooled index in the set whose stored value is the
// same object as ann.
func (s AnnotationSet) IndexOf(ann *Annotation) (int, bool) {
	if s.store == nil {
		return 0, false
	}
	for _, i := range s.indices {
		if s.store.Get(i) == ann {
			return i, true
		}
	}
	return 0, false
}

// ContainsComparable reports whether the set holds any annotation whose
// value equals ann, independent of which index it was stored at.
func (s AnnotationSet) ContainsComparable(ann *Annotation) bool {
	if s.store == nil {
		return false
	}
	for _, i := range s.indices {
		if s.store.Get(i).Equal(ann) {
			return true
		}
	}
	return false
}

// With returns a copy of the set with index added (no-op if already present).
func (s AnnotationSet) With(index int) AnnotationSet {
	for _, i := range s.indices {
		if i == index {
			return s
		}
	}
	out := make([]int, len(s.indices), len(s.indices)+1)
	copy(out, s.indices)
	out = append(out, index)
	return AnnotationSet{store: s.store, indices: out}
}

// Without returns a copy of the set with index removed (no-op if absent).
func (s AnnotationSet) Without(index int) AnnotationSet {
	out := make([]int, 0, len(s.indices))
	for _, i := range s.indices {
		if i != index {
			out = append(out, i)
		}
	}
	return AnnotationSet{store: s.store, indices: out}
}

// Equal reports whether two sets hold the same indices, in any order.
func (s AnnotationSet) Equal(other AnnotationSet) bool {
	if len(s.indices) != len(other.indices) {
		return false
	}
	seen := make(map[int]int, len(s.indices))
	for _, i := range s.indices {
		seen[i]++
	}
	for _, i := range other.indices {
		seen[i]--
	}
	for _, c := range seen {
		if c != 0 {
			return false
		}
	}
	return true
}
