package document

// ElementAttributes holds the attribute bag carried by an opening element
// marker.
type ElementAttributes map[string]interface{}

func (a ElementAttributes) clone() ElementAttributes {
	if a == nil {
		return nil
	}
	out := make(ElementAttributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Equal reports whether two attribute bags hold the same keys and values.
func (a ElementAttributes) Equal(other ElementAttributes) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		ov, ok := other[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

type itemKind uint8

const (
	kindChar itemKind = iota
	kindOpen
	kindClose
)

// Item is a single position in a document's linear data: either a character
// (optionally annotated) or an element marker (opening or closing).
type Item struct {
	kind  itemKind
	text  string
	typ   string
	attrs ElementAttributes
	ann   AnnotationSet
}

// NewCharItem builds a character item from a single grapheme cluster (which
// may span more than one Unicode code point), carrying ann.
func NewCharItem(grapheme string, ann AnnotationSet) Item {
	return Item{kind: kindChar, text: grapheme, ann: ann}
}

// NewOpenItem builds an opening element marker of the given type.
func NewOpenItem(elementType string, attrs ElementAttributes) Item {
	return Item{kind: kindOpen, typ: elementType, attrs: attrs.clone()}
}

// NewCloseItem builds the closing marker matching elementType.
func NewCloseItem(elementType string) Item {
	return Item{kind: kindClose, typ: elementType}
}

// IsChar reports whether the item is a character.
func (it Item) IsChar() bool { return it.kind == kindChar }

// IsElement reports whether the item is an opening or closing marker.
func (it Item) IsElement() bool { return it.kind != kindChar }

// IsOpenElement reports whether the item is an opening marker.
func (it Item) IsOpenElement() bool { return it.kind == kindOpen }

// IsCloseElement reports whether the item is a closing marker.
func (it Item) IsCloseElement() bool { return it.kind == kindClose }

// Type returns the element type for a marker item (without the "/" used in
// the wire form of closing markers) and the empty string for characters.
func (it Item) Type() string { return it.typ }

// Text returns the grapheme cluster for a character item.
func (it Item) Text() string { return it.text }

// Attributes returns the attribute bag of an opening marker (nil otherwise).
func (it Item) Attributes() ElementAttributes { return it.attrs }

// Annotations returns the annotation set carried by a character item.
func (it Item) Annotations() AnnotationSet { return it.ann }

// WithAnnotations returns a copy of the item with its annotation set replaced.
func (it Item) WithAnnotations(ann AnnotationSet) Item {
	c := it
	c.ann = ann
	return c
}

// WithAttribute returns a copy of an opening marker with key set to value
// (or removed, when value is nil).
func (it Item) WithAttribute(key string, value interface{}) Item {
	c := it
	c.attrs = it.attrs.clone()
	if c.attrs == nil {
		c.attrs = ElementAttributes{}
	}
	if value == nil {
		delete(c.attrs, key)
	} else {
		c.attrs[key] = value
	}
	return c
}

// Clone returns a deep copy, safe to mutate independently.
func (it Item) Clone() Item {
	c := it
	c.attrs = it.attrs.clone()
	return c
}

// WireType returns the item's type formatted the way it appears in the
// external wire form: the bare type for an opening marker, "/type" for a
// closing marker, and "" for characters.
func (it Item) WireType() string {
	switch it.kind {
	case kindOpen:
		return it.typ
	case kindClose:
		return "/" + it.typ
	default:
		return ""
	}
}

// CloneItems deep-copies a slice of items.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// IsPlainCharacterRun reports whether every item in data is a character,
// i.e. the slice contains no element markers.
func IsPlainCharacterRun(data []Item) bool {
	for _, it := range data {
		if it.IsElement() {
			return false
		}
	}
	return true
}
