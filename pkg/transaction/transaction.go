// Package transaction implements the transaction core: a linear sequence of
// operations describing an edit to a document's flat item stream, the
// builder that assembles one op by op while keeping it maximally coalesced,
// the high-level constructors that turn editing intents (insert text, wrap a
// selection, change an attribute...) into a Transaction, and the rebase
// engine that reconciles two transactions built against the same base
// document.
//
// A Transaction never mutates a document itself: Apply replays its
// operations over a document's data and returns a new Document, leaving the
// original as it was.
package transaction

import "github.com/coreseekdev/texere-dm/pkg/document"

// Transaction is an ordered list of operations plus a latch recording
// whether it has already been applied to its target document. Apply sets
// the latch but does not check it, so it records a replay rather than
// preventing one; Clone returns a copy with the latch reset.
type Transaction struct {
	Operations []Op
	applied    bool
}

// New wraps ops into a Transaction. Most callers should prefer a Builder or
// one of the newFrom* constructors instead of calling this directly.
func New(ops []Op) *Transaction {
	return &Transaction{Operations: ops}
}

// Clone returns a copy of t with its applied latch reset, safe to apply
// independently of t.
func (t *Transaction) Clone() *Transaction {
	ops := make([]Op, len(t.Operations))
	copy(ops, t.Operations)
	return &Transaction{Operations: ops}
}

// HasBeenApplied reports whether MarkAsApplied has been called on t.
func (t *Transaction) HasBeenApplied() bool { return t.applied }

// MarkAsApplied latches t so HasBeenApplied reports true. Callers that apply
// a Transaction to a document should call this immediately afterwards.
func (t *Transaction) MarkAsApplied() { t.applied = true }

// IsNoOp reports whether t would leave a document unchanged: every
// operation is a retain or retainMetadata.
func (t *Transaction) IsNoOp() bool {
	for _, op := range t.Operations {
		switch op.Type() {
		case OpRetain, OpRetainMetadata:
			continue
		default:
			return false
		}
	}
	return true
}

// HasOperationWithType reports whether t contains at least one operation of
// the given type.
func (t *Transaction) HasOperationWithType(ot OpType) bool {
	for _, op := range t.Operations {
		if op.Type() == ot {
			return true
		}
	}
	return false
}

// HasContentDataOperations reports whether t touches the data stream
// (insertions, deletions or replacements of items).
func (t *Transaction) HasContentDataOperations() bool {
	return t.HasOperationWithType(OpReplace)
}

// HasElementAttributeOperations reports whether t changes any element's
// attributes.
func (t *Transaction) HasElementAttributeOperations() bool {
	return t.HasOperationWithType(OpAttribute)
}

// HasAnnotationOperations reports whether t starts or stops any annotation
// span.
func (t *Transaction) HasAnnotationOperations() bool {
	return t.HasOperationWithType(OpAnnotate)
}

// Reversed returns the inverse Transaction: applying t then t.Reversed() to
// a document is a no-op. Retains pass through unchanged; replace/replaceMetadata
// swap Remove and Insert; attribute swaps From and To; annotate swaps set and
// clear (start/stop bias is preserved, since it still marks the same span).
func (t *Transaction) Reversed() *Transaction {
	ops := make([]Op, len(t.Operations))
	for i, op := range t.Operations {
		ops[i] = reverseOp(op)
	}
	return &Transaction{Operations: ops}
}

func reverseOp(op Op) Op {
	switch o := op.(type) {
	case RetainOp:
		return o
	case RetainMetadataOp:
		return o
	case ReplaceOp:
		return ReplaceOp{Remove: o.Insert, Insert: o.Remove}
	case ReplaceMetadataOp:
		return ReplaceMetadataOp{Remove: o.Insert, Insert: o.Remove}
	case AttributeOp:
		return AttributeOp{Key: o.Key, From: o.To, To: o.From}
	case AnnotateOp:
		method := AnnotateSet
		if o.Method == AnnotateSet {
			method = AnnotateClear
		}
		return AnnotateOp{Method: method, Bias: o.Bias, Index: o.Index}
	default:
		return op
	}
}

// GetModifiedRange returns the range of offsets in the document t produces
// that t touches: from the offset of the first non-retain operation to the
// end of the data inserted by the last. A pure removal therefore reports a
// collapsed range. The second return value is false if t is a no-op.
func (t *Transaction) GetModifiedRange() (document.Range, bool) {
	offset := 0
	start, end := -1, -1
	for _, op := range t.Operations {
		switch o := op.(type) {
		case RetainOp:
			offset += o.Length
		case RetainMetadataOp:
			// metadata offsets are a separate axis, not reflected here
		case ReplaceOp:
			if start == -1 {
				start = offset
			}
			offset += len(o.Insert)
			end = offset
		default:
			if start == -1 {
				start = offset
			}
			end = offset
		}
	}
	if start == -1 {
		return document.Range{}, false
	}
	return document.Range{Start: start, End: end}, true
}

// TranslateOffset adjusts offset (a position in the document t was built
// against) to its position in the document t produces. Offsets that fall
// strictly inside a replaced span are pinned to the start of the
// replacement's insertion (excludeInsertion) or its end, matching the bias
// argument: pass false to keep insertions before offset from pushing it
// forward only when offset sits exactly at the edit point, true to always
// push it past a same-point insertion.
func (t *Transaction) TranslateOffset(offset int, excludeInsertion ...bool) int {
	exclude := false
	if len(excludeInsertion) > 0 {
		exclude = excludeInsertion[0]
	}
	cursor, result := 0, offset
	delta := 0
	for _, op := range t.Operations {
		switch o := op.(type) {
		case RetainOp:
			cursor += o.Length
		case ReplaceOp:
			removeLen, insertLen := len(o.Remove), len(o.Insert)
			if cursor < offset {
				if cursor+removeLen <= offset {
					delta += insertLen - removeLen
				} else {
					// offset fell inside the removed span; pin to the
					// replacement boundary.
					if exclude {
						result = cursor + delta + insertLen
					} else {
						result = cursor + delta
					}
					return result
				}
			} else if cursor == offset && insertLen > 0 && !exclude {
				return cursor + delta
			}
			cursor += removeLen
		default:
			// metadata/attribute/annotate ops do not consume data offsets
		}
		if cursor >= offset {
			break
		}
	}
	return result + delta
}

// TranslateRange applies TranslateOffset to both endpoints of r.
func (t *Transaction) TranslateRange(r document.Range) document.Range {
	return document.Range{
		Start: t.TranslateOffset(r.Start),
		End:   t.TranslateOffset(r.End, true),
	}
}
