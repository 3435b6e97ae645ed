package transaction

import "github.com/coreseekdev/texere-dm/pkg/document"

// Apply replays t's operations against doc and returns the resulting
// document. doc is left untouched; Apply always produces a new Document.
// Retain and retainMetadata must add up to doc's length/metadata length; a
// mismatch is a programmer error, since a Transaction that does not match
// its target document was never valid to build in the first place, so
// Apply simply lets slice bounds panic.
func Apply(t *Transaction, doc *document.Document) *document.Document {
	items := make([]document.Item, 0, doc.Length())
	metaCells := make([][]document.MetaItem, 0, doc.Meta().Len())

	offset, metaOffset := 0, 0
	var active []AnnotateOp
	var pendingAttrs []AttributeOp

	for _, op := range t.Operations {
		switch o := op.(type) {
		case RetainOp:
			run := doc.GetData(document.NewRange(offset, offset+o.Length))
			for i, it := range run {
				if i == 0 {
					for _, a := range pendingAttrs {
						it = it.WithAttribute(a.Key, a.To)
					}
					pendingAttrs = nil
				}
				run[i] = applyActiveAnnotations(it, active)
			}
			items = append(items, run...)
			offset += o.Length
		case RetainMetadataOp:
			metaCells = append(metaCells, doc.GetMetadata(document.NewRange(metaOffset, metaOffset+o.Length-1))...)
			metaOffset += o.Length
		case ReplaceOp:
			items = append(items, o.Insert...)
			offset += len(o.Remove)
		case ReplaceMetadataOp:
			metaCells = append(metaCells, o.Insert)
			metaOffset++
		case AttributeOp:
			// The change belongs to the element marker at the cursor, which
			// the next retain copies.
			pendingAttrs = append(pendingAttrs, o)
		case AnnotateOp:
			if o.Bias == AnnotateStart {
				active = append(active, o)
			} else {
				active = removeAnnotateOp(active, o)
			}
		}
	}

	out := document.NewWithStore(items, doc.Factory(), doc.Store())
	for i, cell := range metaCells {
		if i < out.Meta().Len() {
			out.Meta().SetData(i, cell)
		}
	}
	t.MarkAsApplied()
	return out
}

func applyActiveAnnotations(it document.Item, active []AnnotateOp) document.Item {
	if !it.IsChar() || len(active) == 0 {
		return it
	}
	ann := it.Annotations()
	for _, o := range active {
		switch o.Method {
		case AnnotateSet:
			ann = ann.With(o.Index)
		case AnnotateClear:
			ann = ann.Without(o.Index)
		}
	}
	return it.WithAnnotations(ann)
}

func removeAnnotateOp(active []AnnotateOp, stop AnnotateOp) []AnnotateOp {
	out := active[:0:0]
	for _, o := range active {
		if o.Method == stop.Method && o.Index == stop.Index {
			continue
		}
		out = append(out, o)
	}
	return out
}
