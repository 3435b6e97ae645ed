package transaction

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/coreseekdev/texere-dm/pkg/document"
)

// NewFromTextDiff builds a Transaction that replaces the plain-text content
// of r with newText, computing the edit with Google's diff-match-patch
// algorithm rather than replacing the whole range outright. A paste that
// changes a handful of words deep inside a long paragraph then turns into a
// handful of small replace ops instead of one that removes and reinserts
// everything, which keeps downstream annotation and rebase bookkeeping
// local to what actually changed.
//
// Diff boundaries are assumed to fall on grapheme-cluster boundaries; text
// containing multi-codepoint clusters (combining marks, ZWJ emoji
// sequences) that the diff splits mid-cluster can misalign the resulting
// ops. Plain text edits are unaffected.
func NewFromTextDiff(doc *document.Document, r document.Range, newText string) (*Transaction, error) {
	n := r.Normalized()
	if n.Start < 0 || n.End > doc.Length() {
		return nil, ErrInvalidRange
	}

	oldText := plainTextOf(doc, n)
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)

	b := NewBuilder(doc)
	if n.Start > 0 {
		if err := b.PushRetain(n.Start); err != nil {
			return nil, err
		}
	}

	store := doc.Store()
	empty := document.NewAnnotationSet(store)
	offset := n.Start
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			length := len(document.SplitGraphemes(d.Text))
			if length == 0 {
				continue
			}
			if err := b.PushRetain(length); err != nil {
				return nil, err
			}
			offset += length
		case diffmatchpatch.DiffDelete:
			length := len(document.SplitGraphemes(d.Text))
			remove := doc.GetData(document.NewRange(offset, offset+length))
			if err := b.PushReplace(remove, nil); err != nil {
				return nil, err
			}
			offset += length
		case diffmatchpatch.DiffInsert:
			graphemes := document.SplitGraphemes(d.Text)
			insert := make([]document.Item, 0, len(graphemes))
			for _, g := range graphemes {
				insert = append(insert, document.NewCharItem(g, empty))
			}
			if err := b.PushReplace(nil, insert); err != nil {
				return nil, err
			}
		}
	}
	b.PushFinalRetain()
	return b.Build(), nil
}

func plainTextOf(doc *document.Document, r document.Range) string {
	var s string
	for _, it := range doc.GetData(r) {
		if it.IsChar() {
			s += it.Text()
		}
	}
	return s
}
