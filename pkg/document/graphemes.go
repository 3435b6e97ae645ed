package document

import "github.com/clipperhouse/uax29/graphemes"

// SplitGraphemes splits s into user-perceived characters (grapheme
// clusters), the unit that NewFromText and transaction.NewFromTextDiff use
// to turn plain text into character Items. A multi-byte emoji sequence or a
// base character plus combining marks becomes exactly one Item, never one
// Item per rune.
func SplitGraphemes(s string) []string {
	if s == "" {
		return nil
	}
	segments := graphemes.SegmentAllString(s)
	out := make([]string, len(segments))
	copy(out, segments)
	return out
}
