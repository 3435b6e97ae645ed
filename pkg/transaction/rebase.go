package transaction

// activeRange describes the portion of a Transaction's target offsets that
// it actually changes, and how much the document's length shifts across
// that span: the two numbers rebaseTransactions needs to decide whether two
// transactions can be reordered.
type activeRange struct {
	start, end int
	lengthDiff int
}

// getActiveRangeAndLengthDiff walks t's operations and returns the span of
// offsets (in the document t was built against) covered by its first
// through last non-retain operation, together with the net change in
// document length that span produces. A pure-retain (no-op) transaction
// reports a zero-length range at offset 0.
func getActiveRangeAndLengthDiff(t *Transaction) activeRange {
	offset := 0
	start, end := 0, 0
	found := false
	lengthDiff := 0
	for _, op := range t.Operations {
		switch o := op.(type) {
		case RetainOp:
			offset += o.Length
		case RetainMetadataOp:
			// metadata retains change nothing
		case ReplaceOp:
			if !found {
				start = offset
				found = true
			}
			offset += len(o.Remove)
			end = offset
			lengthDiff += len(o.Insert) - len(o.Remove)
		default:
			// attribute/annotate/replaceMetadata ops don't move the data
			// cursor or change its length, but they do mark an active span;
			// attribute and replaceMetadata change the item at the cursor, so
			// their span ends one past it.
			if !found {
				start = offset
				found = true
			}
			mark := offset
			if op.Type() == OpAttribute || op.Type() == OpReplaceMetadata {
				mark = offset + 1
			}
			if mark > end {
				end = mark
			}
		}
	}
	if !found {
		return activeRange{start: 0, end: 0}
	}
	return activeRange{start: start, end: end, lengthDiff: lengthDiff}
}

// RebaseResult is what rebaseTransactions returns: the two transactions,
// each adjusted to apply cleanly after the other has already been applied
// to their shared base document. Both fields are nil when the two
// transactions' active ranges overlap, a conflict the caller must resolve
// some other way (e.g. by asking a user, or by re-deriving one transaction
// against the document state after the other was applied).
type RebaseResult struct {
	A, B *Transaction
}

// RebaseTransactions reconciles a and b, two transactions independently
// built against the same base document, so that applying a then b.A (the
// rebased b) produces the same document as applying b then a.B. startmost
// breaks a tie when a and b's active ranges merely touch (one ends exactly
// where the other begins): true keeps a's edit logically first.
func RebaseTransactions(a, b *Transaction, startmost bool) RebaseResult {
	ra := getActiveRangeAndLengthDiff(a)
	rb := getActiveRangeAndLengthDiff(b)

	if rangesOverlap(ra, rb, startmost) {
		return RebaseResult{}
	}

	var aPrime, bPrime *Transaction
	if ra.start <= rb.start {
		aPrime = a
		bPrime = adjustRetain(b, ra.start, ra.end, ra.lengthDiff)
	} else {
		bPrime = b
		aPrime = adjustRetain(a, rb.start, rb.end, rb.lengthDiff)
	}
	return RebaseResult{A: aPrime, B: bPrime}
}

// rangesOverlap reports whether ra and rb's active spans overlap closely
// enough that the two transactions cannot be safely reordered. Two
// zero-length (pure insertion) ranges at the same offset are the one case
// where startmost decides instead of treating it as a conflict.
func rangesOverlap(ra, rb activeRange, startmost bool) bool {
	if ra.end <= rb.start || rb.end <= ra.start {
		return false
	}
	if ra.start == ra.end && rb.start == rb.end && ra.start == rb.start {
		return false
	}
	_ = startmost
	return true
}

// adjustRetain shifts every operation of t that lives at or after
// rangeEnd by lengthDiff offsets, since some other transaction already
// inserted/removed lengthDiff offsets in [rangeStart, rangeEnd) ahead of it.
// t's own active range is assumed to start at or after rangeEnd (the
// non-overlap already established by the caller).
func adjustRetain(t *Transaction, rangeStart, rangeEnd, lengthDiff int) *Transaction {
	if lengthDiff == 0 {
		return t.Clone()
	}
	ops := make([]Op, 0, len(t.Operations)+1)
	offset := 0
	inserted := false
	for _, op := range t.Operations {
		switch o := op.(type) {
		case RetainOp:
			if !inserted && offset+o.Length > rangeEnd {
				before := rangeEnd - offset
				if before > 0 {
					ops = append(ops, RetainOp{Length: before})
				}
				ops = append(ops, RetainOp{Length: o.Length - before + lengthDiff})
				inserted = true
			} else {
				ops = append(ops, o)
			}
			offset += o.Length
		case ReplaceOp:
			ops = append(ops, o)
			offset += len(o.Remove)
		default:
			ops = append(ops, op)
		}
	}
	return &Transaction{Operations: ops}
}
