// Package history provides an undo/redo manager for transactions built
// against a document: a tree of revisions (not just a stack) so that
// undoing, editing, and redoing never loses the abandoned branch, each
// revision tagged with a Lamport timestamp for cross-session ordering.
package history

import (
	"sync"

	"github.com/google/uuid"

	"github.com/coreseekdev/texere-dm/pkg/transaction"
)

// LamportTime is a logical clock value: a total order over local events
// that needs no synchronized wall clock.
type LamportTime int64

// Revision is a single committed edit in the history tree.
type Revision struct {
	id        uuid.UUID
	parent    int
	lastChild int
	forward   *transaction.Transaction
	inverse   *transaction.Transaction
	lamport   LamportTime
}

// ID returns the revision's identifier, stable across processes so a
// revision committed locally can be referenced by a remote peer without
// ambiguity (unlike the slice index, which shifts under pruning).
func (r *Revision) ID() uuid.UUID { return r.id }

// Forward returns the transaction that moves to this revision (redo).
func (r *Revision) Forward() *transaction.Transaction { return r.forward }

// Inverse returns the transaction that undoes this revision.
func (r *Revision) Inverse() *transaction.Transaction { return r.inverse }

// Lamport returns this revision's logical timestamp.
func (r *Revision) Lamport() LamportTime { return r.lamport }

// History manages a branching tree of revisions with a single "current"
// cursor, the way a document's undo stack works in practice: undoing then
// making a new edit abandons the old redo branch rather than erasing it,
// so GetPath always reflects the true lineage of the current state.
type History struct {
	mu        sync.RWMutex
	revisions []*Revision
	current   int // -1 is the root, before any revision
	maxSize   int
	lamport   LamportTime
}

// New creates an empty history. A maxSize of 0 means unlimited.
func New(maxSize int) *History {
	return &History{current: -1, maxSize: maxSize}
}

// SetMaxSize changes the retention limit, pruning immediately if needed.
func (h *History) SetMaxSize(size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxSize = size
	h.prune()
}

// CommitRevision records t (already applied to the document) as a new
// revision, a child of the current one, storing t.Reversed() as its
// inverse. A no-op transaction is not recorded.
func (h *History) CommitRevision(t *transaction.Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t == nil || t.IsNoOp() {
		return
	}
	h.lamport++
	rev := &Revision{
		id:        uuid.New(),
		parent:    h.current,
		lastChild: -1,
		forward:   t,
		inverse:   t.Reversed(),
		lamport:   h.lamport,
	}
	h.revisions = append(h.revisions, rev)
	newIndex := len(h.revisions) - 1
	if h.current >= 0 {
		h.revisions[h.current].lastChild = newIndex
	}
	h.current = newIndex
	h.prune()
}

// CanUndo reports whether there is a revision to undo.
func (h *History) CanUndo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current >= 0
}

// CanRedo reports whether there is a revision to redo to.
func (h *History) CanRedo() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == -1 {
		return len(h.revisions) > 0
	}
	return h.revisions[h.current].lastChild >= 0
}

// Undo moves the cursor back one revision and returns the transaction that
// undoes it, or nil if already at the root.
func (h *History) Undo() *transaction.Transaction {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current < 0 {
		return nil
	}
	rev := h.revisions[h.current]
	h.current = rev.parent
	return rev.inverse
}

// Redo moves the cursor forward to the current revision's last child (at
// the root, the newest revision committed from the root) and returns the
// transaction that reaches it, or nil if already at the tip of this branch.
func (h *History) Redo() *transaction.Transaction {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == -1 {
		for i := len(h.revisions) - 1; i >= 0; i-- {
			if h.revisions[i].parent < 0 {
				h.current = i
				return h.revisions[i].forward
			}
		}
		return nil
	}
	next := h.revisions[h.current].lastChild
	if next < 0 {
		return nil
	}
	h.current = next
	return h.revisions[next].forward
}

// CurrentRevision returns the revision at the cursor, or nil at the root.
func (h *History) CurrentRevision() *Revision {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current < 0 {
		return nil
	}
	return h.revisions[h.current]
}

// AtRoot reports whether the cursor is at the root (nothing to undo).
func (h *History) AtRoot() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current < 0
}

// AtTip reports whether the cursor's revision has no children (nothing to
// redo on this branch).
func (h *History) AtTip() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == -1 {
		return len(h.revisions) == 0
	}
	return h.revisions[h.current].lastChild < 0
}

// GetPath returns the chain of revision indices from the root to the
// cursor, oldest first.
func (h *History) GetPath() []int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current < 0 {
		return nil
	}
	var path []int
	for cur := h.current; cur >= 0; cur = h.revisions[cur].parent {
		path = append([]int{cur}, path...)
	}
	return path
}

// FindByID returns the revision with the given ID, or nil if pruned or
// never committed.
func (h *History) FindByID(id uuid.UUID) *Revision {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, rev := range h.revisions {
		if rev.id == id {
			return rev
		}
	}
	return nil
}

// RevisionCount returns the total number of recorded revisions.
func (h *History) RevisionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.revisions)
}

// Clear discards every revision and resets the cursor to the root.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.revisions = nil
	h.current = -1
}

// prune drops the oldest revisions once the tree exceeds maxSize,
// reindexing parent/lastChild pointers and the cursor to match. Branches
// rooted below the new floor are lost along with their ancestors; this
// bounds memory at the cost of undo depth on a long session.
func (h *History) prune() {
	if h.maxSize <= 0 || len(h.revisions) <= h.maxSize {
		return
	}
	drop := len(h.revisions) - h.maxSize
	h.revisions = h.revisions[drop:]
	for _, rev := range h.revisions {
		if rev.parent >= 0 {
			rev.parent -= drop
		}
		if rev.lastChild >= 0 {
			rev.lastChild -= drop
		}
	}
	h.current -= drop
	if h.current < -1 {
		h.current = -1
	}
}
