package history

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/coreseekdev/texere-dm/pkg/document"
	"github.com/coreseekdev/texere-dm/pkg/transaction"
)

func insertTx(ch string) *transaction.Transaction {
	return transaction.New([]transaction.Op{
		transaction.ReplaceOp{Insert: []document.Item{document.NewCharItem(ch, document.AnnotationSet{})}},
	})
}

// TestHistory_NewIsAtRoot checks a fresh history starts at the root with
// nothing to undo or redo.
func TestHistory_NewIsAtRoot(t *testing.T) {
	h := New(0)
	assert.True(t, h.AtRoot())
	assert.True(t, h.AtTip())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Nil(t, h.CurrentRevision())
	assert.Equal(t, 0, h.RevisionCount())
}

// TestHistory_CommitRevision_SkipsNoOp checks a pure-retain transaction is
// not recorded.
func TestHistory_CommitRevision_SkipsNoOp(t *testing.T) {
	h := New(0)
	h.CommitRevision(transaction.New([]transaction.Op{transaction.RetainOp{Length: 3}}))
	assert.Equal(t, 0, h.RevisionCount())
	assert.True(t, h.AtRoot())
}

// TestHistory_CommitRevision_AdvancesCursor checks committing moves the
// cursor to the new revision and makes it current.
func TestHistory_CommitRevision_AdvancesCursor(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))

	assert.False(t, h.AtRoot())
	assert.True(t, h.AtTip())
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, 1, h.RevisionCount())
	assert.NotNil(t, h.CurrentRevision())
}

// TestHistory_UndoRedo_RoundTrips checks undo then redo returns to the tip
// and hands back the matching transactions.
func TestHistory_UndoRedo_RoundTrips(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	h.CommitRevision(insertTx("b"))
	assert.Equal(t, 2, h.RevisionCount())

	inv := h.Undo()
	assert.NotNil(t, inv)
	assert.True(t, h.CanRedo())

	fwd := h.Redo()
	assert.NotNil(t, fwd)
	assert.True(t, h.AtTip())
	assert.False(t, h.CanRedo())
}

// TestHistory_Undo_ToRoot checks undoing every revision returns to the root
// and further undo is a no-op.
func TestHistory_Undo_ToRoot(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))

	assert.NotNil(t, h.Undo())
	assert.True(t, h.AtRoot())
	assert.Nil(t, h.Undo())
}

// TestHistory_Redo_AtTipReturnsNil checks redoing with nothing ahead is a
// no-op.
func TestHistory_Redo_AtTipReturnsNil(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	assert.Nil(t, h.Redo())
}

// TestHistory_NewEditAbandonsRedoBranch checks undoing then committing a
// different edit replaces the old redo branch rather than erasing history.
func TestHistory_NewEditAbandonsRedoBranch(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	h.CommitRevision(insertTx("b"))
	h.Undo()

	h.CommitRevision(insertTx("c"))
	assert.Equal(t, 3, h.RevisionCount())
	assert.True(t, h.AtTip())
	assert.False(t, h.CanRedo())

	path := h.GetPath()
	assert.Len(t, path, 2)
}

// TestHistory_GetPath_FollowsLineage checks the path from root to cursor
// lists revisions oldest first.
func TestHistory_GetPath_FollowsLineage(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	h.CommitRevision(insertTx("b"))
	h.CommitRevision(insertTx("c"))

	path := h.GetPath()
	assert.Equal(t, []int{0, 1, 2}, path)
}

// TestHistory_Lamport_IncreasesMonotonically checks each committed revision
// gets a strictly greater logical timestamp than the last.
func TestHistory_Lamport_IncreasesMonotonically(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	h.CommitRevision(insertTx("b"))

	first := h.revisions[0].Lamport()
	second := h.revisions[1].Lamport()
	assert.Less(t, first, second)
}

// TestHistory_SetMaxSize_Prunes checks shrinking maxSize drops the oldest
// revisions and reindexes the cursor and path.
func TestHistory_SetMaxSize_Prunes(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	h.CommitRevision(insertTx("b"))
	h.CommitRevision(insertTx("c"))

	h.SetMaxSize(2)
	assert.Equal(t, 2, h.RevisionCount())
	assert.True(t, h.AtTip())
	assert.Len(t, h.GetPath(), 2)
}

// TestHistory_FindByID_LocatesCommittedRevision checks a revision can be
// looked up by its stable ID regardless of its slice position.
func TestHistory_FindByID_LocatesCommittedRevision(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	h.CommitRevision(insertTx("b"))

	want := h.CurrentRevision()
	got := h.FindByID(want.ID())
	assert.Same(t, want, got)

	assert.Nil(t, h.FindByID(uuid.New()))
}

// TestHistory_Clear_ResetsToRoot checks Clear discards every revision.
func TestHistory_Clear_ResetsToRoot(t *testing.T) {
	h := New(0)
	h.CommitRevision(insertTx("a"))
	h.CommitRevision(insertTx("b"))

	h.Clear()
	assert.True(t, h.AtRoot())
	assert.Equal(t, 0, h.RevisionCount())
}
