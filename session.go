package yoloedit

// The editing state engine: per-image box collections, selection, undo/redo
// history and modification tracking for one open dataset.

import (
	"sort"
	"time"
)

// maxUndoDepth bounds each image's undo stack. Recording an action past the
// bound drops the oldest entry.
const maxUndoDepth = 50

// ActionType tags an undoable edit.
type ActionType int

// The undoable edit kinds.
const (
	ActionDelete ActionType = iota
	ActionRestore
)

// Action records one undoable edit. Boxes holds independent clones of the
// affected boxes, captured before the mutation was applied.
type Action struct {
	Type  ActionType
	Boxes []Box
	At    time.Time
}

// imageEditState is the per-image working state. originalBoxes is the
// snapshot as last loaded or saved and only ever contains live boxes.
type imageEditState struct {
	boxes         []Box
	originalBoxes []Box
	undoStack     []Action
	redoStack     []Action
}

// pushAction records a new action, dropping the oldest entry past the depth
// bound. Any redo history becomes unreachable and is discarded.
func (st *imageEditState) pushAction(a Action) {
	st.undoStack = append(st.undoStack, a)
	if len(st.undoStack) > maxUndoDepth {
		st.undoStack = st.undoStack[1:]
	}
	st.redoStack = nil
}

// setDeleted sets the Deleted flag on every box referenced by the action,
// matched by id. Other fields are left as they are, except that selection is
// always cleared on the touched boxes.
func (st *imageEditState) setDeleted(a Action, deleted bool) {
	ids := make(map[string]bool, len(a.Boxes))
	for _, b := range a.Boxes {
		ids[b.ID] = true
	}

	for i := range st.boxes {
		if ids[st.boxes[i].ID] {
			st.boxes[i].Deleted = deleted
			st.boxes[i].Selected = false
		}
	}
}

// EditSession is the single source of truth for in-memory edits to one open
// dataset. One image is current at a time; every mutating operation acts on
// the current image. The session assumes single-threaded cooperative use and
// holds no locks. Callers only ever receive clones of session-owned boxes.
type EditSession struct {
	currentIndex int
	images       map[int]*imageEditState
	modified     map[int]struct{}
}

// NewEditSession returns an empty session with no current image.
func NewEditSession() *EditSession {
	return &EditSession{
		currentIndex: -1,
		images:       make(map[int]*imageEditState),
		modified:     make(map[int]struct{}),
	}
}

// current returns the state of the current image, or nil if none exists yet.
func (s *EditSession) current() *imageEditState {
	return s.images[s.currentIndex]
}

// InitImageState stores the starting box collection for an image and makes
// the image current. When state already exists for the index it is left
// untouched, so revisiting an image preserves its in-progress edits and undo
// history.
func (s *EditSession) InitImageState(index int, boxes []Box) {
	if _, ok := s.images[index]; !ok {
		s.images[index] = &imageEditState{
			boxes:         CloneBoxes(boxes),
			originalBoxes: CloneBoxes(boxes),
		}
	}
	s.currentIndex = index
}

// HasImageState reports whether state exists for the given image.
func (s *EditSession) HasImageState(index int) bool {
	_, ok := s.images[index]
	return ok
}

// SetCurrentIndex repoints the current image without touching stored state.
// Batch flows use it to operate on a non-current image and then restore the
// previous index.
func (s *EditSession) SetCurrentIndex(index int) {
	s.currentIndex = index
}

// CurrentIndex returns the index of the current image, or -1 before the first
// InitImageState.
func (s *EditSession) CurrentIndex() int {
	return s.currentIndex
}

// CurrentBoxes returns a clone of the current image's working collection,
// including deleted boxes. Returns nil when no state exists.
func (s *EditSession) CurrentBoxes() []Box {
	st := s.current()
	if st == nil {
		return nil
	}
	return CloneBoxes(st.boxes)
}

// SetCurrentBoxes replaces the current image's working collection with a
// clone of boxes. No-op when no state exists.
func (s *EditSession) SetCurrentBoxes(boxes []Box) {
	st := s.current()
	if st == nil {
		return
	}
	st.boxes = CloneBoxes(boxes)
}

// DeleteSelected tombstones every selected live box in the current image and
// records the edit for undo. Returns the number of boxes deleted; zero
// matches record no history entry.
func (s *EditSession) DeleteSelected() int {
	st := s.current()
	if st == nil {
		return 0
	}

	var affected []Box
	for _, b := range st.boxes {
		if !b.Deleted && b.Selected {
			affected = append(affected, b)
		}
	}
	if len(affected) == 0 {
		return 0
	}

	a := Action{Type: ActionDelete, Boxes: affected, At: time.Now()}
	st.pushAction(a)
	st.setDeleted(a, true)
	s.modified[s.currentIndex] = struct{}{}

	return len(affected)
}

// RestoreDeleted clears the tombstone on deleted boxes in the current image,
// optionally limited to those that are also selected, and records the edit
// for undo. Returns the number of boxes restored.
func (s *EditSession) RestoreDeleted(onlySelected bool) int {
	st := s.current()
	if st == nil {
		return 0
	}

	var affected []Box
	for _, b := range st.boxes {
		if b.Deleted && (!onlySelected || b.Selected) {
			affected = append(affected, b)
		}
	}
	if len(affected) == 0 {
		return 0
	}

	a := Action{Type: ActionRestore, Boxes: affected, At: time.Now()}
	st.pushAction(a)
	st.setDeleted(a, false)
	s.modified[s.currentIndex] = struct{}{}

	return len(affected)
}

// Undo reverts the most recent edit to the current image and rederives its
// modified flag. Returns false when there is nothing to undo.
func (s *EditSession) Undo() bool {
	st := s.current()
	if st == nil || len(st.undoStack) == 0 {
		return false
	}

	last := len(st.undoStack) - 1
	a := st.undoStack[last]
	st.undoStack = st.undoStack[:last]

	// A delete is undone by reviving its boxes, a restore by re-deleting them.
	st.setDeleted(a, a.Type == ActionRestore)
	st.redoStack = append(st.redoStack, a)
	s.recomputeModified()

	return true
}

// Redo re-applies the most recently undone edit to the current image and
// rederives its modified flag. Returns false when there is nothing to redo.
func (s *EditSession) Redo() bool {
	st := s.current()
	if st == nil || len(st.redoStack) == 0 {
		return false
	}

	last := len(st.redoStack) - 1
	a := st.redoStack[last]
	st.redoStack = st.redoStack[:last]

	st.setDeleted(a, a.Type == ActionDelete)
	st.undoStack = append(st.undoStack, a)
	s.recomputeModified()

	return true
}

// recomputeModified rederives the current image's modified flag by comparing
// the working collection's deletion state against the original snapshot,
// matched by id. A box missing from the snapshot, or with a differing Deleted
// flag, counts as a difference. Only undo and redo rederive the flag;
// DeleteSelected and RestoreDeleted mark the image modified unconditionally.
func (s *EditSession) recomputeModified() {
	st := s.current()
	if st == nil {
		return
	}

	original := make(map[string]bool, len(st.originalBoxes))
	for _, b := range st.originalBoxes {
		original[b.ID] = b.Deleted
	}

	changed := false
	for _, b := range st.boxes {
		if deleted, ok := original[b.ID]; !ok || deleted != b.Deleted {
			changed = true
			break
		}
	}

	if changed {
		s.modified[s.currentIndex] = struct{}{}
	} else {
		delete(s.modified, s.currentIndex)
	}
}

// SelectAll selects every live box in the current image and returns the
// number of boxes selected.
func (s *EditSession) SelectAll() int {
	st := s.current()
	if st == nil {
		return 0
	}

	count := 0
	for i := range st.boxes {
		if !st.boxes[i].Deleted {
			st.boxes[i].Selected = true
			count++
		}
	}
	return count
}

// ClearSelection deselects every box in the current image, including deleted
// ones.
func (s *EditSession) ClearSelection() {
	st := s.current()
	if st == nil {
		return
	}
	for i := range st.boxes {
		st.boxes[i].Selected = false
	}
}

// ToggleBoxSelection flips the selection of one live box. Unknown and deleted
// ids are ignored. Returns whether a box was toggled.
func (s *EditSession) ToggleBoxSelection(id string) bool {
	st := s.current()
	if st == nil {
		return false
	}
	for i := range st.boxes {
		if st.boxes[i].ID == id && !st.boxes[i].Deleted {
			st.boxes[i].Selected = !st.boxes[i].Selected
			return true
		}
	}
	return false
}

// SelectBox makes the given box the only selected one. Unknown and deleted
// ids leave the selection untouched. Returns whether the box was found.
func (s *EditSession) SelectBox(id string) bool {
	st := s.current()
	if st == nil {
		return false
	}

	found := false
	for i := range st.boxes {
		if st.boxes[i].ID == id && !st.boxes[i].Deleted {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	for i := range st.boxes {
		st.boxes[i].Selected = st.boxes[i].ID == id && !st.boxes[i].Deleted
	}
	return true
}

// SelectedCount returns the number of selected live boxes in the current
// image.
func (s *EditSession) SelectedCount() int {
	st := s.current()
	if st == nil {
		return 0
	}
	count := 0
	for _, b := range st.boxes {
		if !b.Deleted && b.Selected {
			count++
		}
	}
	return count
}

// LiveCount returns the number of non-deleted boxes in the current image.
func (s *EditSession) LiveCount() int {
	st := s.current()
	if st == nil {
		return 0
	}
	count := 0
	for _, b := range st.boxes {
		if !b.Deleted {
			count++
		}
	}
	return count
}

// DeletedCount returns the number of tombstoned boxes in the current image.
func (s *EditSession) DeletedCount() int {
	st := s.current()
	if st == nil {
		return 0
	}
	count := 0
	for _, b := range st.boxes {
		if b.Deleted {
			count++
		}
	}
	return count
}

// BoxesForSave returns clones of the current image's live boxes, in order,
// for hand-off to serialization. The session state is not changed.
func (s *EditSession) BoxesForSave() []Box {
	st := s.current()
	if st == nil {
		return nil
	}
	return LiveBoxes(st.boxes)
}

// MarkSaved commits the current working collection as the new saved baseline:
// deleted boxes are dropped, the undo and redo history is cleared and the
// image leaves the modified set.
func (s *EditSession) MarkSaved() {
	st := s.current()
	if st == nil {
		return
	}

	live := LiveBoxes(st.boxes)
	st.boxes = CloneBoxes(live)
	st.originalBoxes = CloneBoxes(live)
	st.undoStack = nil
	st.redoStack = nil
	delete(s.modified, s.currentIndex)
}

// MarkSavedAt runs MarkSaved for the given image while leaving the current
// image pointer where it was, for batch save flows that must not disturb the
// open image.
func (s *EditSession) MarkSavedAt(index int) {
	prev := s.currentIndex
	s.currentIndex = index
	s.MarkSaved()
	s.currentIndex = prev
}

// IsModified reports whether the given image has unsaved edits.
func (s *EditSession) IsModified(index int) bool {
	_, ok := s.modified[index]
	return ok
}

// HasUnsavedChanges reports whether any image has unsaved edits.
func (s *EditSession) HasUnsavedChanges() bool {
	return len(s.modified) > 0
}

// ModifiedIndexes returns the indexes of all images with unsaved edits, in
// ascending order.
func (s *EditSession) ModifiedIndexes() []int {
	indexes := make([]int, 0, len(s.modified))
	for i := range s.modified {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// ClearImageState drops one image's state and modified flag.
func (s *EditSession) ClearImageState(index int) {
	delete(s.images, index)
	delete(s.modified, index)
}

// ClearAll resets the session to its initial empty state.
func (s *EditSession) ClearAll() {
	s.currentIndex = -1
	s.images = make(map[int]*imageEditState)
	s.modified = make(map[int]struct{})
}
