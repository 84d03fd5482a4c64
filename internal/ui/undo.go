package ui

import (
	"bistro/internal/editor"
	"bistro/internal/model"
)

// undoAction reverts or replays one destructive form edit against the current
// draft, leaving unrelated edits made since then alone.
type undoAction struct {
	label string
	undo  func(*editor.Editor)
	redo  func(*editor.Editor)
}

type undoHistory struct {
	undoStack []undoAction
	redoStack []undoAction
}

func (h *undoHistory) push(action undoAction) {
	h.undoStack = append(h.undoStack, action)
	h.redoStack = nil
}

func (h *undoHistory) undo() (undoAction, bool) {
	if len(h.undoStack) == 0 {
		return undoAction{}, false
	}
	action := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, action)
	return action, true
}

func (h *undoHistory) redo() (undoAction, bool) {
	if len(h.redoStack) == 0 {
		return undoAction{}, false
	}
	action := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, action)
	return action, true
}

func (h *undoHistory) clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func menuRemovedAction(menu model.Menu, index int) undoAction {
	return undoAction{
		label: "menu removed",
		undo:  func(e *editor.Editor) { e.InsertMenu(index, menu) },
		redo:  func(e *editor.Editor) { e.RemoveMenu(menu.ID) },
	}
}

func itemRemovedAction(menuID string, item model.MenuItem, index int) undoAction {
	return undoAction{
		label: "item removed",
		undo:  func(e *editor.Editor) { e.InsertMenuItem(menuID, index, item) },
		redo:  func(e *editor.Editor) { e.RemoveMenuItem(menuID, item.ID) },
	}
}

func linkRemovedAction(link model.Link, index int) undoAction {
	return undoAction{
		label: "link removed",
		undo:  func(e *editor.Editor) { e.InsertLink(index, link) },
		redo:  func(e *editor.Editor) { e.RemoveLink(link.ID) },
	}
}

func imageRemovedAction(img model.Image, index int) undoAction {
	return undoAction{
		label: "picture removed",
		undo:  func(e *editor.Editor) { e.InsertImage(index, img) },
		redo:  func(e *editor.Editor) { e.RemoveImage(img.ID) },
	}
}

// formClearedAction swaps whole drafts. Anything typed after the clear is
// replaced on undo.
func formClearedAction(before editor.Draft) undoAction {
	return undoAction{
		label: "form cleared",
		undo:  func(e *editor.Editor) { e.Restore(before) },
		redo:  func(e *editor.Editor) { e.Reset() },
	}
}
