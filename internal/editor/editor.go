package editor

import (
	"fmt"
	"time"

	"bistro/internal/model"
)

// CommitFunc receives a finished record. A non-nil error aborts the submit and
// leaves the draft in place.
type CommitFunc func(model.Restaurant) error

// Editor owns the current draft and the generation counter that guards
// asynchronous image loads.
//
// Editor is not safe for concurrent use; it is driven from the UI event loop.
type Editor struct {
	draft      Draft
	generation int
	pending    int
	commit     CommitFunc
	now        func() time.Time
}

// New creates an editor with an empty draft.
func New(commit CommitFunc) *Editor {
	return &Editor{
		commit: commit,
		now:    time.Now,
	}
}

// Draft returns the current draft value.
func (e *Editor) Draft() Draft { return e.draft }

// Generation identifies the current draft lifetime. It changes on every
// successful submit and on Reset.
func (e *Editor) Generation() int { return e.generation }

// Pending returns the number of image loads still outstanding for the current
// generation.
func (e *Editor) Pending() int { return e.pending }

func (e *Editor) SetName(name string) { e.draft = e.draft.WithName(name) }

func (e *Editor) AddMenu() string {
	var id string
	e.draft, id = e.draft.WithMenu()
	return id
}

// RemoveMenu drops a menu and returns it with its former index, or -1 when no
// such menu exists.
func (e *Editor) RemoveMenu(menuID string) (model.Menu, int) {
	i := menuIndex(e.draft.Menus, menuID)
	if i < 0 {
		return model.Menu{}, -1
	}
	menu := e.draft.Menus[i]
	e.draft = e.draft.WithoutMenu(menuID)
	return menu, i
}

// InsertMenu puts a previously removed menu back at index i.
func (e *Editor) InsertMenu(i int, menu model.Menu) { e.draft = e.draft.WithMenuAt(i, menu) }

func (e *Editor) RenameMenu(menuID, name string) { e.draft = e.draft.WithMenuName(menuID, name) }

func (e *Editor) AddMenuItem(menuID string) string {
	var id string
	e.draft, id = e.draft.WithMenuItem(menuID)
	return id
}

func (e *Editor) RemoveMenuItem(menuID, itemID string) (model.MenuItem, int) {
	menu, ok := e.draft.Menu(menuID)
	if !ok {
		return model.MenuItem{}, -1
	}
	i := itemIndex(menu.Items, itemID)
	if i < 0 {
		return model.MenuItem{}, -1
	}
	item := menu.Items[i]
	e.draft = e.draft.WithoutMenuItem(menuID, itemID)
	return item, i
}

// InsertMenuItem is a no-op when the menu is gone.
func (e *Editor) InsertMenuItem(menuID string, i int, item model.MenuItem) {
	e.draft = e.draft.WithMenuItemAt(menuID, i, item)
}

func (e *Editor) EditMenuItem(menuID, itemID string, field ItemField, text string) {
	e.draft = e.draft.WithMenuItemField(menuID, itemID, field, text)
}

func (e *Editor) AddLink() string {
	var id string
	e.draft, id = e.draft.WithLink()
	return id
}

func (e *Editor) RemoveLink(linkID string) (model.Link, int) {
	i := linkIndex(e.draft.Links, linkID)
	if i < 0 {
		return model.Link{}, -1
	}
	link := e.draft.Links[i]
	e.draft = e.draft.WithoutLink(linkID)
	return link, i
}

func (e *Editor) InsertLink(i int, link model.Link) { e.draft = e.draft.WithLinkAt(i, link) }

func (e *Editor) EditLink(linkID string, field LinkField, text string) {
	e.draft = e.draft.WithLinkField(linkID, field, text)
}

func (e *Editor) RemoveImage(imageID string) (model.Image, int) {
	i := imageIndex(e.draft.Images, imageID)
	if i < 0 {
		return model.Image{}, -1
	}
	img := e.draft.Images[i]
	e.draft = e.draft.WithoutImage(imageID)
	return img, i
}

func (e *Editor) InsertImage(i int, img model.Image) { e.draft = e.draft.WithImageAt(i, img) }

// BeginImages records n image loads about to start and returns the generation
// their completions must carry.
func (e *Editor) BeginImages(n int) int {
	if n > 0 {
		e.pending += n
	}
	return e.generation
}

// AcceptImage appends a loaded image if it belongs to the current generation.
// Completions from a submitted or reset draft are dropped and false is returned.
func (e *Editor) AcceptImage(generation int, img model.Image) bool {
	if generation != e.generation {
		return false
	}
	e.settle()
	e.draft = e.draft.WithImage(img)
	return true
}

// SkipImage settles a load that produced no image.
func (e *Editor) SkipImage(generation int) {
	if generation == e.generation {
		e.settle()
	}
}

// Submit validates the draft, hands a finished record to the commit callback
// and starts a fresh draft. On a validation or commit error nothing changes.
func (e *Editor) Submit() (model.Restaurant, error) {
	if e.draft.Name == "" {
		return model.Restaurant{}, ErrNameRequired
	}

	record := model.Restaurant{
		ID:        model.NewID(),
		Name:      e.draft.Name,
		Menus:     model.CloneMenus(e.draft.Menus),
		Links:     append([]model.Link{}, e.draft.Links...),
		Images:    append([]model.Image{}, e.draft.Images...),
		CreatedAt: e.now().UTC(),
	}

	if e.commit != nil {
		if err := e.commit(record.Clone()); err != nil {
			return model.Restaurant{}, fmt.Errorf("commit restaurant: %w", err)
		}
	}

	e.Reset()
	return record, nil
}

// Reset discards the draft. Image loads still in flight for the old draft
// will be ignored when they complete.
func (e *Editor) Reset() {
	e.draft = Draft{}
	e.generation++
	e.pending = 0
}

// Restore replaces the draft with d, typically an earlier value kept for undo.
// The generation is unchanged.
func (e *Editor) Restore(d Draft) {
	e.draft = d
}

func (e *Editor) settle() {
	if e.pending > 0 {
		e.pending--
	}
}
