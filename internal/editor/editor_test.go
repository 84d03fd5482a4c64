package editor

import (
	"errors"
	"math/rand"
	"testing"

	"bistro/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCozyBistro(t *testing.T) {
	var committed []model.Restaurant
	e := New(func(r model.Restaurant) error {
		committed = append(committed, r)
		return nil
	})

	e.SetName("Cozy Bistro")
	menuID := e.AddMenu()
	itemID := e.AddMenuItem(menuID)
	require.NotEmpty(t, itemID)
	e.EditMenuItem(menuID, itemID, ItemName, "Soup")
	e.EditMenuItem(menuID, itemID, ItemPrice, "8.50")

	rec, err := e.Submit()
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Cozy Bistro", rec.Name)
	require.Len(t, rec.Menus, 1)
	assert.Equal(t, "", rec.Menus[0].Name)
	require.Len(t, rec.Menus[0].Items, 1)
	assert.Equal(t, "Soup", rec.Menus[0].Items[0].Name)
	assert.Equal(t, "8.50", rec.Menus[0].Items[0].Price)
	assert.Empty(t, rec.Links)
	assert.Empty(t, rec.Images)

	require.Len(t, committed, 1)
	assert.Equal(t, rec.ID, committed[0].ID)
	assert.True(t, e.Draft().IsEmpty())
	assert.Equal(t, Draft{}, e.Draft())
}

func TestSubmitEmptyNameLeavesDraft(t *testing.T) {
	calls := 0
	e := New(func(model.Restaurant) error {
		calls++
		return nil
	})
	menuID := e.AddMenu()
	e.RenameMenu(menuID, "Brunch")
	linkID := e.AddLink()

	before := e.Draft()
	gen := e.Generation()

	_, err := e.Submit()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.True(t, errors.Is(err, ErrNameRequired))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Field)

	assert.Equal(t, before, e.Draft())
	assert.Equal(t, gen, e.Generation())
	assert.Equal(t, 0, calls)
	assert.Equal(t, linkID, e.Draft().Links[0].ID)
}

func TestSubmitCommitErrorKeepsDraft(t *testing.T) {
	boom := errors.New("boom")
	e := New(func(model.Restaurant) error { return boom })
	e.SetName("Noodle Bar")

	_, err := e.Submit()
	require.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))
	assert.Equal(t, "Noodle Bar", e.Draft().Name)
}

func TestSubmitIssuesFreshIDs(t *testing.T) {
	e := New(nil)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		e.SetName("R")
		menuID := e.AddMenu()
		seen[menuID] = true
		rec, err := e.Submit()
		require.NoError(t, err)
		require.False(t, seen[rec.ID], "id reused: %s", rec.ID)
		seen[rec.ID] = true
	}
}

func TestMalformedURLAccepted(t *testing.T) {
	e := New(nil)
	e.SetName("Diner")
	id := e.AddLink()
	e.EditLink(id, LinkURL, "not a url")

	rec, err := e.Submit()
	require.NoError(t, err)
	require.Len(t, rec.Links, 1)
	assert.Equal(t, "not a url", rec.Links[0].URL)
	assert.Equal(t, "", rec.Links[0].Title)
}

func TestSubmitWhitespaceNameIsAccepted(t *testing.T) {
	var committed []model.Restaurant
	e := New(func(r model.Restaurant) error {
		committed = append(committed, r)
		return nil
	})
	e.SetName("   ")

	rec, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, "   ", rec.Name)
	require.Len(t, committed, 1)
	assert.True(t, e.Draft().IsEmpty())
}

func TestAddRemoveMenusRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := New(nil)
	var live []string
	names := map[string]string{}

	for step := 0; step < 300; step++ {
		switch {
		case len(live) == 0 || rng.Intn(3) > 0:
			id := e.AddMenu()
			name := model.NewID()[:6]
			e.RenameMenu(id, name)
			live = append(live, id)
			names[id] = name
		default:
			i := rng.Intn(len(live))
			e.RemoveMenu(live[i])
			delete(names, live[i])
			live = append(live[:i], live[i+1:]...)
		}
		// removing an unknown id is a no-op
		e.RemoveMenu("missing")
	}

	menus := e.Draft().Menus
	require.Len(t, menus, len(live))
	for i, m := range menus {
		assert.Equal(t, live[i], m.ID)
		assert.Equal(t, names[m.ID], m.Name)
		assert.Empty(t, m.Items)
	}
}

func TestRemoveMenuDropsItems(t *testing.T) {
	e := New(nil)
	keep := e.AddMenu()
	drop := e.AddMenu()
	e.AddMenuItem(keep)
	dropped := e.AddMenuItem(drop)
	e.AddMenuItem(drop)

	e.RemoveMenu(drop)

	d := e.Draft()
	require.Len(t, d.Menus, 1)
	assert.Equal(t, keep, d.Menus[0].ID)
	for _, m := range d.Menus {
		for _, it := range m.Items {
			assert.NotEqual(t, dropped, it.ID)
		}
	}

	// operations against the removed menu are no-ops
	assert.Empty(t, e.AddMenuItem(drop))
	e.EditMenuItem(drop, dropped, ItemName, "ghost")
	assert.Equal(t, d, e.Draft())
}

func TestEditOperations(t *testing.T) {
	tests := []struct {
		name  string
		apply func(e *Editor, menuID, itemID, linkID string)
		check func(t *testing.T, d Draft)
	}{
		{
			name:  "rename menu",
			apply: func(e *Editor, menuID, _, _ string) { e.RenameMenu(menuID, "Dinner") },
			check: func(t *testing.T, d Draft) { assert.Equal(t, "Dinner", d.Menus[0].Name) },
		},
		{
			name:  "edit item name",
			apply: func(e *Editor, menuID, itemID, _ string) { e.EditMenuItem(menuID, itemID, ItemName, "Pho") },
			check: func(t *testing.T, d Draft) { assert.Equal(t, "Pho", d.Menus[0].Items[0].Name) },
		},
		{
			name:  "edit item price stored verbatim",
			apply: func(e *Editor, menuID, itemID, _ string) { e.EditMenuItem(menuID, itemID, ItemPrice, "12.") },
			check: func(t *testing.T, d Draft) { assert.Equal(t, "12.", d.Menus[0].Items[0].Price) },
		},
		{
			name:  "unknown item field ignored",
			apply: func(e *Editor, menuID, itemID, _ string) { e.EditMenuItem(menuID, itemID, ItemField(99), "x") },
			check: func(t *testing.T, d Draft) {
				assert.Equal(t, model.MenuItem{ID: d.Menus[0].Items[0].ID}, d.Menus[0].Items[0])
			},
		},
		{
			name:  "remove item",
			apply: func(e *Editor, menuID, itemID, _ string) { e.RemoveMenuItem(menuID, itemID) },
			check: func(t *testing.T, d Draft) { assert.Empty(t, d.Menus[0].Items) },
		},
		{
			name:  "edit link title",
			apply: func(e *Editor, _, _, linkID string) { e.EditLink(linkID, LinkTitle, "Website") },
			check: func(t *testing.T, d Draft) { assert.Equal(t, "Website", d.Links[0].Title) },
		},
		{
			name:  "remove link",
			apply: func(e *Editor, _, _, linkID string) { e.RemoveLink(linkID) },
			check: func(t *testing.T, d Draft) { assert.Empty(t, d.Links) },
		},
		{
			name:  "remove unknown link is no-op",
			apply: func(e *Editor, _, _, _ string) { e.RemoveLink("nope") },
			check: func(t *testing.T, d Draft) { assert.Len(t, d.Links, 1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(nil)
			menuID := e.AddMenu()
			itemID := e.AddMenuItem(menuID)
			linkID := e.AddLink()
			tt.apply(e, menuID, itemID, linkID)
			tt.check(t, e.Draft())
		})
	}
}

func TestOperationsDoNotMutatePreviousDraft(t *testing.T) {
	e := New(nil)
	e.SetName("A")
	menuID := e.AddMenu()
	itemID := e.AddMenuItem(menuID)
	e.EditMenuItem(menuID, itemID, ItemName, "Soup")
	linkID := e.AddLink()
	e.AcceptImage(e.BeginImages(1), model.Image{ID: "img1", Alt: "a.png"})

	snapshot := e.Draft()
	frozen := Draft{
		Name:   snapshot.Name,
		Menus:  model.CloneMenus(snapshot.Menus),
		Links:  append([]model.Link(nil), snapshot.Links...),
		Images: append([]model.Image(nil), snapshot.Images...),
	}

	e.SetName("B")
	e.RenameMenu(menuID, "Changed")
	e.EditMenuItem(menuID, itemID, ItemName, "Stew")
	e.AddMenuItem(menuID)
	e.EditLink(linkID, LinkURL, "x")
	e.RemoveImage("img1")
	e.RemoveMenu(menuID)

	assert.Equal(t, frozen, snapshot)
}

func TestImageGenerations(t *testing.T) {
	e := New(nil)
	gen := e.BeginImages(3)
	assert.Equal(t, 3, e.Pending())

	// completions land in arrival order
	assert.True(t, e.AcceptImage(gen, model.Image{ID: "b", Alt: "b.png"}))
	assert.True(t, e.AcceptImage(gen, model.Image{ID: "a", Alt: "a.png"}))
	assert.Equal(t, 1, e.Pending())

	d := e.Draft()
	require.Len(t, d.Images, 2)
	assert.Equal(t, "b", d.Images[0].ID)
	assert.Equal(t, "a", d.Images[1].ID)

	e.SetName("Bakery")
	_, err := e.Submit()
	require.NoError(t, err)
	assert.Equal(t, 0, e.Pending())

	// the third load finishes after submit and must not leak into the new draft
	assert.False(t, e.AcceptImage(gen, model.Image{ID: "c"}))
	assert.Empty(t, e.Draft().Images)

	e.RemoveImage("missing")
	assert.True(t, e.Draft().IsEmpty())
}

func TestResetDiscardsPendingImages(t *testing.T) {
	e := New(nil)
	e.SetName("Tapas")
	gen := e.BeginImages(2)
	e.Reset()

	assert.Equal(t, 0, e.Pending())
	assert.NotEqual(t, gen, e.Generation())
	assert.False(t, e.AcceptImage(gen, model.Image{ID: "late"}))
	e.SkipImage(gen)
	assert.Equal(t, Draft{}, e.Draft())

	cur := e.BeginImages(1)
	e.SkipImage(cur)
	assert.Equal(t, 0, e.Pending())
}

func TestRestoreKeepsGeneration(t *testing.T) {
	e := New(nil)
	e.SetName("Noodle Bar")
	menuID := e.AddMenu()
	before := e.Draft()
	gen := e.Generation()

	e.RemoveMenu(menuID)
	require.Empty(t, e.Draft().Menus)

	e.Restore(before)
	assert.Equal(t, gen, e.Generation())
	require.Len(t, e.Draft().Menus, 1)
	assert.Equal(t, menuID, e.Draft().Menus[0].ID)
}

func TestRemoveAndInsertAtIndex(t *testing.T) {
	e := New(nil)
	a, b, c := e.AddMenu(), e.AddMenu(), e.AddMenu()

	menu, i := e.RemoveMenu(b)
	require.Equal(t, 1, i)
	assert.Equal(t, b, menu.ID)

	_, missing := e.RemoveMenu(b)
	assert.Equal(t, -1, missing)

	e.SetName("Later Edit")
	e.InsertMenu(i, menu)
	e.InsertMenu(i, menu)

	ids := make([]string, 0, 3)
	for _, m := range e.Draft().Menus {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{a, b, c}, ids)
	assert.Equal(t, "Later Edit", e.Draft().Name)

	link := e.AddLink()
	removed, li := e.RemoveLink(link)
	require.Equal(t, 0, li)
	e.InsertLink(99, removed)
	assert.Equal(t, []model.Link{removed}, e.Draft().Links)

	e.InsertMenuItem("gone", 0, model.MenuItem{ID: "x"})
	for _, m := range e.Draft().Menus {
		assert.Empty(t, m.Items)
	}
}
