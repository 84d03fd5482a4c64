// Package editor holds the in-progress restaurant draft and the closed set of
// operations the form may apply to it.
//
// Draft values are never modified in place. Every operation returns a new Draft
// whose changed collections are fresh slices, so a Draft captured earlier keeps
// its contents no matter what happens afterwards.
package editor

import (
	"slices"

	"bistro/internal/model"
)

// ItemField names an editable menu item field.
type ItemField int

const (
	ItemName ItemField = iota
	ItemPrice
)

// LinkField names an editable link field.
type LinkField int

const (
	LinkTitle LinkField = iota
	LinkURL
)

// Draft is the restaurant-shaped working value behind the form.
type Draft struct {
	Name   string
	Menus  []model.Menu
	Links  []model.Link
	Images []model.Image
}

// IsEmpty reports whether d equals the initial empty draft.
func (d Draft) IsEmpty() bool {
	return d.Name == "" && len(d.Menus) == 0 && len(d.Links) == 0 && len(d.Images) == 0
}

// WithName replaces the restaurant name.
func (d Draft) WithName(name string) Draft {
	d.Name = name
	return d
}

// WithMenu appends an empty menu and returns its id.
func (d Draft) WithMenu() (Draft, string) {
	id := model.NewID()
	d.Menus = appendClone(d.Menus, model.Menu{ID: id})
	return d, id
}

// WithoutMenu drops the menu and everything it owns.
func (d Draft) WithoutMenu(menuID string) Draft {
	if menuIndex(d.Menus, menuID) < 0 {
		return d
	}
	d.Menus = slices.DeleteFunc(slices.Clone(d.Menus), func(m model.Menu) bool { return m.ID == menuID })
	return d
}

// WithMenuName renames a menu.
func (d Draft) WithMenuName(menuID, name string) Draft {
	return d.updateMenu(menuID, func(m model.Menu) model.Menu {
		m.Name = name
		return m
	})
}

// WithMenuItem appends an empty item to a menu. The returned id is empty when
// the menu does not exist.
func (d Draft) WithMenuItem(menuID string) (Draft, string) {
	if menuIndex(d.Menus, menuID) < 0 {
		return d, ""
	}
	id := model.NewID()
	d = d.updateMenu(menuID, func(m model.Menu) model.Menu {
		m.Items = appendClone(m.Items, model.MenuItem{ID: id})
		return m
	})
	return d, id
}

// WithoutMenuItem removes one item from one menu.
func (d Draft) WithoutMenuItem(menuID, itemID string) Draft {
	return d.updateMenu(menuID, func(m model.Menu) model.Menu {
		if itemIndex(m.Items, itemID) < 0 {
			return m
		}
		m.Items = slices.DeleteFunc(slices.Clone(m.Items), func(it model.MenuItem) bool { return it.ID == itemID })
		return m
	})
}

// WithMenuItemField replaces a single field of a menu item. Text is stored as
// given; callers sanitize prices before calling.
func (d Draft) WithMenuItemField(menuID, itemID string, field ItemField, text string) Draft {
	return d.updateMenu(menuID, func(m model.Menu) model.Menu {
		i := itemIndex(m.Items, itemID)
		if i < 0 {
			return m
		}
		items := slices.Clone(m.Items)
		switch field {
		case ItemName:
			items[i].Name = text
		case ItemPrice:
			items[i].Price = text
		default:
			return m
		}
		m.Items = items
		return m
	})
}

// WithLink appends an empty link and returns its id.
func (d Draft) WithLink() (Draft, string) {
	id := model.NewID()
	d.Links = appendClone(d.Links, model.Link{ID: id})
	return d, id
}

// WithoutLink removes a link.
func (d Draft) WithoutLink(linkID string) Draft {
	if linkIndex(d.Links, linkID) < 0 {
		return d
	}
	d.Links = slices.DeleteFunc(slices.Clone(d.Links), func(l model.Link) bool { return l.ID == linkID })
	return d
}

// WithLinkField replaces the title or url of a link. No url validation happens here.
func (d Draft) WithLinkField(linkID string, field LinkField, text string) Draft {
	i := linkIndex(d.Links, linkID)
	if i < 0 {
		return d
	}
	links := slices.Clone(d.Links)
	switch field {
	case LinkTitle:
		links[i].Title = text
	case LinkURL:
		links[i].URL = text
	default:
		return d
	}
	d.Links = links
	return d
}

// WithImage appends an already-encoded image.
func (d Draft) WithImage(img model.Image) Draft {
	d.Images = appendClone(d.Images, img)
	return d
}

// WithoutImage removes an image.
func (d Draft) WithoutImage(imageID string) Draft {
	if imageIndex(d.Images, imageID) < 0 {
		return d
	}
	d.Images = slices.DeleteFunc(slices.Clone(d.Images), func(img model.Image) bool { return img.ID == imageID })
	return d
}

// WithMenuAt inserts menu at index i, clamped to the menu count. A menu whose id
// is already present is ignored.
func (d Draft) WithMenuAt(i int, menu model.Menu) Draft {
	if menuIndex(d.Menus, menu.ID) >= 0 {
		return d
	}
	d.Menus = insertClone(d.Menus, i, menu)
	return d
}

// WithMenuItemAt inserts item into a menu at index i.
func (d Draft) WithMenuItemAt(menuID string, i int, item model.MenuItem) Draft {
	return d.updateMenu(menuID, func(m model.Menu) model.Menu {
		if itemIndex(m.Items, item.ID) >= 0 {
			return m
		}
		m.Items = insertClone(m.Items, i, item)
		return m
	})
}

// WithLinkAt inserts link at index i.
func (d Draft) WithLinkAt(i int, link model.Link) Draft {
	if linkIndex(d.Links, link.ID) >= 0 {
		return d
	}
	d.Links = insertClone(d.Links, i, link)
	return d
}

// WithImageAt inserts img at index i.
func (d Draft) WithImageAt(i int, img model.Image) Draft {
	if imageIndex(d.Images, img.ID) >= 0 {
		return d
	}
	d.Images = insertClone(d.Images, i, img)
	return d
}

// Menu returns the menu with the given id.
func (d Draft) Menu(menuID string) (model.Menu, bool) {
	i := menuIndex(d.Menus, menuID)
	if i < 0 {
		return model.Menu{}, false
	}
	return d.Menus[i], true
}

func (d Draft) updateMenu(menuID string, fn func(model.Menu) model.Menu) Draft {
	i := menuIndex(d.Menus, menuID)
	if i < 0 {
		return d
	}
	menus := slices.Clone(d.Menus)
	menus[i] = fn(menus[i])
	d.Menus = menus
	return d
}

func appendClone[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func insertClone[T any](s []T, i int, v T) []T {
	i = max(0, min(i, len(s)))
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

func menuIndex(menus []model.Menu, id string) int {
	return slices.IndexFunc(menus, func(m model.Menu) bool { return m.ID == id })
}

func itemIndex(items []model.MenuItem, id string) int {
	return slices.IndexFunc(items, func(it model.MenuItem) bool { return it.ID == id })
}

func linkIndex(links []model.Link, id string) int {
	return slices.IndexFunc(links, func(l model.Link) bool { return l.ID == id })
}

func imageIndex(images []model.Image, id string) int {
	return slices.IndexFunc(images, func(img model.Image) bool { return img.ID == id })
}
