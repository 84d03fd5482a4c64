package model

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh opaque identifier for any catalog entity.
func NewID() string {
	return uuid.NewString()
}

// MenuItem represents a single priced dish on a menu.
type MenuItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"` // free text, digits and '.' only when entered through the form
}

// Menu represents a named menu and its ordered items.
type Menu struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Link represents a titled external link for a restaurant.
type Link struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Image represents an embedded photo.
type Image struct {
	ID  string `json:"id"`
	Src string `json:"src"` // data URL: data:<mime>;base64,<payload>
	Alt string `json:"alt"` // original filename
}

// Restaurant is the aggregate root; it exclusively owns its menus, links and images.
type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Menus     []Menu    `json:"menus"`
	Links     []Link    `json:"links"`
	Images    []Image   `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of r that shares no slices with it.
func (r Restaurant) Clone() Restaurant {
	out := r
	out.Menus = CloneMenus(r.Menus)
	out.Links = append([]Link{}, r.Links...)
	out.Images = append([]Image{}, r.Images...)
	return out
}

// CloneMenus deep-copies menus including their item slices.
func CloneMenus(menus []Menu) []Menu {
	out := make([]Menu, len(menus))
	for i, m := range menus {
		out[i] = m
		out[i].Items = append([]MenuItem{}, m.Items...)
	}
	return out
}

// ItemCount returns the number of menu items across all menus.
func (r Restaurant) ItemCount() int {
	n := 0
	for _, m := range r.Menus {
		n += len(m.Items)
	}
	return n
}
