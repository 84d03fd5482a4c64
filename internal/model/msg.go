package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// RestaurantsLoadedMsg is sent when the catalog list is loaded. Seq is the
// load sequence number that requested it; Total counts every record,
// regardless of Filter.
type RestaurantsLoadedMsg struct {
	Seq         int
	Filter      string
	Restaurants []Restaurant
	Total       int
}

// RestaurantSavedMsg is sent after a record has been committed to the catalog.
type RestaurantSavedMsg struct {
	Restaurant Restaurant
}

// ImageLoadedMsg is sent when one selected file has been read and encoded.
// Generation is the editor generation that requested the load.
type ImageLoadedMsg struct {
	Generation int
	Path       string
	Image      Image
	Err        error
}

// FormCancelledMsg is sent when the user leaves the form without saving.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenCatalog Screen = iota
	ScreenForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeFilter
)
