package ui

import (
	"strings"

	"bistro/internal/model"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// RestaurantsModel is the catalog screen: every committed record as a card,
// most recent first, in a scrollable viewport.
type RestaurantsModel struct {
	rows   []model.Restaurant
	filter string
	thumbs *Thumbnailer

	viewport    viewport.Model
	renderedFor int
	dirty       bool
	cardOffsets []int
	cursor      int
}

// NewRestaurantsModel creates a catalog view over rows, which must already be
// ordered most recent first.
func NewRestaurantsModel(rows []model.Restaurant, filter string, thumbs *Thumbnailer) *RestaurantsModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{}
	return &RestaurantsModel{
		rows:     append([]model.Restaurant(nil), rows...),
		filter:   filter,
		thumbs:   thumbs,
		viewport: vp,
		dirty:    true,
	}
}

// Rows returns the records in display order.
func (m *RestaurantsModel) Rows() []model.Restaurant {
	return m.rows
}

func (m *RestaurantsModel) Len() int {
	return len(m.rows)
}

// Cursor is the index of the card at the top of the viewport.
func (m *RestaurantsModel) Cursor() int {
	return m.cursor
}

func (m *RestaurantsModel) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
		m.scrollToCursor()
	}
}

func (m *RestaurantsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.scrollToCursor()
	}
}

func (m *RestaurantsModel) JumpToTop() {
	m.cursor = 0
	m.viewport.GotoTop()
}

func (m *RestaurantsModel) JumpToBottom() {
	if len(m.rows) == 0 {
		return
	}
	m.cursor = len(m.rows) - 1
	m.scrollToCursor()
}

func (m *RestaurantsModel) HalfPageDown() {
	m.viewport.HalfViewDown()
	m.syncCursor()
}

func (m *RestaurantsModel) HalfPageUp() {
	m.viewport.HalfViewUp()
	m.syncCursor()
}

// Update forwards mouse wheel events to the viewport.
func (m *RestaurantsModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.syncCursor()
	return cmd
}

// View renders the card list into a width x height block.
func (m *RestaurantsModel) View(width, height int) string {
	if len(m.rows) == 0 {
		return RenderEmptyState(m.filter, width)
	}

	m.viewport.Width = width
	m.viewport.Height = height
	if m.dirty || m.renderedFor != width {
		m.render(width)
	}
	return m.viewport.View()
}

func (m *RestaurantsModel) render(width int) {
	cardWidth := width - 2
	if cardWidth > 96 {
		cardWidth = 96
	}

	keep := make(map[string]bool)
	cards := make([]string, len(m.rows))
	m.cardOffsets = make([]int, len(m.rows))
	line := 0
	for i, r := range m.rows {
		for _, img := range r.Images {
			keep[img.ID] = true
		}
		cards[i] = RenderCard(r, cardWidth, m.thumbs)
		m.cardOffsets[i] = line
		line += strings.Count(cards[i], "\n") + 2
	}
	m.thumbs.Forget(keep)

	m.viewport.SetContent(strings.Join(cards, "\n\n"))
	m.renderedFor = width
	m.dirty = false
	m.scrollToCursor()
}

func (m *RestaurantsModel) scrollToCursor() {
	if m.cursor < len(m.cardOffsets) {
		m.viewport.SetYOffset(m.cardOffsets[m.cursor])
	}
}

func (m *RestaurantsModel) syncCursor() {
	y := m.viewport.YOffset
	for i := len(m.cardOffsets) - 1; i >= 0; i-- {
		if m.cardOffsets[i] <= y {
			m.cursor = i
			return
		}
	}
}
