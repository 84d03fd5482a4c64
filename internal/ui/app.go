package ui

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bistro/internal/db"
	"bistro/internal/editor"
	"bistro/internal/logger"
	"bistro/internal/model"
	"bistro/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const filterDebounce = 150 * time.Millisecond

type filterDebounceMsg struct {
	seq int
}

// Options configures the root model.
type Options struct {
	// Thumbnails enables ASCII rendering of card images. When false every
	// image is drawn as a labelled placeholder.
	Thumbnails bool
	// Logger defaults to logger.L().
	Logger *slog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	db     *sql.DB
	log    *slog.Logger
	editor *editor.Editor
	thumbs *Thumbnailer
	screen model.Screen
	mode   model.Mode

	width  int
	height int

	error       string
	info        string
	showingHelp bool

	// Screen models
	restaurants *RestaurantsModel
	form        *RestaurantFormModel

	filter  textinput.Model
	loadSeq int
	total   int

	keys KeyMap
}

// New creates a new root model. Submitted records are inserted into database
// before the form resets.
func New(database *sql.DB, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.L()
	}

	ed := editor.New(func(r model.Restaurant) error {
		return db.InsertRestaurant(database, r)
	})

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "name, menu, item or link"
	filter.CharLimit = 100

	thumbs := NewThumbnailer(opts.Thumbnails)

	return Model{
		db:          database,
		log:         log,
		editor:      ed,
		thumbs:      thumbs,
		screen:      model.ScreenCatalog,
		mode:        model.ModeNav,
		restaurants: NewRestaurantsModel(nil, "", thumbs),
		form:        NewRestaurantFormModel(ed),
		filter:      filter,
		loadSeq:     1,
		keys:        DefaultKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return loadRestaurantsCmd(m.db, m.loadSeq, "")
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.showingHelp {
			if msg.String() == "esc" || msg.String() == "?" {
				m.showingHelp = false
			}
			return m, nil
		}

		switch m.mode {
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeFilter:
			return m.handleFilterMode(msg)
		default:
			return m.handleNavMode(msg)
		}

	case tea.MouseMsg:
		if m.screen == model.ScreenCatalog && m.restaurants != nil {
			return m, m.restaurants.Update(msg)
		}
		return m, nil

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		m.log.Warn("ui.error", "err", msg.Err)
		return m, nil

	case model.RestaurantsLoadedMsg:
		if msg.Seq != m.loadSeq {
			m.log.Debug("catalog.stale_load", "seq", msg.Seq, "current", m.loadSeq)
			return m, nil
		}
		m.restaurants = NewRestaurantsModel(msg.Restaurants, msg.Filter, m.thumbs)
		m.total = msg.Total
		m.error = ""
		return m, nil

	case model.RestaurantSavedMsg:
		m.mode = model.ModeNav
		m.screen = model.ScreenCatalog
		m.info = fmt.Sprintf("Saved %q", msg.Restaurant.Name)
		m.error = ""
		m.loadSeq++
		return m, loadRestaurantsCmd(m.db, m.loadSeq, m.filter.Value())

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		m.screen = model.ScreenCatalog
		if !m.editor.Draft().IsEmpty() || m.editor.Pending() > 0 {
			m.info = "Draft kept, press a to resume"
		}
		return m, nil

	case filterDebounceMsg:
		if msg.seq != m.loadSeq {
			return m, nil
		}
		return m, loadRestaurantsCmd(m.db, msg.seq, m.filter.Value())

	case model.ImageLoadedMsg, spinner.TickMsg:
		// Image loads outlive the form screen; the draft still owns them.
		return m.updateForm(msg)
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var breadcrumbParts []string
	switch m.screen {
	case model.ScreenForm:
		breadcrumbParts = []string{"Catalog", "Add Restaurant"}
	default:
		breadcrumbParts = []string{"Catalog"}
	}

	header := renderHeader(breadcrumbParts, m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	top := []string{header}
	if m.error != "" {
		top = append(top, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		top = append(top, SuccessStyle.Width(m.width).Render(m.info))
	}
	if m.screen == model.ScreenCatalog {
		top = append(top, m.renderStatusLine())
	}

	used := lipgloss.Height(footer)
	for _, part := range top {
		used += lipgloss.Height(part)
	}
	contentHeight := m.height - used
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.screen {
	case model.ScreenCatalog:
		if m.restaurants != nil {
			content = m.restaurants.View(m.width, contentHeight)
		}
	case model.ScreenForm:
		if m.form != nil {
			content = m.form.View(m.width, contentHeight)
		}
	}

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	parts := append(top, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderStatusLine() string {
	if m.mode == model.ModeFilter {
		return "  " + m.filter.View()
	}

	status := util.FormatCount(m.total, "restaurant", "restaurants")
	if f := m.filter.Value(); f != "" && m.restaurants != nil {
		status = fmt.Sprintf("%d of %s matching %q", m.restaurants.Len(), status, f)
	}
	if m.restaurants != nil && m.restaurants.Len() > 1 {
		status += fmt.Sprintf(" · card %d/%d", m.restaurants.Cursor()+1, m.restaurants.Len())
	}
	if m.restaurants != nil && m.restaurants.Len() > 0 {
		latest := m.restaurants.Rows()[0]
		if added := util.FormatAddedAt(latest.CreatedAt, time.Now()); added != "" {
			status += " · latest added " + added
		}
	}
	return BreadcrumbStyle.Padding(0, 2).Render(status)
}

func renderHeader(breadcrumbParts []string, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("bistro")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: current date
	dateStr := time.Now().Format("Mon 02 Jan")
	right := BreadcrumbStyle.Render(dateStr) + "  "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// handleNavMode handles catalog navigation input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showingHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.mode = model.ModeInsert
		m.screen = model.ScreenForm
		m.info = ""
		return m, nil
	case key.Matches(msg, m.keys.Filter):
		m.mode = model.ModeFilter
		m.info = ""
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Clear):
		if m.filter.Value() == "" {
			m.info = ""
			m.error = ""
			return m, nil
		}
		m.filter.SetValue("")
		m.loadSeq++
		return m, loadRestaurantsCmd(m.db, m.loadSeq, "")
	}

	if m.restaurants == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Down):
		m.restaurants.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.restaurants.MoveUp()
	case key.Matches(msg, m.keys.PageDown):
		m.restaurants.HalfPageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.restaurants.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		m.restaurants.JumpToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.restaurants.JumpToBottom()
	}
	return m, nil
}

// handleFilterMode edits the catalog filter. Each change schedules a
// debounced reload tagged with a fresh load sequence number.
func (m Model) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = model.ModeNav
		m.filter.Blur()
		return m, nil
	case "esc":
		m.mode = model.ModeNav
		m.filter.Blur()
		m.filter.SetValue("")
		m.loadSeq++
		return m, loadRestaurantsCmd(m.db, m.loadSeq, "")
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() == before {
		return m, cmd
	}

	m.loadSeq++
	seq := m.loadSeq
	return m, tea.Batch(cmd, tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{seq: seq}
	}))
}

// handleInsertMode routes input to the form.
func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	return m.updateForm(msg)
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	newForm, cmd := m.form.Update(msg)
	m.form = &newForm
	return m, cmd
}

// recovered returns the model to a usable state after a panic.
func (m Model) recovered() Model {
	m.screen = model.ScreenCatalog
	m.mode = model.ModeNav
	m.showingHelp = false
	m.filter.Blur()
	m.error = unexpectedErrorText()
	return m
}

func unexpectedErrorText() string {
	if path := logger.Path(); path != "" {
		return "Unexpected error (see " + path + ")"
	}
	return "Unexpected error (see logs)"
}

func loadRestaurantsCmd(database *sql.DB, seq int, filter string) tea.Cmd {
	return func() tea.Msg {
		rows, err := db.ListRestaurants(database, filter)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		total, err := db.CountRestaurants(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.RestaurantsLoadedMsg{
			Seq:         seq,
			Filter:      filter,
			Restaurants: rows,
			Total:       total,
		}
	}
}
