package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bistro/internal/editor"
	"bistro/internal/ingest"
	"bistro/internal/logger"
	"bistro/internal/model"
	"bistro/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const imageReadTimeout = 30 * time.Second

type rowKind int

const (
	rowNone rowKind = iota
	rowName
	rowMenuName
	rowItemName
	rowItemPrice
	rowAddItem
	rowAddMenu
	rowLinkTitle
	rowLinkURL
	rowAddLink
	rowImage
	rowImagePaths
	rowSave
)

// formRow is one focusable line of the form. Rows are derived from the draft
// on every structural change and identified by kind plus entity ids.
type formRow struct {
	kind    rowKind
	menuID  string
	itemID  string
	linkID  string
	imageID string
}

func (r formRow) isText() bool {
	switch r.kind {
	case rowName, rowMenuName, rowItemName, rowItemPrice, rowLinkTitle, rowLinkURL, rowImagePaths:
		return true
	}
	return false
}

func buildRows(d editor.Draft) []formRow {
	rows := []formRow{{kind: rowName}}
	for _, menu := range d.Menus {
		rows = append(rows, formRow{kind: rowMenuName, menuID: menu.ID})
		for _, item := range menu.Items {
			rows = append(rows,
				formRow{kind: rowItemName, menuID: menu.ID, itemID: item.ID},
				formRow{kind: rowItemPrice, menuID: menu.ID, itemID: item.ID},
			)
		}
		rows = append(rows, formRow{kind: rowAddItem, menuID: menu.ID})
	}
	rows = append(rows, formRow{kind: rowAddMenu})
	for _, link := range d.Links {
		rows = append(rows,
			formRow{kind: rowLinkTitle, linkID: link.ID},
			formRow{kind: rowLinkURL, linkID: link.ID},
		)
	}
	rows = append(rows, formRow{kind: rowAddLink})
	for _, img := range d.Images {
		rows = append(rows, formRow{kind: rowImage, imageID: img.ID})
	}
	rows = append(rows, formRow{kind: rowImagePaths}, formRow{kind: rowSave})
	return rows
}

// RestaurantFormModel is the insert-mode screen. It edits the draft held by
// the editor, so leaving and re-entering the form keeps unsaved work.
type RestaurantFormModel struct {
	editor *editor.Editor
	keys   FormKeyMap

	rows    []formRow
	focus   int
	input   textinput.Model
	paths   textinput.Model
	spinner spinner.Model

	history undoHistory
	notice  string
	alert   string
	error   string
}

// NewRestaurantFormModel creates a form over ed's draft.
func NewRestaurantFormModel(ed *editor.Editor) *RestaurantFormModel {
	input := textinput.New()
	input.CharLimit = 200

	paths := textinput.New()
	paths.Placeholder = "~/Pictures/front.jpg, menu.png or *.jpg"
	paths.CharLimit = 1000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &RestaurantFormModel{
		editor:  ed,
		keys:    DefaultFormKeyMap(),
		input:   input,
		paths:   paths,
		spinner: sp,
	}
	m.rebuild(formRow{kind: rowName})
	return m
}

func (m *RestaurantFormModel) focusedKind() rowKind {
	return m.rows[m.focus].kind
}

// Alert returns the blocking message currently shown, if any.
func (m *RestaurantFormModel) Alert() string {
	return m.alert
}

// Update handles all messages.
func (m RestaurantFormModel) Update(msg tea.Msg) (RestaurantFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case model.ImageLoadedMsg:
		return m, m.handleImageLoaded(msg)
	case spinner.TickMsg:
		if m.editor.Pending() == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m RestaurantFormModel) handleKey(msg tea.KeyMsg) (RestaurantFormModel, tea.Cmd) {
	if m.alert != "" {
		switch msg.String() {
		case "enter", "esc":
			m.alert = ""
			m.rebuild(formRow{kind: rowName})
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, func() tea.Msg {
			return model.FormCancelledMsg{}
		}
	case key.Matches(msg, m.keys.Save):
		return m, m.submit()
	case key.Matches(msg, m.keys.Reset):
		before := m.editor.Draft()
		m.editor.Reset()
		if !before.IsEmpty() {
			m.history.push(formClearedAction(before))
			m.notice = "Form cleared (ctrl+z to undo)"
		}
		m.paths.SetValue("")
		m.error = ""
		m.rebuild(formRow{kind: rowName})
		return m, nil
	case key.Matches(msg, m.keys.Undo):
		if action, ok := m.history.undo(); ok {
			action.undo(m.editor)
			m.notice = "Undone: " + action.label
		} else {
			m.notice = "Nothing to undo"
		}
		m.rebuild(m.rows[m.focus])
		return m, nil
	case key.Matches(msg, m.keys.Redo):
		if action, ok := m.history.redo(); ok {
			action.redo(m.editor)
			m.notice = "Redone: " + action.label
		} else {
			m.notice = "Nothing to redo"
		}
		m.rebuild(m.rows[m.focus])
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		m.setFocus((m.focus + 1) % len(m.rows))
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.setFocus((m.focus - 1 + len(m.rows)) % len(m.rows))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.deleteFocused()
		return m, nil
	case key.Matches(msg, m.keys.Activate):
		return m, m.activate()
	}

	row := m.rows[m.focus]
	if !row.isText() {
		return m, nil
	}

	var cmd tea.Cmd
	if row.kind == rowImagePaths {
		m.paths, cmd = m.paths.Update(msg)
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	m.apply(row, m.input.Value())
	m.notice = ""
	return m, cmd
}

// apply writes the focused input's text back into the draft.
func (m *RestaurantFormModel) apply(row formRow, value string) {
	switch row.kind {
	case rowName:
		m.editor.SetName(value)
	case rowMenuName:
		m.editor.RenameMenu(row.menuID, value)
	case rowItemName:
		m.editor.EditMenuItem(row.menuID, row.itemID, editor.ItemName, value)
	case rowItemPrice:
		clean := util.SanitizePrice(value)
		if clean != value {
			m.input.SetValue(clean)
		}
		m.editor.EditMenuItem(row.menuID, row.itemID, editor.ItemPrice, clean)
	case rowLinkTitle:
		m.editor.EditLink(row.linkID, editor.LinkTitle, value)
	case rowLinkURL:
		m.editor.EditLink(row.linkID, editor.LinkURL, value)
	}
}

func (m *RestaurantFormModel) activate() tea.Cmd {
	row := m.rows[m.focus]
	switch row.kind {
	case rowAddItem:
		id := m.editor.AddMenuItem(row.menuID)
		m.rebuild(formRow{kind: rowItemName, menuID: row.menuID, itemID: id})
	case rowAddMenu:
		id := m.editor.AddMenu()
		m.rebuild(formRow{kind: rowMenuName, menuID: id})
	case rowAddLink:
		id := m.editor.AddLink()
		m.rebuild(formRow{kind: rowLinkTitle, linkID: id})
	case rowImagePaths:
		return m.loadImages()
	case rowSave:
		return m.submit()
	default:
		m.setFocus((m.focus + 1) % len(m.rows))
	}
	return nil
}

func (m *RestaurantFormModel) deleteFocused() {
	row := m.rows[m.focus]

	var action undoAction
	switch row.kind {
	case rowMenuName:
		menu, i := m.editor.RemoveMenu(row.menuID)
		if i < 0 {
			return
		}
		action = menuRemovedAction(menu, i)
	case rowItemName, rowItemPrice:
		item, i := m.editor.RemoveMenuItem(row.menuID, row.itemID)
		if i < 0 {
			return
		}
		action = itemRemovedAction(row.menuID, item, i)
	case rowLinkTitle, rowLinkURL:
		link, i := m.editor.RemoveLink(row.linkID)
		if i < 0 {
			return
		}
		action = linkRemovedAction(link, i)
	case rowImage:
		img, i := m.editor.RemoveImage(row.imageID)
		if i < 0 {
			return
		}
		action = imageRemovedAction(img, i)
	default:
		return
	}

	m.history.push(action)
	m.notice = strings.ToUpper(action.label[:1]) + action.label[1:] + " (ctrl+z to undo)"
	m.rebuild(formRow{})
}

func (m *RestaurantFormModel) submit() tea.Cmd {
	record, err := m.editor.Submit()
	if err != nil {
		var verr *editor.ValidationError
		if errors.As(err, &verr) {
			m.alert = verr.Reason
			return nil
		}
		logger.L().Error("restaurant.commit_failed", "err", err)
		m.error = err.Error()
		return func() tea.Msg {
			return model.ErrorMsg{Err: err}
		}
	}

	logger.L().Info("restaurant.committed",
		"id", record.ID,
		"name", record.Name,
		"menus", len(record.Menus),
		"links", len(record.Links),
		"images", len(record.Images),
	)
	m.error = ""
	m.notice = ""
	m.history.clear()
	m.paths.SetValue("")
	m.rebuild(formRow{kind: rowName})
	return func() tea.Msg {
		return model.RestaurantSavedMsg{Restaurant: record}
	}
}

// loadImages expands the path input and reads every file in its own command.
// Completions come back as ImageLoadedMsg tagged with the current generation.
func (m *RestaurantFormModel) loadImages() tea.Cmd {
	paths := ingest.ExpandPaths(m.paths.Value())
	if len(paths) == 0 {
		return nil
	}
	m.paths.SetValue("")

	idle := m.editor.Pending() == 0
	gen := m.editor.BeginImages(len(paths))
	logger.L().Info("images.requested", "count", len(paths), "generation", gen)

	cmds := make([]tea.Cmd, 0, len(paths)+1)
	if idle {
		cmds = append(cmds, m.spinner.Tick)
	}
	for _, p := range paths {
		cmds = append(cmds, readImageCmd(gen, p))
	}
	return tea.Batch(cmds...)
}

func readImageCmd(generation int, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), imageReadTimeout)
		defer cancel()
		img, err := ingest.ReadFile(ctx, path)
		return model.ImageLoadedMsg{Generation: generation, Path: path, Image: img, Err: err}
	}
}

func (m *RestaurantFormModel) handleImageLoaded(msg model.ImageLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.editor.SkipImage(msg.Generation)
		logger.L().Warn("image.read_failed", "path", msg.Path, "generation", msg.Generation, "err", msg.Err)
		if msg.Generation != m.editor.Generation() {
			return nil
		}
		err := msg.Err
		return func() tea.Msg {
			return model.ErrorMsg{Err: err}
		}
	}

	if !m.editor.AcceptImage(msg.Generation, msg.Image) {
		logger.L().Debug("image.discarded",
			"path", msg.Path,
			"generation", msg.Generation,
			"current", m.editor.Generation(),
		)
		return nil
	}
	logger.L().Debug("image.accepted", "path", msg.Path, "image_id", msg.Image.ID)
	m.rebuild(m.rows[m.focus])
	return nil
}

// rebuild re-derives rows from the draft and moves focus to target, or keeps
// the current position when target no longer exists.
func (m *RestaurantFormModel) rebuild(target formRow) {
	m.rows = buildRows(m.editor.Draft())
	idx := -1
	for i, r := range m.rows {
		if r == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = min(m.focus, len(m.rows)-1)
	}
	m.setFocus(idx)
}

func (m *RestaurantFormModel) setFocus(i int) {
	m.focus = i
	m.input.Blur()
	m.paths.Blur()

	row := m.rows[i]
	switch {
	case row.kind == rowImagePaths:
		m.paths.Focus()
	case row.isText():
		m.input.Placeholder = placeholderFor(row.kind)
		m.input.SetValue(m.valueOf(row))
		m.input.CursorEnd()
		m.input.Focus()
	}
}

func (m *RestaurantFormModel) valueOf(row formRow) string {
	d := m.editor.Draft()
	switch row.kind {
	case rowName:
		return d.Name
	case rowMenuName, rowItemName, rowItemPrice:
		menu, ok := d.Menu(row.menuID)
		if !ok {
			return ""
		}
		if row.kind == rowMenuName {
			return menu.Name
		}
		for _, item := range menu.Items {
			if item.ID == row.itemID {
				if row.kind == rowItemName {
					return item.Name
				}
				return item.Price
			}
		}
	case rowLinkTitle, rowLinkURL:
		for _, link := range d.Links {
			if link.ID == row.linkID {
				if row.kind == rowLinkTitle {
					return link.Title
				}
				return link.URL
			}
		}
	}
	return ""
}

func placeholderFor(kind rowKind) string {
	switch kind {
	case rowName:
		return "Restaurant name"
	case rowMenuName:
		return "e.g. Dinner"
	case rowItemName:
		return "Item name"
	case rowItemPrice:
		return "0.00"
	case rowLinkTitle:
		return "Link title"
	case rowLinkURL:
		return "https://"
	}
	return ""
}

// View renders the form.
func (m *RestaurantFormModel) View(width, height int) string {
	if m.alert != "" {
		return m.renderAlert(width, height)
	}

	d := m.editor.Draft()
	var (
		lines     []string
		focusLine int
	)
	add := func(i int, line string) {
		if i == m.focus {
			focusLine = len(lines)
		}
		lines = append(lines, line)
	}

	menuN, itemN, linkN := 0, 0, 0
	section := ""
	for i, row := range m.rows {
		focused := i == m.focus
		switch row.kind {
		case rowName:
			add(i, m.renderFormField("Name *", row, focused, 0))
		case rowMenuName:
			if section != "menus" {
				section = "menus"
				lines = append(lines, "", SectionStyle.Render("Menus"))
			}
			menuN++
			itemN = 0
			add(i, m.renderFormField(fmt.Sprintf("Menu %d", menuN), row, focused, 0))
		case rowItemName:
			itemN++
			add(i, m.renderFormField(fmt.Sprintf("Item %d", itemN), row, focused, 1))
		case rowItemPrice:
			add(i, m.renderFormField("Price", row, focused, 1))
		case rowAddItem:
			add(i, renderButton("+ Add Item", focused, 1))
		case rowAddMenu:
			if section != "menus" {
				lines = append(lines, "", SectionStyle.Render("Menus"))
			}
			add(i, renderButton("+ Add Menu", focused, 0))
			section = "links"
			lines = append(lines, "", SectionStyle.Render("Links"))
		case rowLinkTitle:
			linkN++
			add(i, m.renderFormField(fmt.Sprintf("Link %d", linkN), row, focused, 0))
		case rowLinkURL:
			add(i, m.renderFormField("URL", row, focused, 1))
		case rowAddLink:
			add(i, renderButton("+ Add Link", focused, 0))
			lines = append(lines, "", SectionStyle.Render("Pictures"))
		case rowImage:
			add(i, renderImageRow(d, row.imageID, focused))
		case rowImagePaths:
			add(i, m.renderPathsField(focused))
		case rowSave:
			lines = append(lines, "")
			add(i, renderButton("Save Restaurant", focused, 0))
		}
	}

	if m.error != "" {
		lines = append(lines, "", ErrorStyle.Render(m.error))
	}
	if m.notice != "" {
		lines = append(lines, "", HelpDescStyle.Render(m.notice))
	}

	inner := height - 4
	if inner < 1 {
		inner = 1
	}
	lines = cropAround(lines, focusLine, inner)

	title := LabelStyle.Render("Add a New Restaurant")
	content := title + "\n" + strings.Join(lines, "\n")

	return PanelStyle.
		Width(width - 4).
		Height(height - 2).
		Render(content)
}

// renderFormField renders one labelled input line with a focus marker.
func (m *RestaurantFormModel) renderFormField(label string, row formRow, focused bool, indent int) string {
	marker := "  "
	if focused {
		marker = FocusMarkerStyle.Render("› ")
	}
	prefix := strings.Repeat("    ", indent) + marker + LabelStyle.Width(10).Render(label)

	if focused {
		return prefix + " " + m.input.View()
	}
	value := m.valueOf(row)
	if value == "" {
		return prefix + " " + HelpDescStyle.Render(placeholderFor(row.kind))
	}
	if row.kind == rowItemPrice {
		value = util.FormatPrice(value)
	}
	return prefix + " " + NormalRowStyle.Render(value)
}

func (m *RestaurantFormModel) renderPathsField(focused bool) string {
	marker := "  "
	if focused {
		marker = FocusMarkerStyle.Render("› ")
	}
	line := marker + LabelStyle.Width(10).Render("Upload") + " " + m.paths.View()
	if n := m.editor.Pending(); n > 0 {
		line += "  " + m.spinner.View() + HelpDescStyle.Render(" loading "+util.FormatCount(n, "image", "images"))
	}
	return line
}

func renderButton(label string, focused bool, indent int) string {
	pad := strings.Repeat("    ", indent)
	if focused {
		return pad + FocusMarkerStyle.Render("› ") + ButtonActiveStyle.Render(" "+label+" ")
	}
	return pad + "  " + ButtonStyle.Render(label)
}

func renderImageRow(d editor.Draft, imageID string, focused bool) string {
	marker := "  "
	if focused {
		marker = FocusMarkerStyle.Render("› ")
	}
	for _, img := range d.Images {
		if img.ID != imageID {
			continue
		}
		mt, size := ingest.Describe(img.Src)
		detail := fmt.Sprintf("%s, %s", mt, humanize.Bytes(uint64(size)))
		return marker + NormalRowStyle.Render("▣ "+img.Alt) + "  " + HelpDescStyle.Render(detail)
	}
	return marker
}

func (m *RestaurantFormModel) renderAlert(width, height int) string {
	reason := m.alert
	if reason != "" {
		reason = strings.ToUpper(reason[:1]) + reason[1:] + "."
	}
	box := AlertStyle.Render(
		ErrorStyle.Render(reason) + "\n\n" + HelpDescStyle.Render("press enter to continue"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// cropAround returns at most n lines of lines, keeping focus visible.
func cropAround(lines []string, focus, n int) []string {
	if len(lines) <= n {
		return lines
	}
	start := focus - n/2
	if start < 0 {
		start = 0
	}
	if start+n > len(lines) {
		start = len(lines) - n
	}
	return lines[start : start+n]
}
