package ui

import (
	"fmt"
	"strings"

	"bistro/internal/model"
	"bistro/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// SlotKind is the size class of one image in a card's photo grid.
type SlotKind int

const (
	// SlotFull spans the whole card width.
	SlotFull SlotKind = iota
	// SlotEmphasis spans two columns and two rows.
	SlotEmphasis
	// SlotCell is one column by one row.
	SlotCell
)

func (k SlotKind) String() string {
	switch k {
	case SlotFull:
		return "full"
	case SlotEmphasis:
		return "emphasis"
	case SlotCell:
		return "cell"
	default:
		return "unknown"
	}
}

const maxGridImages = 3

// ImageLayout returns the slot kinds for the first min(n, 3) images of a card.
func ImageLayout(n int) []SlotKind {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []SlotKind{SlotFull}
	case n == 2:
		return []SlotKind{SlotEmphasis, SlotFull}
	default:
		return []SlotKind{SlotEmphasis, SlotCell, SlotCell}
	}
}

// gridMetrics holds the slot sizes for one inner card width.
type gridMetrics struct {
	cellW, cellH int
	emphW, emphH int
	fullW, fullH int
}

func newGridMetrics(inner int) gridMetrics {
	cellW := (inner - 2) / 3
	cellH := clamp(cellW/3, 3, 8)
	return gridMetrics{
		cellW: cellW,
		cellH: cellH,
		emphW: 2*cellW + 1,
		emphH: 2*cellH + 1,
		fullW: inner,
		fullH: 2*cellH + 1,
	}
}

func (g gridMetrics) size(kind SlotKind) (int, int) {
	switch kind {
	case SlotEmphasis:
		return g.emphW, g.emphH
	case SlotCell:
		return g.cellW, g.cellH
	default:
		return g.fullW, g.fullH
	}
}

// RenderCard projects one record into a bordered card of the given total
// width. Sections without content are left out.
func RenderCard(r model.Restaurant, width int, thumbs *Thumbnailer) string {
	inner := width - 4
	if inner < 12 {
		inner = 12
	}

	var sections []string
	if grid := renderImageGrid(r.Images, inner, thumbs); grid != "" {
		sections = append(sections, grid)
	}
	sections = append(sections, CardTitleStyle.Render(util.TruncateString(r.Name, inner)))
	if len(r.Menus) > 0 {
		sections = append(sections, renderMenusSection(r, inner))
	}
	if len(r.Links) > 0 {
		sections = append(sections, renderLinksSection(r.Links, inner))
	}

	return CardStyle.Width(inner + 2).Render(strings.Join(sections, "\n\n"))
}

func renderImageGrid(images []model.Image, inner int, thumbs *Thumbnailer) string {
	layout := ImageLayout(len(images))
	if len(layout) == 0 {
		return ""
	}
	g := newGridMetrics(inner)
	slot := func(i int) string {
		w, h := g.size(layout[i])
		return thumbs.Render(images[i], w, h)
	}

	var grid string
	switch len(layout) {
	case 1:
		grid = slot(0)
	case 2:
		grid = lipgloss.JoinVertical(lipgloss.Left, slot(0), "", slot(1))
	default:
		right := lipgloss.JoinVertical(lipgloss.Left, slot(1), "", slot(2))
		grid = lipgloss.JoinHorizontal(lipgloss.Top, slot(0), " ", right)
	}

	if extra := len(images) - maxGridImages; extra > 0 {
		grid += "\n" + HelpDescStyle.Render(fmt.Sprintf("+%s", util.FormatCount(extra, "more photo", "more photos")))
	}
	return grid
}

func renderMenusSection(r model.Restaurant, inner int) string {
	title := SectionStyle.Render("Menus")
	if n := r.ItemCount(); n > 0 {
		title += HelpDescStyle.Render(" · " + util.FormatCount(n, "item", "items"))
	}
	lines := []string{title}
	for _, menu := range r.Menus {
		name := menu.Name
		if strings.TrimSpace(name) == "" {
			name = "Untitled menu"
		}
		lines = append(lines, MenuNameStyle.Render(util.TruncateString(name, inner)))
		for _, item := range menu.Items {
			lines = append(lines, renderItemLine(item, inner))
		}
	}
	return strings.Join(lines, "\n")
}

// renderItemLine lays out "name ....... $price" across the inner width.
func renderItemLine(item model.MenuItem, inner int) string {
	price := util.FormatPrice(item.Price)
	priceW := lipgloss.Width(price)
	maxName := inner - priceW - 4
	if maxName < 1 {
		maxName = 1
	}
	name := util.TruncateString(item.Name, maxName)
	dots := inner - lipgloss.Width(name) - priceW - 4
	if dots < 1 {
		dots = 1
	}
	return "  " + NormalRowStyle.Render(name) + " " +
		HelpDescStyle.Render(strings.Repeat(".", dots)) + " " +
		PriceStyle.Render(price)
}

func renderLinksSection(links []model.Link, inner int) string {
	lines := []string{SectionStyle.Render("Links")}
	for _, link := range links {
		title := strings.TrimSpace(link.Title)
		if title == "" {
			lines = append(lines, "  "+LinkStyle.Render(util.TruncateString(link.URL, inner-2)))
			continue
		}
		line := title + " → " + link.URL
		line = util.TruncateString(line, inner-2)
		lines = append(lines, "  "+NormalRowStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

// RenderEmptyState renders the placeholder shown when no records exist.
func RenderEmptyState(filter string, width int) string {
	if filter != "" {
		return EmptyStateStyle.Width(width).Render(
			fmt.Sprintf("No restaurants match %q\nPress esc to clear the filter", filter))
	}
	return EmptyStateStyle.Width(width).Render("No restaurants yet\nPress a to add one")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
