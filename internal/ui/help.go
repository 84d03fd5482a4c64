package ui

import (
	"strings"

	"bistro/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch {
	case mode == model.ModeInsert:
		return renderFormHelp(width)
	case mode == model.ModeFilter:
		return renderFilterHelp(width)
	case screen == model.ScreenCatalog:
		return renderCatalogHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderCatalogHelp(width int) string {
	keys := []string{
		helpKey("j/k", "scroll"),
		helpKey("g/G", "top/bottom"),
		helpKey("a", "add restaurant"),
		helpKey("/", "filter"),
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderFilterHelp(width int) string {
	keys := []string{
		helpKey("enter", "keep filter"),
		helpKey("esc", "clear"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("shift+tab", "prev field"),
		helpKey("enter", "add/upload"),
		helpKey("ctrl+d", "remove"),
		helpKey("ctrl+s", "save"),
		helpKey("esc", "back"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("?", "help"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Catalog"),
		helpSection([]helpItem{
			{"j / ↓", "Next card"},
			{"k / ↑", "Previous card"},
			{"ctrl+d / ctrl+u", "Half page down / up"},
			{"g / G", "Jump to top / bottom"},
			{"a", "Add a restaurant (resumes an unsaved draft)"},
			{"/", "Filter by name, menu, item or link title"},
			{"esc", "Clear filter"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Form"),
		helpSection([]helpItem{
			{"tab / ↓", "Next field"},
			{"shift+tab / ↑", "Previous field"},
			{"enter", "Press the focused button or load the listed images"},
			{"ctrl+d", "Remove the focused menu, item, link or picture"},
			{"ctrl+s", "Save restaurant"},
			{"ctrl+r", "Clear the form"},
			{"ctrl+z / ctrl+y", "Undo / redo a removal or clear"},
			{"esc", "Back to catalog (draft is kept)"},
		}),
		titleSection("Pictures"),
		helpSection([]helpItem{
			{"paths", "Separate with commas or spaces; quote paths with spaces"},
			{"globs", "~/Pictures/*.jpg loads every match"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
