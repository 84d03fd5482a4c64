package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"bistro/internal/ingest"
	"bistro/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageLayout(t *testing.T) {
	tests := []struct {
		n    int
		want []SlotKind
	}{
		{0, nil},
		{1, []SlotKind{SlotFull}},
		{2, []SlotKind{SlotEmphasis, SlotFull}},
		{3, []SlotKind{SlotEmphasis, SlotCell, SlotCell}},
		{7, []SlotKind{SlotEmphasis, SlotCell, SlotCell}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageLayout(tt.n), "n=%d", tt.n)
	}
}

func TestRenderCardOmitsEmptySections(t *testing.T) {
	r := model.Restaurant{ID: "r1", Name: "Quiet Corner"}
	out := RenderCard(r, 60, nil)

	assert.Contains(t, out, "Quiet Corner")
	assert.NotContains(t, out, "Menus")
	assert.NotContains(t, out, "Links")
	assert.NotContains(t, out, "▣")

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 60)
	}
}

func TestRenderCardSections(t *testing.T) {
	r := model.Restaurant{
		ID:   "r1",
		Name: "Cozy Bistro",
		Menus: []model.Menu{{
			ID:   "m1",
			Name: "Dinner",
			Items: []model.MenuItem{
				{ID: "i1", Name: "Steak Frites", Price: "24.00"},
				{ID: "i2", Name: "Soup", Price: ""},
			},
		}},
		Links: []model.Link{
			{ID: "l1", Title: "Reservations", URL: "https://cozy.example"},
			{ID: "l2", URL: "not a url"},
		},
	}
	before := r.Clone()

	out := RenderCard(r, 80, nil)
	assert.Contains(t, out, "Menus · 2 items")
	assert.Contains(t, out, "Dinner")
	assert.Contains(t, out, "Steak Frites")
	assert.Contains(t, out, "$24.00")
	assert.Contains(t, out, "—")
	assert.Contains(t, out, "Links")
	assert.Contains(t, out, "Reservations → https://cozy.example")
	assert.Contains(t, out, "not a url")

	assert.Less(t, strings.Index(out, "Cozy Bistro"), strings.Index(out, "Menus"))
	assert.Less(t, strings.Index(out, "Menus"), strings.Index(out, "Links"))

	assert.Equal(t, out, RenderCard(r, 80, nil))
	assert.Equal(t, before, r)
}

func TestRenderCardUndecodableImageShowsPlaceholder(t *testing.T) {
	img := ingest.Encode([]byte("%PDF-1.4 not a picture"), "menu.pdf")
	r := model.Restaurant{ID: "r1", Name: "Paper Menu", Images: []model.Image{img}}

	out := RenderCard(r, 60, NewThumbnailer(true))
	assert.Contains(t, out, "menu.pdf")
	assert.Contains(t, out, "Paper Menu")
}

func TestRenderCardExtraImagesCaption(t *testing.T) {
	var images []model.Image
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"} {
		images = append(images, model.Image{ID: name, Src: "data:image/jpeg;base64,", Alt: name})
	}
	out := RenderCard(model.Restaurant{ID: "r1", Name: "Gallery", Images: images}, 80, nil)

	assert.Contains(t, out, "a.jpg")
	assert.Contains(t, out, "c.jpg")
	assert.NotContains(t, out, "d.jpg")
	assert.Contains(t, out, "+2 more photos")
}

func TestThumbnailerRendersPicture(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 30), G: 120, B: uint8(y * 30), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	img := ingest.Encode(buf.Bytes(), "front.png")

	thumbs := NewThumbnailer(true)
	out := thumbs.Render(img, 20, 6)
	assert.NotEmpty(t, out)
	assert.NotContains(t, out, "front.png")
	assert.Equal(t, out, thumbs.Render(img, 20, 6))

	disabled := NewThumbnailer(false).Render(img, 20, 6)
	assert.Contains(t, disabled, "front.png")
}

func TestRenderEmptyState(t *testing.T) {
	assert.Contains(t, RenderEmptyState("", 60), "No restaurants yet")
	assert.Contains(t, RenderEmptyState("", 60), "Press a to add one")
	assert.Contains(t, RenderEmptyState("taco", 60), `"taco"`)
}

func placeholderImages(names ...string) []model.Image {
	images := make([]model.Image, 0, len(names))
	for _, name := range names {
		images = append(images, model.Image{ID: name, Src: "data:image/jpeg;base64,", Alt: name})
	}
	return images
}

func TestImageGridSlotSizes(t *testing.T) {
	const inner = 60
	g := newGridMetrics(inner)
	assert.Equal(t, gridMetrics{cellW: 19, cellH: 6, emphW: 39, emphH: 13, fullW: 60, fullH: 13}, g)

	single := renderImageGrid(placeholderImages("front.jpg"), inner, nil)
	assert.Equal(t, inner, lipgloss.Width(single))
	assert.Equal(t, g.fullH, lipgloss.Height(single))

	triple := renderImageGrid(placeholderImages("a.jpg", "b.jpg", "c.jpg"), inner, nil)
	assert.Equal(t, g.emphH, lipgloss.Height(triple))
	assert.Equal(t, g.emphW+1+g.cellW, lipgloss.Width(triple))

	lines := strings.Split(triple, "\n")
	emphTop := "┌" + strings.Repeat("─", g.emphW-2) + "┐"
	emphBottom := "└" + strings.Repeat("─", g.emphW-2) + "┘"
	assert.True(t, strings.HasPrefix(lines[0], emphTop+" ┌"), lines[0])
	assert.True(t, strings.HasPrefix(lines[g.emphH-1], emphBottom+" └"), lines[g.emphH-1])
}

func TestRenderCardSingleImageSpansInnerWidth(t *testing.T) {
	r := model.Restaurant{ID: "r1", Name: "Wide", Images: placeholderImages("front.jpg")}
	out := RenderCard(r, 64, nil)

	fullTop := "┌" + strings.Repeat("─", 58) + "┐"
	assert.Contains(t, out, fullTop)
	assert.NotContains(t, out, fullTop+"─")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 64, lipgloss.Width(line))
	}
}
