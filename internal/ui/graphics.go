package ui

import (
	"image"
	"strings"
	"sync"

	"bistro/internal/ingest"
	"bistro/internal/logger"
	"bistro/internal/model"
	"bistro/internal/util"

	"github.com/qeesung/image2ascii/convert"
)

// Thumbnailer turns image data URLs into ASCII art sized for a card slot.
// Results are cached per image and size; a nil or disabled Thumbnailer
// always renders placeholders.
type Thumbnailer struct {
	enabled bool

	mu    sync.Mutex
	cache map[thumbKey]string
}

type thumbKey struct {
	id            string
	width, height int
}

// NewThumbnailer creates a thumbnailer. With enabled=false every slot is a
// labelled placeholder.
func NewThumbnailer(enabled bool) *Thumbnailer {
	return &Thumbnailer{
		enabled: enabled,
		cache:   make(map[thumbKey]string),
	}
}

// Render returns a width x height block for img.
func (t *Thumbnailer) Render(img model.Image, width, height int) string {
	if width <= 2 || height <= 2 {
		return ""
	}
	if t == nil || !t.enabled {
		return renderPlaceholder(img, width, height)
	}

	key := thumbKey{id: img.ID, width: width, height: height}
	t.mu.Lock()
	cached, ok := t.cache[key]
	t.mu.Unlock()
	if ok {
		return cached
	}

	var out string
	decoded, err := ingest.DecodeImage(img.Src)
	if err != nil {
		logger.L().Debug("thumbnail.placeholder", "image_id", img.ID, "alt", img.Alt, "err", err)
		out = renderPlaceholder(img, width, height)
	} else {
		out = convertToASCII(decoded, width, height)
	}

	t.mu.Lock()
	t.cache[key] = out
	t.mu.Unlock()
	return out
}

// Forget drops cached renders for images no longer on screen.
func (t *Thumbnailer) Forget(keep map[string]bool) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.cache {
		if !keep[k.id] {
			delete(t.cache, k)
		}
	}
}

func renderPlaceholder(img model.Image, width, height int) string {
	label := img.Alt
	if label == "" {
		label = "image"
	}
	label = util.TruncateString("▣ "+label, width-4)
	return PlaceholderStyle.
		Width(width - 2).
		Height(height - 2).
		Render(label)
}

// convertToASCII converts an image to colored ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = true // Use ANSI colors
	opts.Ratio = 0.5    // Adjust for terminal character aspect ratio

	ascii := converter.Image2ASCIIString(img, &opts)
	return strings.TrimRight(ascii, "\n")
}
