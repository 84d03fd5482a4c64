package util

import (
	"fmt"
	"strings"
	"time"
)

// SanitizePrice keeps only digits and decimal points.
func SanitizePrice(input string) string {
	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPrice formats a stored price for display: "$8.50", or "—" if empty.
func FormatPrice(price string) string {
	price = strings.TrimSpace(price)
	if price == "" {
		return "—"
	}
	return "$" + price
}

// FormatCount renders "1 menu" / "3 menus".
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// FormatAddedAt formats a commit timestamp with humanized relative display.
// "just now", "5m ago", "3h ago", "Jan 15 14:02"
func FormatAddedAt(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Local().Format("Jan 02 15:04")
	}
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
