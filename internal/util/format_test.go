package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8.50", "8.50"},
		{"$8.50", "8.50"},
		{"12 USD", "12"},
		{"1,200.00", "1200.00"},
		{"abc", ""},
		{"1.2.3", "1.2.3"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizePrice(tt.in), tt.in)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$8.50", FormatPrice("8.50"))
	assert.Equal(t, "—", FormatPrice(" "))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "1 menu", FormatCount(1, "menu", "menus"))
	assert.Equal(t, "0 menus", FormatCount(0, "menu", "menus"))
	assert.Equal(t, "4 menus", FormatCount(4, "menu", "menus"))
}

func TestFormatAddedAt(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "", FormatAddedAt(time.Time{}, now))
	assert.Equal(t, "just now", FormatAddedAt(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", FormatAddedAt(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", FormatAddedAt(now.Add(-3*time.Hour), now))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "hello", TruncateString("hello", 5))
	assert.Equal(t, "he...", TruncateString("hello world", 5))
	assert.Equal(t, "h", TruncateString("hello", 1))
	assert.Equal(t, "", TruncateString("hello", 0))
}
