package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"lowercases", "Hello World", "hello-world"},
		{"collapses punctuation", "Go, MongoDB & You!", "go-mongodb-you"},
		{"trims hyphens", "  --Edge Case--  ", "edge-case"},
		{"keeps digits", "Top 10 Posts of 2026", "top-10-posts-of-2026"},
		{"empty title falls back", "!!!", "post"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	slug := Slugify(strings.Repeat("word ", 50))
	assert.LessOrEqual(t, len(slug), 120)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestSlugSuffixShape(t *testing.T) {
	suffix := SlugSuffix()
	assert.Len(t, suffix, 6)
	for _, r := range suffix {
		assert.Contains(t, "abcdefghijklmnopqrstuvwxyz0123456789", string(r))
	}
}

func TestDeriveExcerpt(t *testing.T) {
	t.Run("strips markup", func(t *testing.T) {
		assert.Equal(t, "Hello world", DeriveExcerpt("<p>Hello <b>world</b></p>"))
	})

	t.Run("truncates long text", func(t *testing.T) {
		excerpt := DeriveExcerpt(strings.Repeat("a", 300))
		assert.Len(t, excerpt, 160)
		assert.True(t, strings.HasSuffix(excerpt, "..."))
	})

	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "short", DeriveExcerpt("short"))
	})

	t.Run("truncates multibyte text on a rune boundary", func(t *testing.T) {
		excerpt := DeriveExcerpt(strings.Repeat("é", 300))
		assert.True(t, utf8.ValidString(excerpt))
		assert.Equal(t, 160, utf8.RuneCountInString(excerpt))
		assert.Equal(t, strings.Repeat("é", 157)+"...", excerpt)
	})
}

func TestDeriveReadTime(t *testing.T) {
	t.Run("never below one minute", func(t *testing.T) {
		assert.Equal(t, 1, DeriveReadTime("<p>a few words</p>"))
	})

	t.Run("rounds words per 200", func(t *testing.T) {
		body := strings.TrimSpace(strings.Repeat("word ", 400))
		assert.Equal(t, 2, DeriveReadTime(body))
	})
}

func TestPostLikeCount(t *testing.T) {
	post := &Post{}
	assert.Equal(t, 0, post.LikeCount())
}
