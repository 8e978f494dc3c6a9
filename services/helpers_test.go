package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateHasPassed(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)

	// Вчера — прошло, даже если время слота позже текущего.
	assert.True(t, dateHasPassed(time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC), now))
	// Сегодня — ещё не прошло, даже ранним утром.
	assert.False(t, dateHasPassed(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, dateHasPassed(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestGetExtensionFromContentType(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":    ".jpg",
		"image/jpg":     ".jpg",
		"image/png":     ".png",
		"image/gif":     ".gif",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
	}
	for contentType, want := range cases {
		got, err := GetExtensionFromContentType(contentType)
		assert.NoError(t, err)
		assert.Equal(t, want, got, contentType)
	}

	_, err := GetExtensionFromContentType("application/pdf")
	assert.Error(t, err)
}
