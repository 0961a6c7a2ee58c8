package notifmenu

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "smoke detected", truncate("smoke detected", 20))
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	s := "cảnh báo nhiệt độ phòng quá cao"

	out := truncate(s, 12)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "cảnh báo ...", out)

	// Shorter in runes than max even though longer in bytes.
	assert.Equal(t, "nhiệt độ cao", truncate("nhiệt độ cao", 12))
}

func TestTruncateTinyMaxReturnsInput(t *testing.T) {
	assert.Equal(t, "fire", truncate("fire", 3))
}
