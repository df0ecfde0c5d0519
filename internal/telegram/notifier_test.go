package telegram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camuig/trade-quest/internal/config"
	"github.com/camuig/trade-quest/internal/logger"
)

func TestDisabledNotifierIsNoop(t *testing.T) {
	n := NewNotifier(&config.Config{}, logger.Discard())
	assert.False(t, n.Enabled())

	assert.NotPanics(t, func() {
		n.NotifyLevelUp(3, 600)
		n.NotifyReview("2025-W07", "text")
		n.NotifyError("test", errors.New("boom"))
		n.NotifyStatus("hello")
	})
}

func TestFormatting(t *testing.T) {
	assert.Contains(t, FormatLevelUp(12, 4200), "level 12")
	assert.Contains(t, FormatLevelUp(12, 4200), "4200")

	review := FormatReview("2025-W07", "## Week in numbers\nGood.")
	assert.Contains(t, review, "2025-W07")
	assert.Contains(t, review, "Good.")
}
