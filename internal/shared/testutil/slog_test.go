package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, h := NewTestLogger(nil)

	logger.Info("fetched series", slog.String("symbol", "HG=F"))
	logger.With(slog.String("component", "market")).Warn("breaker open")
	logger.Error("write failed")

	assert.Equal(t, 3, h.Count())
	assert.True(t, h.ContainsMessage("fetched"))
	assert.True(t, h.ContainsAttr("symbol", "HG=F"))
	assert.True(t, h.ContainsAttr("component", "market"))
	assert.Len(t, h.RecordsAt(slog.LevelError), 1)
	AssertLogContains(t, h, slog.LevelWarn, "breaker")

	h.Clear()
	assert.Zero(t, h.Count())
	AssertNoErrors(t, h)
}
