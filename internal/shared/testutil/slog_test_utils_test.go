package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("records levels and attributes", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.Debug("loading", slog.String("source", "bookings.csv"))
		logger.Info("dataset ready", slog.Int("rows", 6))
		logger.Error("render failed", slog.String("view", "REVENUE"))

		require.Equal(t, 3, logs.Count())
		assert.Len(t, logs.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.True(t, logs.ContainsMessage("ready"))
		assert.True(t, logs.ContainsAttr("view", "REVENUE"))
		assert.False(t, logs.ContainsAttr("view", "RATINGS"))

		logs.Clear()
		assert.Zero(t, logs.Count())
	})

	t.Run("derived loggers share the buffer", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		logger.With(slog.String("component", "loader")).
			WithGroup("dataset").
			Info("parsed", slog.Int("rows", 6))

		records := logs.GetRecords()
		require.Len(t, records, 1)
		assert.Equal(t, "loader", records[0].Attrs["component"])
		assert.Equal(t, int64(6), records[0].Attrs["dataset.rows"])
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, logs := NewTestLogger(t)
		logger.Warn("session evicted", slog.String("session_id", "s-1"))

		assert.True(t, AssertLogContains(t, logs, slog.LevelWarn, "evicted"))
		assert.True(t, AssertLogAttr(t, logs, "session_id", "s-1"))
		assert.True(t, AssertNoErrors(t, logs))
	})

	t.Run("concurrent writers", func(t *testing.T) {
		logger, logs := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("tick", slog.Int("n", n))
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 10, logs.Count())
	})
}
