package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseCheck(t *testing.T) {
	window := 60 * time.Second

	t.Run("under the limit", func(t *testing.T) {
		result, err := parseCheck([]interface{}{int64(3), int64(42)}, 20, window)
		require.NoError(t, err)
		require.True(t, result.Allowed)
		require.Equal(t, 17, result.Remaining)
		require.Equal(t, 42*time.Second, result.ResetIn)
		require.Equal(t, 20, result.Limit)
	})

	t.Run("at the limit is still allowed", func(t *testing.T) {
		result, err := parseCheck([]interface{}{int64(20), int64(10)}, 20, window)
		require.NoError(t, err)
		require.True(t, result.Allowed)
		require.Equal(t, 0, result.Remaining)
	})

	t.Run("over the limit is denied with zero remaining", func(t *testing.T) {
		result, err := parseCheck([]interface{}{int64(25), int64(10)}, 20, window)
		require.NoError(t, err)
		require.False(t, result.Allowed)
		require.Equal(t, 0, result.Remaining)
	})

	t.Run("missing ttl falls back to the window", func(t *testing.T) {
		result, err := parseCheck([]interface{}{int64(1), int64(-1)}, 20, window)
		require.NoError(t, err)
		require.Equal(t, window, result.ResetIn)
	})

	t.Run("malformed reply is an error", func(t *testing.T) {
		_, err := parseCheck("nope", 20, window)
		require.Error(t, err)

		_, err = parseCheck([]interface{}{int64(1)}, 20, window)
		require.Error(t, err)
	})
}
