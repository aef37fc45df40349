package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealshare/internal/storage"
)

func TestProbeSlug(t *testing.T) {
	ctx := context.Background()

	t.Run("free base is returned untouched", func(t *testing.T) {
		got, err := probeSlug(ctx, "spicy-tacos", func(context.Context, string) (bool, error) {
			return false, nil
		})

		require.NoError(t, err)
		assert.Equal(t, "spicy-tacos", got)
	})

	t.Run("taken candidates are skipped in order", func(t *testing.T) {
		taken := map[string]bool{
			"spicy-tacos":   true,
			"spicy-tacos-1": true,
		}

		var probed []string
		got, err := probeSlug(ctx, "spicy-tacos", func(_ context.Context, s string) (bool, error) {
			probed = append(probed, s)
			return taken[s], nil
		})

		require.NoError(t, err)
		assert.Equal(t, "spicy-tacos-2", got)
		assert.Equal(t, []string{"spicy-tacos", "spicy-tacos-1", "spicy-tacos-2"}, probed)
	})

	t.Run("exhausted probe stops at the cap", func(t *testing.T) {
		var calls int
		var last string
		_, err := probeSlug(ctx, "spicy-tacos", func(_ context.Context, s string) (bool, error) {
			calls++
			last = s
			return true, nil
		})

		assert.ErrorIs(t, err, storage.ErrSlugExhausted)
		// exactly maxSlugAttempts candidates, ending one short of the cap
		// because the base itself was the first probe
		assert.Equal(t, maxSlugAttempts, calls)
		assert.Equal(t, fmt.Sprintf("spicy-tacos-%d", maxSlugAttempts-1), last)
	})

	t.Run("existence query errors abort the probe", func(t *testing.T) {
		probeErr := errors.New("connection reset")
		_, err := probeSlug(ctx, "spicy-tacos", func(context.Context, string) (bool, error) {
			return false, probeErr
		})

		assert.ErrorIs(t, err, probeErr)
	})
}
