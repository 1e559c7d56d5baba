package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/luminal/internal/testutil"
)

func TestThemes_Defaults(t *testing.T) {
	themes := DefaultThemes()
	require.Len(t, themes, 6)
	assert.Equal(t, DefaultThemeID, themes[0].ID)
	assert.True(t, themes[0].Purchased)
	for _, th := range themes[1:] {
		assert.False(t, th.Purchased, th.ID)
		assert.Positive(t, th.Price, th.ID)
	}
}

func TestThemes_PurchaseAndSelect(t *testing.T) {
	ctx := context.Background()
	forEachBackend(t, func(t *testing.T, s *Store, _ *testutil.ManualClock) {
		assert.Equal(t, DefaultThemeID, s.SelectedTheme(ctx).ID)

		err := s.SelectTheme(ctx, "ocean")
		assert.ErrorIs(t, err, ErrThemeLocked)

		ok, err := s.PurchaseTheme(ctx, "ocean")
		require.NoError(t, err)
		assert.False(t, ok, "no coins yet")

		_, err = s.AddCoins(ctx, 130)
		require.NoError(t, err)

		ok, err = s.PurchaseTheme(ctx, "ocean")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 30, s.Coins(ctx))

		// owning it already costs nothing
		ok, err = s.PurchaseTheme(ctx, "ocean")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 30, s.Coins(ctx))

		require.NoError(t, s.SelectTheme(ctx, "ocean"))
		assert.Equal(t, "Ocean", s.SelectedTheme(ctx).Name)

		for _, th := range s.Themes(ctx) {
			assert.Equal(t, th.ID == "midnight" || th.ID == "ocean", th.Purchased, th.ID)
		}

		_, err = s.PurchaseTheme(ctx, "plaid")
		assert.ErrorIs(t, err, ErrUnknownTheme)
		assert.ErrorIs(t, s.SelectTheme(ctx, "plaid"), ErrUnknownTheme)
	})
}

func TestSelectedTheme_FallsBackWhenNotOwned(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t, NewMemory())

	require.NoError(t, s.save(ctx, KeySelectedTheme, "golden"))
	assert.Equal(t, DefaultThemeID, s.SelectedTheme(ctx).ID)
}
