package store

import (
	"context"
	"fmt"
)

// DefaultThemeID is the free theme every player owns.
const DefaultThemeID = "midnight"

// Theme is a purchasable board palette.
type Theme struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
	Price      int    `json:"price"`
	Purchased  bool   `json:"purchased"`
}

// DefaultThemes returns the built-in theme list.
func DefaultThemes() []Theme {
	return []Theme{
		{ID: "midnight", Name: "Midnight", Background: "1D1F30", Accent: "FE284A", Price: 0, Purchased: true},
		{ID: "ocean", Name: "Ocean", Background: "0A1929", Accent: "00B4D8", Price: 100},
		{ID: "forest", Name: "Forest", Background: "1A2F1A", Accent: "52B788", Price: 150},
		{ID: "sunset", Name: "Sunset", Background: "2D1B2E", Accent: "FF6B35", Price: 150},
		{ID: "neon", Name: "Neon", Background: "0D0221", Accent: "FF006E", Price: 200},
		{ID: "golden", Name: "Golden", Background: "1C1810", Accent: "FFD60A", Price: 250},
	}
}

// Themes returns the theme list with purchase state.
func (s *Store) Themes(ctx context.Context) []Theme {
	var themes []Theme
	if !s.load(ctx, KeyThemes, &themes) || len(themes) == 0 {
		return DefaultThemes()
	}
	return themes
}

// PurchaseTheme buys the theme with id. It reports true when the theme is
// owned afterwards and false when the balance does not cover the price.
func (s *Store) PurchaseTheme(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	themes := s.Themes(ctx)
	i := themeIndex(themes, id)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
	if themes[i].Purchased {
		return true, nil
	}

	ok, err := s.spendLocked(ctx, themes[i].Price)
	if err != nil || !ok {
		return false, err
	}
	themes[i].Purchased = true
	if err := s.save(ctx, KeyThemes, themes); err != nil {
		return false, err
	}
	s.logger.Info("theme purchased", "theme", id, "price", themes[i].Price)
	return true, nil
}

// SelectTheme makes the purchased theme with id the active one.
func (s *Store) SelectTheme(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	themes := s.Themes(ctx)
	i := themeIndex(themes, id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
	if !themes[i].Purchased {
		return fmt.Errorf("%w: %q", ErrThemeLocked, id)
	}
	return s.save(ctx, KeySelectedTheme, id)
}

// SelectedTheme returns the active theme, falling back to the default when
// the stored selection is missing or no longer owned.
func (s *Store) SelectedTheme(ctx context.Context) Theme {
	var id string
	if s.load(ctx, KeySelectedTheme, &id) {
		themes := s.Themes(ctx)
		if i := themeIndex(themes, id); i >= 0 && themes[i].Purchased {
			return themes[i]
		}
	}
	return DefaultThemes()[0]
}

func themeIndex(themes []Theme, id string) int {
	for i, t := range themes {
		if t.ID == id {
			return i
		}
	}
	return -1
}
