package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/siswa/internal/kv"
	"github.com/desertthunder/siswa/internal/shared"
)

// ThemeKey is the storage key holding the current theme name.
const ThemeKey = "mam1_theme"

// Theme is the UI colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps a stored name to a [Theme], falling back to [ThemeLight] for anything unknown.
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// ThemeRepository persists the theme name.
type ThemeRepository struct {
	store kv.Store
}

// NewThemeRepository creates a new [ThemeRepository] over store.
func NewThemeRepository(store kv.Store) *ThemeRepository {
	return &ThemeRepository{store: store}
}

// Load returns the saved theme or [ThemeLight] when none was saved.
func (r *ThemeRepository) Load(ctx context.Context) (Theme, error) {
	data, ok, err := r.store.Get(ctx, ThemeKey)
	if err != nil {
		return ThemeLight, fmt.Errorf("%w: failed to load theme: %v", shared.ErrPersistence, err)
	}
	if !ok {
		return ThemeLight, nil
	}
	return ParseTheme(string(data)), nil
}

// Save stores theme.
func (r *ThemeRepository) Save(ctx context.Context, theme Theme) error {
	if err := r.store.Set(ctx, ThemeKey, []byte(theme)); err != nil {
		return fmt.Errorf("%w: failed to save theme: %v", shared.ErrPersistence, err)
	}
	return nil
}

// Toggle flips the saved theme and returns the new value.
func (r *ThemeRepository) Toggle(ctx context.Context) (Theme, error) {
	current, err := r.Load(ctx)
	if err != nil {
		return current, err
	}
	next := current.Toggled()
	if err := r.Save(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}
