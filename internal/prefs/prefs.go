// Package prefs persists operator preferences for pawndesk.
// Preferences are stored in ~/.config/pawndesk/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Prefs holds operator preferences.
type Prefs struct {
	Theme    string `toml:"theme"`
	Currency string `toml:"currency"`
	Locale   string `toml:"locale"`
}

const (
	defaultPrefsPath = "~/.config/pawndesk/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultCurrency  = "IDR"
	defaultLocale    = "id"
)

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Currency: defaultCurrency, Locale: defaultLocale}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Unit returns the currency unit, or IDR when the stored code is unknown.
func (p Prefs) Unit() currency.Unit {
	if u, err := currency.ParseISO(p.Currency); err == nil {
		return u
	}
	return currency.IDR
}

// Tag returns the display locale, or Indonesian when the stored tag is invalid.
func (p Prefs) Tag() language.Tag {
	if tag, err := language.Parse(p.Locale); err == nil {
		return tag
	}
	return language.Indonesian
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable. Unknown currency codes and malformed
// locales are replaced field by field.
func Load(path string) (Prefs, error) {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	prefs.normalize()
	return prefs, nil
}

func (p *Prefs) normalize() {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}

	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if _, err := currency.ParseISO(p.Currency); err != nil {
		p.Currency = defaultCurrency
	}

	p.Locale = strings.TrimSpace(p.Locale)
	if tag, err := language.Parse(p.Locale); err != nil {
		p.Locale = defaultLocale
	} else {
		p.Locale = tag.String()
	}
}

// Validate reports whether the currency and locale are usable.
func (p Prefs) Validate() error {
	var errs []error
	if _, err := currency.ParseISO(p.Currency); err != nil {
		errs = append(errs, fmt.Errorf("currency %q: %w", p.Currency, err))
	}
	if _, err := language.Parse(p.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", p.Locale, err))
	}
	return errors.Join(errs...)
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
