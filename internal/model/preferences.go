// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language is a UI language.
type Language string

// Supported UI languages. Uzbek is the primary language.
const (
	LanguageUzbek   Language = "uz"
	LanguageRussian Language = "ru"
)

// DefaultLanguage is used when no valid language is persisted.
const DefaultLanguage = LanguageUzbek

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageUzbek || l == LanguageRussian
}

// Theme is a UI color theme.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme is used when no valid theme is persisted.
const DefaultTheme = ThemeLight

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Persisted preference keys.
const (
	KeyAuthToken       = "auth_token"
	KeyIsAuthenticated = "isAuthenticated"
	KeyLanguage        = "language"
	KeyTheme           = "theme"
)
