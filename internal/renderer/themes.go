// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package renderer

import (
	"fmt"
	"strings"

	"storyslip/internal/models"
)

// palette holds the colors a theme substitutes into the base
// stylesheet.
type palette struct {
	Background string
	Text       string
	Muted      string
	Accent     string
	Border     string
}

// knownTheme reports whether a theme name is one the renderer ships a
// palette for. Unknown names in the ?theme= parameter are ignored in
// favor of the widget's configured theme.
func knownTheme(name string) bool {
	switch name {
	case models.ThemeLight, models.ThemeDark, models.ThemeMinimal, models.ThemeModern:
		return true
	}
	return false
}

// themePalette returns the palette for a validated theme name.
func themePalette(name string) palette {
	switch name {
	case models.ThemeDark:
		return palette{
			Background: "#1a1a2e",
			Text:       "#eaeaea",
			Muted:      "#9a9ab0",
			Accent:     "#7f9cf5",
			Border:     "#2e2e4e",
		}
	case models.ThemeMinimal:
		return palette{
			Background: "transparent",
			Text:       "#222222",
			Muted:      "#777777",
			Accent:     "#222222",
			Border:     "transparent",
		}
	case models.ThemeModern:
		return palette{
			Background: "#ffffff",
			Text:       "#111827",
			Muted:      "#6b7280",
			Accent:     "#4f46e5",
			Border:     "#e5e7eb",
		}
	default: // light
		return palette{
			Background: "#ffffff",
			Text:       "#333333",
			Muted:      "#888888",
			Accent:     "#2563eb",
			Border:     "#dddddd",
		}
	}
}

// stylesheet builds the widget CSS for a theme and layout. Output is a
// pure function of its arguments.
func stylesheet(theme, layout string) string {
	p := themePalette(theme)

	var b strings.Builder
	fmt.Fprintf(&b, `.ss-widget{box-sizing:border-box;font-family:system-ui,-apple-system,sans-serif;background:%s;color:%s;border:1px solid %s;border-radius:8px;padding:16px}
.ss-widget-title{margin:0 0 12px;font-size:1.25rem}
.ss-item-link{color:%s;text-decoration:none;font-weight:600}
.ss-item-link:hover{text-decoration:underline}
.ss-item-excerpt{margin:4px 0;font-size:.9rem}
.ss-item-date{display:block;font-size:.8rem;color:%s}
.ss-empty{color:%s;font-style:italic}
.ss-search{margin:0 0 12px}
.ss-search-input{width:100%%;box-sizing:border-box;padding:8px;border:1px solid %s;border-radius:4px;background:inherit;color:inherit}
`, p.Background, p.Text, p.Border, p.Accent, p.Muted, p.Muted, p.Border)

	switch layout {
	case models.LayoutGrid:
		b.WriteString(`.ss-items{list-style:none;margin:0;padding:0;display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:12px}
.ss-item{padding:8px;border:1px solid ` + p.Border + `;border-radius:6px}
`)
	case models.LayoutCards:
		b.WriteString(`.ss-items{list-style:none;margin:0;padding:0;display:flex;flex-direction:column;gap:12px}
.ss-item{padding:12px;border:1px solid ` + p.Border + `;border-radius:8px;box-shadow:0 1px 3px rgba(0,0,0,.08)}
`)
	default: // list
		b.WriteString(`.ss-items{list-style:none;margin:0;padding:0}
.ss-item{padding:8px 0;border-bottom:1px solid ` + p.Border + `}
.ss-item:last-child{border-bottom:none}
`)
	}

	return b.String()
}
