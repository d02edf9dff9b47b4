// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
	"unicode/utf8"

	"storyslip/internal/markdown"
	"storyslip/internal/models"
)

// excerptRunes is where auto-derived excerpts are cut.
const excerptRunes = 200

// Options carry the render-affecting request parameters. Page and
// Search select which items the caller passes in; they never change
// the rendering algorithm itself. Theme, when set to a known theme,
// overrides the widget's configured theme.
type Options struct {
	Page   int
	Search string
	Theme  string
}

// Renderer produces widget bundles. It is stateless and safe for
// concurrent use; templates are compiled once at package init.
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// itemView is the per-item template data.
type itemView struct {
	Title      string
	URL        string
	Excerpt    template.HTML
	HasExcerpt bool
	Date       string
	DateISO    string
	ShowDate   bool
}

// widgetView is the top-level template data.
type widgetView struct {
	WidgetID    string
	Title       string
	Theme       string
	Layout      string
	SearchForm  bool
	Placeholder string
	SearchQuery string
	Empty       bool
	Items       []itemView
}

// Render produces a complete bundle for the widget over the given page
// of content items. It fails with a *RenderError when the widget's
// stored settings cannot be parsed or a template fails to execute; it
// never panics and never returns a partial bundle.
func (r *Renderer) Render(widget *models.Widget, items []models.ContentItem, opts Options) (*Bundle, error) {
	settings, err := widget.ParsedSettings()
	if err != nil {
		return nil, &RenderError{
			WidgetID: widget.ID.String(),
			Reason:   "malformed widget settings",
			Err:      err,
		}
	}

	display := settings.Display()
	theme := display.Theme
	if knownTheme(opts.Theme) {
		theme = opts.Theme
	}

	view := widgetView{
		WidgetID:    widget.ID.String(),
		Title:       widget.Title,
		Theme:       theme,
		Layout:      display.Layout,
		SearchQuery: opts.Search,
		Empty:       len(items) == 0,
	}

	if sb, ok := settings.(models.SearchBoxSettings); ok {
		view.SearchForm = true
		view.Placeholder = sb.Placeholder
	}

	for _, item := range items {
		iv := itemView{
			Title: item.Title,
			URL:   "/" + item.Slug,
		}

		if display.ShowExcerpts {
			src := excerptSource(&item)
			if src != "" {
				html, err := markdown.ToHTML(src)
				if err != nil {
					return nil, &RenderError{
						WidgetID: widget.ID.String(),
						Reason:   "excerpt conversion failed",
						Err:      err,
					}
				}
				iv.Excerpt = template.HTML(html)
				iv.HasExcerpt = true
			}
		}

		if display.ShowDates && item.PublishedAt != nil {
			published := item.PublishedAt.UTC()
			iv.Date = published.Format("Jan 2, 2006")
			iv.DateISO = published.Format(time.RFC3339)
			iv.ShowDate = true
		}

		view.Items = append(view.Items, iv)
	}

	var buf bytes.Buffer
	if err := widgetTmpl.Execute(&buf, view); err != nil {
		return nil, &RenderError{
			WidgetID: widget.ID.String(),
			Reason:   "template execution failed",
			Err:      err,
		}
	}

	bundle := &Bundle{
		HTML: buf.String(),
		CSS:  stylesheet(theme, display.Layout),
		Meta: buildMetadata(widget, items),
	}
	if view.SearchForm {
		bundle.JS = searchScript(widget.ID.String())
	}

	return bundle, nil
}

// excerptSource picks the authored excerpt when present, otherwise a
// deterministic cut of the body source.
func excerptSource(item *models.ContentItem) string {
	if item.Excerpt != nil && *item.Excerpt != "" {
		return *item.Excerpt
	}
	if item.Body == "" {
		return ""
	}
	if utf8.RuneCountInString(item.Body) <= excerptRunes {
		return item.Body
	}
	runes := []rune(item.Body)
	return string(runes[:excerptRunes]) + "…"
}

// buildMetadata derives page metadata from the widget and its first
// content item. Tag order is fixed so output stays byte-stable.
func buildMetadata(widget *models.Widget, items []models.ContentItem) Metadata {
	meta := Metadata{Title: widget.Title}

	if widget.Description != nil && *widget.Description != "" {
		meta.Description = *widget.Description
	} else if len(items) > 0 {
		meta.Description = excerptSource(&items[0])
	}

	meta.OGTags = append(meta.OGTags, MetaTag{Property: "og:title", Content: meta.Title})
	meta.OGTags = append(meta.OGTags, MetaTag{Property: "og:type", Content: "website"})
	if meta.Description != "" {
		meta.OGTags = append(meta.OGTags, MetaTag{Property: "og:description", Content: meta.Description})
	}

	return meta
}

// searchScript returns the bootstrap snippet wiring the widget's
// search form to a re-fetch with the entered query.
func searchScript(widgetID string) string {
	return fmt.Sprintf(`(function(){
var root=document.querySelector('[data-ss-widget="%s"]');
if(!root)return;
var form=root.querySelector('.ss-search');
if(!form)return;
form.addEventListener('submit',function(ev){
ev.preventDefault();
var q=form.querySelector('.ss-search-input').value;
root.dispatchEvent(new CustomEvent('storyslip:search',{detail:{query:q},bubbles:true}));
});
})();
`, widgetID)
}
