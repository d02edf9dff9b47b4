// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package renderer

import "html/template"

// widgetTmpl is the single widget fragment template. Layout variants
// share one structure and differ through the ss-layout-* class the
// stylesheet targets, so the fragment shape stays uniform for the
// bootstrap script.
var widgetTmpl = template.Must(template.New("widget").Parse(`<div class="ss-widget ss-theme-{{.Theme}} ss-layout-{{.Layout}}" data-ss-widget="{{.WidgetID}}">
<h2 class="ss-widget-title">{{.Title}}</h2>
{{- if .SearchForm}}
<form class="ss-search" role="search"><input class="ss-search-input" type="search" name="search" placeholder="{{.Placeholder}}" value="{{.SearchQuery}}"></form>
{{- end}}
{{- if .Empty}}
<p class="ss-empty">Nothing published yet.</p>
{{- else}}
<ul class="ss-items">
{{- range .Items}}
<li class="ss-item"><a class="ss-item-link" href="{{.URL}}">{{.Title}}</a>{{if .HasExcerpt}}<div class="ss-item-excerpt">{{.Excerpt}}</div>{{end}}{{if .ShowDate}}<time class="ss-item-date" datetime="{{.DateISO}}">{{.Date}}</time>{{end}}</li>
{{- end}}
</ul>
{{- end}}
</div>
`))
