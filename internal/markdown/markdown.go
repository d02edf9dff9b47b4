// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into HTML using
// goldmark. Raw HTML embedded in the source is escaped, not passed
// through — widget output is injected into third-party pages and must
// never carry author-controlled script.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md is the configured goldmark instance, reused across calls.
// Conversion is deterministic: the same source always produces the
// same HTML, which the render cache and ETag computation rely on.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // Tables, strikethrough, autolinks, task lists
		extension.Typographer, // Smart quotes and dashes
	),
)

// ToHTML converts Markdown source into HTML with raw HTML escaped.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
