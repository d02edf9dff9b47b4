// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

// optimize.go shrinks rendered bundles before they are cached. The
// optimizer is best-effort and semantics-preserving: it only collapses
// inter-tag whitespace and strips comments, never touching text
// content, so an optimized bundle renders identically to the original.
package cache

import (
	"regexp"
	"strings"

	"storyslip/internal/renderer"
)

var (
	htmlComments  = regexp.MustCompile(`<!--[^\[][\s\S]*?-->`)
	interTagSpace = regexp.MustCompile(`>\s+<`)
	cssComments   = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	cssExtraSpace = regexp.MustCompile(`\s*([{}:;,])\s*`)
	blankLines    = regexp.MustCompile(`\n{2,}`)
)

// Optimize returns a size-reduced copy of the bundle and the list of
// optimizations that actually changed something. The JS snippet is
// left alone apart from blank-line removal — anything smarter belongs
// in a real minifier, not here.
func Optimize(bundle *renderer.Bundle) (*renderer.Bundle, []string) {
	out := *bundle
	var applied []string

	if stripped := htmlComments.ReplaceAllString(out.HTML, ""); stripped != out.HTML {
		out.HTML = stripped
		applied = append(applied, "html-comments")
	}
	if collapsed := interTagSpace.ReplaceAllString(out.HTML, "><"); collapsed != out.HTML {
		out.HTML = collapsed
		applied = append(applied, "html-whitespace")
	}

	if stripped := cssComments.ReplaceAllString(out.CSS, ""); stripped != out.CSS {
		out.CSS = stripped
		applied = append(applied, "css-comments")
	}
	if collapsed := cssExtraSpace.ReplaceAllString(out.CSS, "$1"); collapsed != out.CSS {
		out.CSS = collapsed
		applied = append(applied, "css-whitespace")
	}
	if trimmed := strings.TrimSpace(out.CSS); trimmed != out.CSS {
		out.CSS = trimmed
	}

	if compacted := blankLines.ReplaceAllString(out.JS, "\n"); compacted != out.JS {
		out.JS = compacted
		applied = append(applied, "js-blank-lines")
	}

	return &out, applied
}
