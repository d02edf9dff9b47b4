// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package handlers

import (
	_ "embed"
	"fmt"
	"net/http"

	"storyslip/internal/cache"
)

//go:embed assets/widget.js
var widgetScript []byte

// scriptETag versions the embedded bootstrap. Bump it when widget.js
// changes so long-cached copies revalidate to the new asset.
const scriptETag = `"widget-script-v1.0.0"`

// Script serves GET /widgets/script.js, the static bootstrap every
// javascript embed loads. It is the same bytes for every widget, so it
// gets a long Cache-Control lifetime and a fixed versioned ETag,
// independent of the per-widget render caching.
func (h *Widgets) Script(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", scriptETag)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cache.ScriptTTL.Seconds())))

	if etagMatches(r.Header.Get("If-None-Match"), scriptETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(widgetScript)
}
