// Copyright (c) 2026 StorySlip Inc. <engineering@storyslip.io>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// WidgetEvent is a single analytics event reported by an embedded
// widget (impression, click, search). Events are insert-only and
// recorded best-effort — they never block or fail the render path.
type WidgetEvent struct {
	ID         uuid.UUID `json:"id"`
	WidgetID   uuid.UUID `json:"widget_id"`
	EventType  string    `json:"event_type"`
	URL        string    `json:"url"`
	Referrer   string    `json:"referrer,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
