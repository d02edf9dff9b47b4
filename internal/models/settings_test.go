package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseSettingsDefaults(t *testing.T) {
	s, err := ParseSettings(WidgetTypeContent, nil)
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	d := s.Display()
	if d.Theme != ThemeLight {
		t.Errorf("default theme: got %q, want %q", d.Theme, ThemeLight)
	}
	if d.Layout != LayoutList {
		t.Errorf("default layout: got %q, want %q", d.Layout, LayoutList)
	}
	if d.ItemsPerPage != DefaultItemsPerPage {
		t.Errorf("default items_per_page: got %d, want %d", d.ItemsPerPage, DefaultItemsPerPage)
	}
}

func TestParseSettingsVariants(t *testing.T) {
	tests := []struct {
		name    string
		typ     WidgetType
		raw     string
		wantErr string
	}{
		{
			name: "content list valid",
			typ:  WidgetTypeContent,
			raw:  `{"theme":"dark","layout":"grid","items_per_page":5}`,
		},
		{
			name: "category requires category",
			typ:  WidgetTypeCategory,
			raw:  `{"theme":"light"}`,
			wantErr: "category is required",
		},
		{
			name: "category valid",
			typ:  WidgetTypeCategory,
			raw:  `{"category":"news","layout":"cards"}`,
		},
		{
			name: "search valid with defaults",
			typ:  WidgetTypeSearch,
			raw:  `{}`,
		},
		{
			name:    "unknown theme rejected",
			typ:     WidgetTypeContent,
			raw:     `{"theme":"neon"}`,
			wantErr: "unknown theme",
		},
		{
			name:    "unknown layout rejected",
			typ:     WidgetTypeContent,
			raw:     `{"layout":"masonry"}`,
			wantErr: "unknown layout",
		},
		{
			name:    "items_per_page bounded",
			typ:     WidgetTypeContent,
			raw:     `{"items_per_page":500}`,
			wantErr: "items_per_page",
		},
		{
			name:    "unknown field rejected",
			typ:     WidgetTypeContent,
			raw:     `{"colour":"red"}`,
			wantErr: "unknown field",
		},
		{
			name:    "malformed json",
			typ:     WidgetTypeContent,
			raw:     `{not json`,
			wantErr: "parse",
		},
		{
			name:    "unknown widget type",
			typ:     WidgetType("carousel"),
			raw:     `{}`,
			wantErr: "unknown widget type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings(tt.typ, json.RawMessage(tt.raw))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseSettingsSearchPlaceholderDefault(t *testing.T) {
	s, err := ParseSettings(WidgetTypeSearch, json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	sb, ok := s.(SearchBoxSettings)
	if !ok {
		t.Fatalf("expected SearchBoxSettings, got %T", s)
	}
	if sb.Placeholder == "" {
		t.Error("expected default placeholder to be filled")
	}
}

func TestContentItemIsPublic(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name        string
		status      ContentStatus
		publishedAt *time.Time
		want        bool
	}{
		{"published in past", ContentStatusPublished, &past, true},
		{"published in future", ContentStatusPublished, &future, false},
		{"published without date", ContentStatusPublished, nil, false},
		{"draft", ContentStatusDraft, &past, false},
		{"scheduled", ContentStatusScheduled, &past, false},
		{"archived", ContentStatusArchived, &past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &ContentItem{Status: tt.status, PublishedAt: tt.publishedAt}
			if got := c.IsPublic(now); got != tt.want {
				t.Errorf("IsPublic: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAPIKeyHasScope(t *testing.T) {
	k := &APIKey{Scopes: []Scope{ScopeRead}}
	if !k.HasScope(ScopeRead) {
		t.Error("expected read scope")
	}
	if k.HasScope(ScopeWrite) {
		t.Error("did not expect write scope")
	}
}
