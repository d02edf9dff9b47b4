package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"storyslip/internal/renderer"
)

func testBundle() *renderer.Bundle {
	return &renderer.Bundle{
		HTML: `<div class="ss-widget">hello</div>`,
		CSS:  `.ss-widget{color:#333}`,
		Meta: renderer.Metadata{
			Title:  "Test Widget",
			OGTags: []renderer.MetaTag{{Property: "og:title", Content: "Test Widget"}},
		},
	}
}

func TestRenderKeyDeterministic(t *testing.T) {
	id := uuid.MustParse("4a88fbc1-df10-4a52-a1f0-9e3c55a16f3d")

	a := RenderKey(id, "json", 2, "hello world", "dark")
	b := RenderKey(id, "json", 2, "hello world", "dark")
	if a != b {
		t.Error("same parameters should derive the same key")
	}

	// Every parameter participates in the key.
	variants := []string{
		RenderKey(id, "html", 2, "hello world", "dark"),
		RenderKey(id, "json", 3, "hello world", "dark"),
		RenderKey(id, "json", 2, "other", "dark"),
		RenderKey(id, "json", 2, "hello world", "light"),
		RenderKey(uuid.New(), "json", 2, "hello world", "dark"),
	}
	for i, v := range variants {
		if v == a {
			t.Errorf("variant %d should produce a distinct key", i)
		}
	}
}

func TestRenderKeyPrefixedByWidget(t *testing.T) {
	id := uuid.New()
	key := RenderKey(id, "json", 1, "", "")
	wantPrefix := "widget:" + id.String() + ":"
	if len(key) < len(wantPrefix) || key[:len(wantPrefix)] != wantPrefix {
		t.Errorf("key %q should start with %q", key, wantPrefix)
	}
}

func TestWidgetCacheRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	wc := NewWidgetCache(store, time.Minute)

	ctx := context.Background()
	id := uuid.New()
	key := RenderKey(id, "json", 1, "", "")

	if _, ok := wc.GetBundle(ctx, key); ok {
		t.Error("expected miss before set")
	}

	wc.SetBundle(ctx, key, testBundle())

	got, ok := wc.GetBundle(ctx, key)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if got.HTML != testBundle().HTML {
		t.Errorf("html: got %q", got.HTML)
	}
	if got.Meta.Title != "Test Widget" {
		t.Errorf("meta title: got %q", got.Meta.Title)
	}
}

func TestWidgetCacheInvalidateWidget(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	wc := NewWidgetCache(store, time.Minute)

	ctx := context.Background()
	victim := uuid.New()
	bystander := uuid.New()

	wc.SetBundle(ctx, RenderKey(victim, "json", 1, "", ""), testBundle())
	wc.SetBundle(ctx, RenderKey(victim, "html", 1, "", "dark"), testBundle())
	wc.SetBundle(ctx, RenderKey(bystander, "json", 1, "", ""), testBundle())

	removed := wc.InvalidateWidget(ctx, victim)
	if removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}

	if _, ok := wc.GetBundle(ctx, RenderKey(victim, "json", 1, "", "")); ok {
		t.Error("victim entries should be gone")
	}
	if _, ok := wc.GetBundle(ctx, RenderKey(bystander, "json", 1, "", "")); !ok {
		t.Error("bystander entries should survive")
	}
}

func TestWidgetCacheCorruptEntryIsAMiss(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()
	wc := NewWidgetCache(store, time.Minute)

	ctx := context.Background()
	store.Set(ctx, "widget:corrupt", []byte("{not json"), time.Minute)

	if _, ok := wc.GetBundle(ctx, "widget:corrupt"); ok {
		t.Error("undecodable entry should read as a miss")
	}
}

func TestNewWidgetCacheDefaultTTL(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()

	wc := NewWidgetCache(store, 0)
	if wc.ttl != DefaultRenderTTL {
		t.Errorf("expected DefaultRenderTTL (%v), got %v", DefaultRenderTTL, wc.ttl)
	}
}
