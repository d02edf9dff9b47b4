package cache

import (
	"regexp"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"storyslip/internal/renderer"
)

// textContent parses HTML and returns its whitespace-normalized text,
// so optimized and original fragments can be compared for semantic
// equality.
func textContent(t *testing.T, html string) string {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func TestOptimizeHTMLLossless(t *testing.T) {
	in := &renderer.Bundle{
		HTML: `<div class="test">  <p>Hello World</p>  </div>`,
	}

	out, applied := Optimize(in)

	if len(out.HTML) > len(in.HTML) {
		t.Errorf("optimized HTML grew: %d > %d", len(out.HTML), len(in.HTML))
	}
	if got, want := textContent(t, out.HTML), textContent(t, in.HTML); got != want {
		t.Errorf("text content changed: got %q, want %q", got, want)
	}
	if len(applied) == 0 {
		t.Error("expected at least one optimization to be reported")
	}
}

func TestOptimizeStripsComments(t *testing.T) {
	in := &renderer.Bundle{
		HTML: `<div><!-- internal note --><p>Visible</p></div>`,
		CSS:  `/* palette */ .a { color: red; }`,
	}

	out, applied := Optimize(in)

	if strings.Contains(out.HTML, "internal note") {
		t.Error("HTML comment should be stripped")
	}
	if strings.Contains(out.CSS, "palette") {
		t.Error("CSS comment should be stripped")
	}
	if textContent(t, out.HTML) != "Visible" {
		t.Errorf("text content: got %q, want Visible", textContent(t, out.HTML))
	}

	joined := strings.Join(applied, ",")
	for _, want := range []string{"html-comments", "css-comments"} {
		if !strings.Contains(joined, want) {
			t.Errorf("applied %v should include %q", applied, want)
		}
	}
}

func TestOptimizeCSSWhitespace(t *testing.T) {
	in := &renderer.Bundle{
		CSS: ".a { color : red ; background : blue }\n\n.b { margin : 0 }",
	}

	out, _ := Optimize(in)

	if len(out.CSS) >= len(in.CSS) {
		t.Errorf("CSS should shrink: %d >= %d", len(out.CSS), len(in.CSS))
	}
	// Declarations survive, just compacted.
	for _, want := range []string{"color:red", "background:blue", "margin:0"} {
		if !strings.Contains(out.CSS, want) {
			t.Errorf("optimized CSS missing %q: %q", want, out.CSS)
		}
	}
}

func TestOptimizeNoChangesReportsNothing(t *testing.T) {
	in := &renderer.Bundle{
		HTML: `<p>tight</p>`,
		CSS:  `.a{color:red}`,
	}

	out, applied := Optimize(in)

	if out.HTML != in.HTML || out.CSS != in.CSS {
		t.Error("already-minimal bundle should pass through unchanged")
	}
	if len(applied) != 0 {
		t.Errorf("no optimizations should be reported, got %v", applied)
	}
}

// TestOptimizeRealRender runs the optimizer over an actual rendered
// fragment and checks links and attributes survive intact.
func TestOptimizeRealRender(t *testing.T) {
	in := &renderer.Bundle{
		HTML: "<div class=\"ss-widget\">\n<h2 class=\"ss-widget-title\">Stories</h2>\n<ul class=\"ss-items\">\n<li class=\"ss-item\"><a class=\"ss-item-link\" href=\"/first\">First</a></li>\n</ul>\n</div>\n",
	}

	out, _ := Optimize(in)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.HTML))
	if err != nil {
		t.Fatalf("parse optimized html: %v", err)
	}
	link := doc.Find("a.ss-item-link")
	if link.Length() != 1 {
		t.Fatalf("expected one item link, got %d", link.Length())
	}
	if href, _ := link.Attr("href"); href != "/first" {
		t.Errorf("href: got %q, want /first", href)
	}
	if ws := regexp.MustCompile(`>\s+<`).FindString(out.HTML); ws != "" {
		t.Errorf("inter-tag whitespace survived: %q", ws)
	}
}
