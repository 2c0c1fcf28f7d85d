package html

import (
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	svg := `<svg width="10" height="10" xmlns="http://www.w3.org/2000/svg">` + "\n</svg>"
	doc := Wrap(svg, "Vera Molnar - All Objects")

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Vera Molnar - All Objects</title>",
		svg,
		"</html>",
	}
	for _, want := range checks {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
	if strings.Index(doc, "<title>") > strings.Index(doc, svg) {
		t.Error("title should precede the drawing")
	}
}

func TestWrapVerbatim(t *testing.T) {
	// Percent signs and markup are embedded as-is.
	svg := `<rect width="100%" />`
	doc := Wrap(svg, "50% & more")
	if !strings.Contains(doc, svg) || !strings.Contains(doc, "<title>50% & more</title>") {
		t.Errorf("content altered:\n%s", doc)
	}
}
