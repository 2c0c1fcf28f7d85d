package palette

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var hexColor = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestRandom(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
	colors := Random(r, 5)
	if len(colors) != 5 {
		t.Fatalf("len = %d, want 5", len(colors))
	}
	for i, c := range colors {
		if !hexColor.MatchString(c) {
			t.Errorf("color %d = %q, not a hex color", i, c)
		}
	}

	anchor, _ := colorful.Hex(colors[0])
	if _, _, v := anchor.Hsv(); v > 0.3+1e-2 {
		t.Errorf("anchor brightness = %v, want <= 0.3", v)
	}
}

func TestRandomDeterministic(t *testing.T) {
	a := Random(rand.New(rand.NewPCG(7, 7)), 4)
	b := Random(rand.New(rand.NewPCG(7, 7)), 4)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced %v and %v", a, b)
		}
	}
	if Random(rand.New(rand.NewPCG(1, 1)), 0) != nil {
		t.Error("Random(0) should be nil")
	}
}

func TestShimmered(t *testing.T) {
	in := []string{"#101010", "#336699", "blue"}
	out := Shimmered(in, rand.New(rand.NewPCG(3, 3)))
	if out[0] != in[0] {
		t.Errorf("anchor changed: %q", out[0])
	}
	if out[2] != "blue" {
		t.Errorf("named color changed: %q", out[2])
	}
	if !hexColor.MatchString(out[1]) {
		t.Errorf("accent = %q, not a hex color", out[1])
	}
	if in[1] != "#336699" {
		t.Error("Shimmered mutated its input")
	}
}
