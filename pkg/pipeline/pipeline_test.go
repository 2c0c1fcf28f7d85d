package pipeline

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/geom"
	"github.com/matzehuels/tessera/pkg/grid"
	"github.com/matzehuels/tessera/pkg/transform"
)

// memCache is an in-memory cache for runner tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"html", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "html"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateFill(t *testing.T) {
	for _, fill := range []string{"blue", "#ff0000", "rgb(1, 2, 3)", ""} {
		if err := ValidateFill(fill); err != nil {
			t.Errorf("ValidateFill(%q) = %v", fill, err)
		}
	}
	for _, fill := range []string{`red" onload="x`, "<script>", "a&b"} {
		if err := ValidateFill(fill); err == nil {
			t.Errorf("ValidateFill(%q) should fail", fill)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %gx%g", opts.Width, opts.Height)
	}
	if opts.Rows != DefaultRows || opts.Cols != DefaultCols {
		t.Errorf("grid = %dx%d", opts.Rows, opts.Cols)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d", opts.Seed)
	}
	if opts.Mode != DefaultMode || opts.Preset != DefaultPreset {
		t.Errorf("mode %q preset %q", opts.Mode, opts.Preset)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if opts.TargetIndex() != grid.NoTarget {
		t.Errorf("TargetIndex() = %d", opts.TargetIndex())
	}
}

func TestOptionsZeroSelectsDefault(t *testing.T) {
	opts := Options{Width: 0, Height: 0, Rows: 0, Cols: 0, Seed: 0}
	opts.SetDefaults()
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight || opts.Rows != DefaultRows || opts.Cols != DefaultCols {
		t.Errorf("zero canvas fields = %gx%g %dx%d, want defaults", opts.Width, opts.Height, opts.Rows, opts.Cols)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed 0 = %d, want %d", opts.Seed, DefaultSeed)
	}

	a := Options{Seed: 0, Formats: []string{FormatSVG}}
	b := Options{Seed: DefaultSeed, Formats: []string{FormatSVG}}
	if err := a.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if err := b.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	ha, _ := a.Hash()
	hb, _ := b.Hash()
	if ha != hb {
		t.Error("seed 0 and the default seed should render identically")
	}
}

func TestOptionsInferMode(t *testing.T) {
	rotate := []transform.Transform{transform.New(transform.Rotate, 45)}
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"nothing", Options{}, grid.ModePlain},
		{"transforms", Options{Transforms: rotate}, grid.ModeUniform},
		{"candidates", Options{Candidates: rotate}, grid.ModeRandom},
		{"both", Options{Transforms: rotate, Candidates: rotate}, grid.ModeRandom},
		{"explicit", Options{Mode: grid.ModePlain, Transforms: rotate}, grid.ModePlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.SetDefaults()
			if tt.opts.Mode != tt.want {
				t.Errorf("Mode = %q, want %q", tt.opts.Mode, tt.want)
			}
		})
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative rows", Options{Rows: -1}, errors.ErrCodeInvalidCanvas},
		{"negative width", Options{Width: -5}, errors.ErrCodeInvalidCanvas},
		{"unknown mode", Options{Mode: "spiral"}, errors.ErrCodeInvalidMode},
		{"unknown format", Options{Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
		{"unknown preset", Options{Preset: "circle"}, errors.ErrCodeInvalidShape},
		{"bad fill", Options{Fill: `"><script>`}, errors.ErrCodeInvalidShape},
		{"bad base fill", Options{Base: geom.Group{{Points: []geom.Point{{X: 0, Y: 0}}, Fill: "<"}}}, errors.ErrCodeInvalidShape},
		{"bad transform", Options{Transforms: []transform.Transform{{Kind: "skew", Value: 1}}}, errors.ErrCodeInvalidTransform},
		{"bad candidate", Options{Candidates: []transform.Transform{{Kind: "shear", Value: 1}}}, errors.ErrCodeInvalidTransform},
		{"NaN width", Options{Width: math.NaN()}, errors.ErrCodeInvalidCanvas},
		{"infinite height", Options{Height: math.Inf(1)}, errors.ErrCodeInvalidCanvas},
		{"cell count overflows", Options{Rows: math.MaxInt / 2, Cols: 3}, errors.ErrCodeInvalidCanvas},
		{"NaN size", Options{Size: math.NaN()}, errors.ErrCodeInvalidShape},
		{"infinite stroke width", Options{Stroke: "black", StrokeWidth: math.Inf(1)}, errors.ErrCodeInvalidInput},
		{"NaN rotation", Options{Transforms: []transform.Transform{{Kind: transform.Rotate, Value: math.NaN()}}}, errors.ErrCodeInvalidTransform},
		{"infinite candidate", Options{Candidates: []transform.Transform{{Kind: transform.Scale, Value: math.Inf(-1)}}}, errors.ErrCodeInvalidTransform},
		{"NaN base point", Options{Base: geom.Group{{Points: []geom.Point{{X: math.NaN(), Y: 0}}, Fill: "red"}}}, errors.ErrCodeInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestOptionsHash(t *testing.T) {
	a := Options{Preset: "star", Seed: 7, Formats: []string{"svg"}}
	b := Options{Preset: "star", Seed: 7, Formats: []string{"html", "json"}, Refresh: true}
	c := Options{Preset: "star", Seed: 8}

	ha, err := a.Hash()
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := b.Hash()
	hc, _ := c.Hash()

	if ha != hb {
		t.Error("formats and refresh should not change the hash")
	}
	if ha == hc {
		t.Error("different seeds should produce different hashes")
	}
}

func TestComposeDeterministic(t *testing.T) {
	opts := Options{
		Mode:       grid.ModeRandom,
		Preset:     "vera",
		Candidates: []transform.Transform{transform.New(transform.Rotate, 30), transform.New(transform.Scale, 0.5)},
		Palette:    true,
		Shimmer:    true,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	_, first, err := Compose(opts, opts.NewRand())
	if err != nil {
		t.Fatal(err)
	}
	_, second, _ := Compose(opts, opts.NewRand())

	a, _ := MarshalCells(grid.Canvas{}, first)
	b, _ := MarshalCells(grid.Canvas{}, second)
	if !bytes.Equal(a, b) {
		t.Error("same seed should compose identical cells")
	}
}

func TestComposePalette(t *testing.T) {
	opts := Options{Preset: "vera", Palette: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, cells, err := Compose(opts, opts.NewRand())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range c.Base {
		if !strings.HasPrefix(s.Fill, "#") || len(s.Fill) != 7 {
			t.Errorf("palette fill = %q, want #rrggbb", s.Fill)
		}
	}
	if len(cells) != DefaultRows*DefaultCols {
		t.Errorf("cells = %d", len(cells))
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Width:   300,
		Height:  200,
		Rows:    1,
		Cols:    2,
		Preset:  "triangle",
		Formats: []string{FormatSVG, FormatHTML, FormatJSON},
		Title:   "Triangles",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	svgDoc := string(res.Artifacts[FormatSVG])
	if !strings.HasPrefix(svgDoc, `<svg width="300" height="200" xmlns="http://www.w3.org/2000/svg">`) {
		t.Errorf("svg header: %q", svgDoc)
	}
	if n := strings.Count(svgDoc, "<polygon"); n != 2 {
		t.Errorf("polygons = %d, want 2", n)
	}

	page := string(res.Artifacts[FormatHTML])
	if !strings.Contains(page, svgDoc) || !strings.Contains(page, "<title>Triangles</title>") {
		t.Error("html should embed the svg and title")
	}

	doc, err := UnmarshalCells(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("UnmarshalCells: %v", err)
	}
	if doc.Rows != 1 || doc.Cols != 2 || len(doc.Cells) != 2 {
		t.Errorf("json doc = %+v", doc)
	}
	if doc.Cells[1].Pivot != (geom.Point{X: 200, Y: 100}) {
		t.Errorf("second pivot = %v", doc.Cells[1].Pivot)
	}

	if res.Stats.CellCount != 2 || res.Stats.ShapeCount != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	opts := Options{Preset: "hexagon", Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit")
	}
	if second.Stats.CellCount != first.Stats.CellCount || second.Stats.ShapeCount != first.Stats.ShapeCount {
		t.Errorf("cached stats = %+v, want counts of %+v", second.Stats, first.Stats)
	}
	if second.Cells != nil {
		t.Error("cache hit should not compose")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, _ := r.Execute(ctx, opts)
	if third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerRandomizedNotCached(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, nil, nil)
	res, err := r.Execute(context.Background(), Options{Randomize: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Hash != "" {
		t.Error("randomized runs should not be hashed")
	}
	if c.sets != 0 {
		t.Errorf("randomized runs should not be cached, got %d sets", c.sets)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Cols: -2})
	if !errors.IsInvalid(err) {
		t.Errorf("expected invalid-input error, got %v", err)
	}
}
