package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tessera/pkg/cache"
	"github.com/matzehuels/tessera/pkg/grid"
	"github.com/matzehuels/tessera/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the HTTP server both use it.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Canvas: opts.canvas(nil),
	}

	if opts.Cacheable() {
		hash, err := opts.Hash()
		if err != nil {
			return nil, err
		}
		result.Hash = hash

		if !opts.Refresh {
			if artifacts, ok := r.cachedArtifacts(ctx, hash, opts.Formats); ok {
				result.Artifacts = artifacts
				result.CacheInfo.RenderHit = true
				result.Stats.CellCount = opts.Rows * opts.Cols
				if base, err := opts.BaseGroup(); err == nil {
					result.Stats.ShapeCount = result.Stats.CellCount * len(base)
				}
				opts.Logger.Debug("artifacts served from cache", "hash", hash[:12], "formats", opts.Formats)
				return result, nil
			}
		}
	}

	// Stage 1: Compose
	observability.Pipeline().OnComposeStart(ctx, opts.Mode, opts.Rows*opts.Cols)
	composeStart := time.Now()
	c, cells, err := Compose(opts, opts.NewRand())
	result.Stats.ComposeTime = time.Since(composeStart)
	observability.Pipeline().OnComposeComplete(ctx, opts.Mode, grid.ShapeCount(cells), result.Stats.ComposeTime, err)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Canvas = c
	result.Cells = cells
	result.Stats.CellCount = len(cells)
	result.Stats.ShapeCount = grid.ShapeCount(cells)

	opts.Logger.Info("composed grid",
		"mode", opts.Mode,
		"cells", result.Stats.CellCount,
		"shapes", result.Stats.ShapeCount,
		"duration", result.Stats.ComposeTime)

	// Stage 2: Render
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, err := Render(c, cells, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	if result.Hash != "" {
		for format, data := range artifacts {
			key := r.Keyer.ArtifactKey(result.Hash, format)
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				opts.Logger.Warn("cache write failed", "format", format, "err", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return result, nil
}

// cachedArtifacts returns every requested format from the cache, or false
// if any of them is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, hash string, formats []string) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, format))
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[format] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
