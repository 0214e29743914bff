package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/cache"
	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/fix"
	"github.com/sciviz/figlint/pkg/render"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
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

// Execute runs the complete audit → fix → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, fig *scene.Figure, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		FigureHash: cache.FigureHash(fig),
		Artifacts:  make(map[string][]byte),
	}

	// Stage 1: Audit
	auditStart := time.Now()
	report, reportHit, err := r.AuditWithCacheInfo(ctx, fig, opts)
	if err != nil {
		return nil, err
	}
	result.Report = report
	result.Stats.AuditTime = time.Since(auditStart)
	result.Stats.PanelCount = len(fig.Panels)
	result.Stats.IssueCount = len(report.Issues)
	result.CacheInfo.ReportHit = reportHit

	errs, warns, infos := report.Counts()
	r.Logger.Info("audited figure",
		"journal", opts.Journal,
		"errors", errs,
		"warnings", warns,
		"infos", infos,
		"duration", result.Stats.AuditTime)

	// Stage 2: Fix
	if opts.ApplyFixes {
		fixStart := time.Now()
		fixed, applied, fixHit, err := r.FixWithCacheInfo(ctx, fig, report, opts)
		if err != nil {
			return nil, err
		}
		result.Fixed = fixed
		result.Applied = applied
		result.Stats.FixTime = time.Since(fixStart)
		result.Stats.AppliedCount = len(applied)
		result.CacheInfo.FixHit = fixHit

		r.Logger.Info("applied fixes",
			"applied", len(applied),
			"duration", result.Stats.FixTime)
	}

	// Stage 3: Render
	renderStart := time.Now()
	renderFig := fig
	if result.Fixed != nil {
		renderFig = result.Fixed
	}
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, renderFig, report, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AuditWithCacheInfo audits a figure with caching and returns cache hit info.
func (r *Runner) AuditWithCacheInfo(ctx context.Context, fig *scene.Figure, opts Options) (audit.Report, bool, error) {
	if err := opts.ValidateForAudit(); err != nil {
		return audit.Report{}, false, err
	}
	r.applyLogger(&opts)

	std, err := standards.Lookup(opts.Journal)
	if err != nil {
		return audit.Report{}, false, err
	}

	cacheKey := r.Keyer.ReportKey(cache.FigureHash(fig), opts.ReportKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached audit.Report
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil // Cache hit
			}
		}
	}

	engine, err := audit.NewEngine(opts.AuditConfig(), audit.WithLogger(opts.Logger))
	if err != nil {
		return audit.Report{}, false, err
	}
	report, err := engine.Audit(fig, std)
	if err != nil {
		return audit.Report{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(report); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLReport)
	}

	return report, false, nil // Cache miss
}

// Audit is a convenience wrapper that calls AuditWithCacheInfo and discards the cache hit info.
func (r *Runner) Audit(ctx context.Context, fig *scene.Figure, opts Options) (audit.Report, error) {
	report, _, err := r.AuditWithCacheInfo(ctx, fig, opts)
	return report, err
}

// fixPayload is the cached form of a fix stage result.
type fixPayload struct {
	Figure  *scene.Figure `json:"figure"`
	Applied []audit.Issue `json:"applied"`
}

// FixWithCacheInfo applies the report's fixable issues with caching and
// returns cache hit info. The input figure is never mutated.
func (r *Runner) FixWithCacheInfo(ctx context.Context, fig *scene.Figure, report audit.Report, opts Options) (*scene.Figure, []audit.Issue, bool, error) {
	if err := opts.ValidateForAudit(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	std, err := standards.Lookup(opts.Journal)
	if err != nil {
		return nil, nil, false, err
	}

	cacheKey := r.Keyer.FixKey(cache.FigureHash(fig), opts.FixKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached fixPayload
			if err := json.Unmarshal(data, &cached); err == nil && cached.Figure != nil {
				return cached.Figure, cached.Applied, true, nil // Cache hit
			}
		}
	}

	work := report
	work.Issues = opts.FixableIssues(report)
	fixed, applied, err := fix.ApplyAll(fig, work, std)
	if err != nil {
		return nil, nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(fixPayload{Figure: fixed, Applied: applied}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLFigure)
	}

	return fixed, applied, false, nil // Cache miss
}

// Fix is a convenience wrapper that calls FixWithCacheInfo and discards the cache hit info.
func (r *Runner) Fix(ctx context.Context, fig *scene.Figure, report audit.Report, opts Options) (*scene.Figure, []audit.Issue, error) {
	fixed, applied, _, err := r.FixWithCacheInfo(ctx, fig, report, opts)
	return fixed, applied, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, fig *scene.Figure, report audit.Report, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from report content and the rendered figure,
	// so fixed and unfixed renderings of the same report never collide.
	reportData, err := json.Marshal(report)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize report for cache key")
	}
	reportHash := cache.Hash(append(reportData, cache.FigureHash(fig)...))

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := renderArtifacts(fig, report, opts.Formats, reportData)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(reportHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, fig *scene.Figure, report audit.Report, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, fig, report, opts)
	return artifacts, err
}

// renderArtifacts produces one artifact per requested format. The DOT
// source is computed once and shared by the graphical formats.
func renderArtifacts(fig *scene.Figure, report audit.Report, formats []string, reportJSON []byte) (map[string][]byte, error) {
	out := make(map[string][]byte, len(formats))
	dot := ""

	for _, format := range formats {
		if format != FormatJSON && dot == "" {
			dot = render.ToDOT(fig, report)
		}

		switch format {
		case FormatJSON:
			out[format] = reportJSON
		case FormatDOT:
			out[format] = []byte(dot)
		case FormatSVG:
			svg, err := render.RenderSVG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
			}
			out[format] = svg
		case FormatPNG:
			png, err := render.RenderPNG(dot)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
			}
			out[format] = png
		}
	}
	return out, nil
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
