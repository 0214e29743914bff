// Package pipeline provides the core audit pipeline for figlint.
//
// This package implements the complete audit → fix → render pipeline
// that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Audit: Run every checker against the figure and a journal standard
//  2. Fix: Apply automated fixes for the report's fixable issues
//  3. Render: Generate output in various formats (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Journal: "nature",
//	    Formats: []string{"json"},
//	}
//	result, err := runner.Execute(ctx, fig, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := result.Report
//
// Run individual stages:
//
//	// Audit only
//	report, err := runner.Audit(ctx, fig, opts)
//
//	// Fix with an existing report
//	fixed, applied, err := runner.Fix(ctx, fig, report, opts)
//
//	// Render with an existing report
//	artifacts, err := runner.Render(ctx, fig, report, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/cache"
	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultJournal is the journal standard used when none is requested.
const DefaultJournal = standards.DefaultName

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the audit pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Audit options. Zero thresholds take the engine defaults.
	Journal        string  `json:"journal,omitempty"`
	OcclusionWarn  float64 `json:"occlusion_warn,omitempty"`
	OcclusionError float64 `json:"occlusion_error,omitempty"`
	SizeTolerance  float64 `json:"size_tolerance,omitempty"`
	ColorDistance  float64 `json:"color_distance,omitempty"`
	Refresh        bool    `json:"refresh,omitempty"`

	// Fix options
	ApplyFixes bool     `json:"apply_fixes,omitempty"`
	FixKinds   []string `json:"fix_kinds,omitempty"` // restrict fixes to these kinds; empty means all fixable

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Report is the audit report for the input figure.
	Report audit.Report

	// FigureHash is the content hash of the input figure.
	FigureHash string

	// Fixed is the repaired figure; nil unless fixes were requested
	// and at least one issue was fixable.
	Fixed *scene.Figure

	// Applied lists the issues whose fixes were applied.
	Applied []audit.Issue

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PanelCount   int
	IssueCount   int
	AppliedCount int
	AuditTime    time.Duration
	FixTime      time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReportHit bool // Whether the audit report came from cache
	FixHit    bool // Whether the fixed figure came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForAudit(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForAudit applies audit defaults and checks the thresholds.
func (o *Options) ValidateForAudit() error {
	if o.Journal == "" {
		o.Journal = DefaultJournal
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.AuditConfig().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// AuditConfig builds the engine configuration from the options,
// filling unset thresholds with the engine defaults.
func (o *Options) AuditConfig() audit.Config {
	cfg := audit.DefaultConfig()
	if o.OcclusionWarn > 0 {
		cfg.OcclusionWarn = o.OcclusionWarn
	}
	if o.OcclusionError > 0 {
		cfg.OcclusionError = o.OcclusionError
	}
	if o.SizeTolerance > 0 {
		cfg.SizeTolerance = o.SizeTolerance
	}
	if o.ColorDistance > 0 {
		cfg.ColorDistance = o.ColorDistance
	}
	return cfg
}

// ReportKeyOpts returns cache key options for the audit stage.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	cfg := o.AuditConfig()
	return cache.ReportKeyOpts{
		Journal:        o.Journal,
		OcclusionWarn:  cfg.OcclusionWarn,
		OcclusionError: cfg.OcclusionError,
		SizeTolerance:  cfg.SizeTolerance,
		ColorDistance:  cfg.ColorDistance,
	}
}

// FixKeyOpts returns cache key options for the fix stage.
func (o *Options) FixKeyOpts() cache.FixKeyOpts {
	return cache.FixKeyOpts{
		Journal: o.Journal,
		Kinds:   o.FixKinds,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Journal: o.Journal,
	}
}

// FixableIssues returns the report issues the fix stage would apply,
// honoring the FixKinds restriction.
func (o *Options) FixableIssues(report audit.Report) []audit.Issue {
	fixable := report.AutoFixable()
	if len(o.FixKinds) == 0 {
		return fixable
	}

	allowed := make(map[string]bool, len(o.FixKinds))
	for _, k := range o.FixKinds {
		allowed[k] = true
	}

	var out []audit.Issue
	for _, issue := range fixable {
		if allowed[string(issue.Kind)] {
			out = append(out, issue)
		}
	}
	return out
}
