package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/cache"
	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/scene"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// lowDPIFigure is a single-panel figure whose only fixable problem is
// its 72 dpi export resolution.
func lowDPIFigure() *scene.Figure {
	return &scene.Figure{
		Width: 3.5, Height: 3.0, DPI: 72,
		Panels: []scene.Panel{
			{
				BBox: scene.Rect{X: 0.2, Y: 0.3, W: 3.1, H: 2.4},
				Elements: []scene.Element{
					{
						ID:   "p0/e0",
						Kind: scene.KindDataSeries,
						BBox: scene.Rect{X: 0.4, Y: 0.5, W: 2.5, H: 1.8},
					},
				},
			},
		},
	}
}

func hasKind(report audit.Report, kind audit.Kind) bool {
	for _, issue := range report.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	if opts.Journal != DefaultJournal {
		t.Errorf("Journal = %q, want %q", opts.Journal, DefaultJournal)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default")
	}

	// Idempotent: a second call keeps the same values.
	journal := opts.Journal
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Journal != journal {
		t.Error("second validation changed options")
	}
}

func TestOptionsValidationFailures(t *testing.T) {
	bad := Options{Formats: []string{"gif"}}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v, want INVALID_FORMAT", err)
	}

	// Warn threshold above the error threshold is inconsistent.
	bad = Options{OcclusionWarn: 0.5}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidThreshold) {
		t.Errorf("threshold error = %v, want INVALID_THRESHOLD", err)
	}
}

func TestAuditConfigDefaults(t *testing.T) {
	def := audit.DefaultConfig()

	opts := Options{}
	if got := opts.AuditConfig(); got != def {
		t.Errorf("zero options should take defaults: %+v", got)
	}

	opts = Options{SizeTolerance: 0.05}
	cfg := opts.AuditConfig()
	if cfg.SizeTolerance != 0.05 {
		t.Errorf("SizeTolerance = %v, want 0.05", cfg.SizeTolerance)
	}
	if cfg.OcclusionWarn != def.OcclusionWarn {
		t.Error("unset thresholds should keep defaults")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"json", "dot", "svg", "png"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("gif"); err == nil {
		t.Error("gif should be rejected")
	}
}

func TestRunnerAudit(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	report, err := r.Audit(context.Background(), lowDPIFigure(), Options{Journal: "nature"})
	if err != nil {
		t.Fatal(err)
	}

	if !hasKind(report, audit.KindLowDPI) {
		t.Errorf("report should flag low dpi: %+v", report.Issues)
	}
	if report.Journal != "Nature" {
		t.Errorf("Journal = %q, want Nature", report.Journal)
	}
}

func TestRunnerAuditUnknownJournal(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	_, err := r.Audit(context.Background(), lowDPIFigure(), Options{Journal: "made-up-weekly"})
	if !errors.Is(err, errors.ErrCodeUnknownJournal) {
		t.Errorf("error = %v, want UNKNOWN_JOURNAL", err)
	}
}

func TestRunnerAuditCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()

	fig := lowDPIFigure()
	opts := Options{Journal: "nature"}

	first, hit, err := r.AuditWithCacheInfo(ctx, fig, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first audit should miss the cache")
	}

	second, hit, err := r.AuditWithCacheInfo(ctx, fig, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second audit should hit the cache")
	}
	if second.ID != first.ID {
		t.Error("cached report should be returned verbatim")
	}

	// Refresh bypasses the cached report.
	refreshed, hit, err := r.AuditWithCacheInfo(ctx, fig, Options{Journal: "nature", Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("refresh should bypass the cache")
	}
	if refreshed.ID == first.ID {
		t.Error("refresh should produce a new report")
	}

	// Different thresholds key a different cache slot.
	_, hit, err = r.AuditWithCacheInfo(ctx, fig, Options{Journal: "nature", SizeTolerance: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("changed thresholds should miss the cache")
	}
}

func TestRunnerFix(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	fig := lowDPIFigure()
	opts := Options{Journal: "nature"}

	report, err := r.Audit(ctx, fig, opts)
	if err != nil {
		t.Fatal(err)
	}

	fixed, applied, err := r.Fix(ctx, fig, report, opts)
	if err != nil {
		t.Fatal(err)
	}

	if fixed.DPI != 300 {
		t.Errorf("fixed DPI = %d, want 300", fixed.DPI)
	}
	if fig.DPI != 72 {
		t.Error("input figure must not be mutated")
	}
	if len(applied) == 0 || applied[0].Kind != audit.KindLowDPI {
		t.Errorf("applied = %+v, want the low dpi fix", applied)
	}

	after, err := r.Audit(ctx, fixed, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hasKind(after, audit.KindLowDPI) {
		t.Error("fixed figure should not be flagged for low dpi again")
	}
}

func TestRunnerFixKindsFilter(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	fig := lowDPIFigure()
	opts := Options{Journal: "nature", FixKinds: []string{string(audit.KindNonStandardSize)}}

	report, err := r.Audit(ctx, fig, opts)
	if err != nil {
		t.Fatal(err)
	}

	fixed, applied, err := r.Fix(ctx, fig, report, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 0 {
		t.Errorf("applied = %+v, want none with a non-matching kind filter", applied)
	}
	if fixed.DPI != 72 {
		t.Error("filtered fix run should leave the figure unchanged")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	fig := lowDPIFigure()
	result, err := r.Execute(ctx, fig, Options{
		Journal:    "nature",
		ApplyFixes: true,
		Formats:    []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Stats.PanelCount != 1 {
		t.Errorf("PanelCount = %d", result.Stats.PanelCount)
	}
	if result.Stats.IssueCount != len(result.Report.Issues) {
		t.Error("IssueCount should match the report")
	}
	if result.FigureHash == "" {
		t.Error("FigureHash should be set")
	}
	if result.Fixed == nil || result.Fixed.DPI != 300 {
		t.Errorf("Fixed = %+v, want a repaired figure", result.Fixed)
	}
	if result.Stats.AppliedCount != len(result.Applied) {
		t.Error("AppliedCount should match Applied")
	}

	// The JSON artifact is the report itself.
	var decoded audit.Report
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded.ID != result.Report.ID {
		t.Error("json artifact should encode the report")
	}

	if dot := string(result.Artifacts[FormatDOT]); !strings.Contains(dot, "digraph figure") {
		t.Errorf("dot artifact = %q", dot)
	}
}

func TestRunnerRenderCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()

	fig := lowDPIFigure()
	opts := Options{Journal: "nature", Formats: []string{FormatJSON, FormatDOT}}

	report, err := r.Audit(ctx, fig, opts)
	if err != nil {
		t.Fatal(err)
	}

	first, hit, err := r.RenderWithCacheInfo(ctx, fig, report, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, fig, report, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Error("second render should hit the cache")
	}
	if string(first[FormatDOT]) != string(second[FormatDOT]) {
		t.Error("cached artifact should match the rendered one")
	}
}
