package audit

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sciviz/figlint/pkg/observability"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Engine
// =============================================================================

// Engine runs the checker set over figure snapshots. An engine is
// immutable after construction and safe for concurrent use.
type Engine struct {
	cfg      Config
	checkers []Checker
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCheckers replaces the default checker set.
func WithCheckers(checkers ...Checker) Option {
	return func(e *Engine) { e.checkers = checkers }
}

// WithLogger attaches a structured logger for per-checker debug output.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine with the given thresholds. Fails with
// INVALID_THRESHOLD if the config is incoherent.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, checkers: defaultCheckers()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Audit validates the scene and runs every checker against it, one
// goroutine per checker. Checkers are independent; the aggregation sort
// applied after all of them complete defines the report order, so the
// scheduling order never shows in the output.
//
// A failing or panicking checker is reported as an
// internal_checker_error issue; the remaining checkers still run.
func (e *Engine) Audit(fig *scene.Figure, std standards.Standard) (Report, error) {
	if err := scene.Validate(fig); err != nil {
		return Report{}, err
	}

	hooks := observability.Audit()
	hooks.OnAuditStart(len(fig.Panels), std.Name)

	results := make([][]Issue, len(e.checkers))
	var wg sync.WaitGroup
	for idx, c := range e.checkers {
		wg.Add(1)
		go func(idx int, c Checker) {
			defer wg.Done()
			results[idx] = e.runChecker(c, fig, std)
		}(idx, c)
	}
	wg.Wait()

	issues := Aggregate(results...)
	report := NewReport(std.Name, issues)

	errs, warnings, infos := report.Counts()
	hooks.OnAuditDone(report.ID, errs, warnings, infos)
	if e.logger != nil {
		e.logger.Debug("audit complete",
			"report", report.ID, "errors", errs, "warnings", warnings, "infos", infos)
	}
	return report, nil
}

// runChecker executes one checker, converting failures and panics into
// issues instead of letting them abort the audit.
func (e *Engine) runChecker(c Checker, fig *scene.Figure, std standards.Standard) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Error("checker panicked", "checker", c.Name(), "panic", r)
			}
			issues = []Issue{internalIssue(c.Name(), fmt.Errorf("panic: %v", r))}
		}
	}()

	observability.Audit().OnCheckerStart(c.Name())
	issues, err := c.Check(fig, std, e.cfg)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("checker failed", "checker", c.Name(), "error", err)
		}
		return []Issue{internalIssue(c.Name(), err)}
	}
	observability.Audit().OnCheckerDone(c.Name(), len(issues))
	return issues
}

// internalIssue wraps a checker failure so the rest of the report still
// reaches the caller.
func internalIssue(checker string, err error) Issue {
	return Issue{
		Kind:     KindInternalCheckerError,
		Severity: SeverityError,
		Elements: []string{checker},
		Message:  fmt.Sprintf("checker %q failed: %v", checker, err),
	}
}

// =============================================================================
// Aggregation
// =============================================================================

// Aggregate merges checker outputs into the final issue sequence:
// duplicate issues (same kind and reference sets, possibly emitted by
// different checkers) collapse into one, keeping the most severe
// occurrence, and the report ordering contract is applied.
func Aggregate(results ...[]Issue) []Issue {
	byKey := map[string]int{}
	var merged []Issue

	for _, issues := range results {
		for _, issue := range issues {
			issue.normalize()
			key := issue.Key()
			if at, ok := byKey[key]; ok {
				if issue.Severity.Rank() > merged[at].Severity.Rank() {
					merged[at] = issue
				}
				continue
			}
			byKey[key] = len(merged)
			merged = append(merged, issue)
		}
	}

	sortIssues(merged)
	return merged
}
