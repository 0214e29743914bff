package audit

import (
	"github.com/sciviz/figlint/pkg/errors"
	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds the tunable detection thresholds. The zero value is not
// usable; call DefaultConfig or set every field explicitly and run
// Validate before handing the config to an engine.
type Config struct {
	// OcclusionWarn is the overlay overlap fraction above which a
	// DataOcclusion warning is emitted.
	OcclusionWarn float64 `json:"occlusion_warn" toml:"occlusion_warn"`

	// OcclusionError is the overlap fraction above which the
	// occlusion escalates to an error.
	OcclusionError float64 `json:"occlusion_error" toml:"occlusion_error"`

	// SizeTolerance is the allowed relative deviation from the
	// nearest standard width.
	SizeTolerance float64 `json:"size_tolerance" toml:"size_tolerance"`

	// ColorDistance is the minimum Lab distance two data colors must
	// keep under simulated color vision deficiency.
	ColorDistance float64 `json:"color_distance" toml:"color_distance"`
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		OcclusionWarn:  0.05,
		OcclusionError: 0.20,
		SizeTolerance:  0.02,
		ColorDistance:  0.08,
	}
}

// Validate checks that every threshold is coherent.
func (c Config) Validate() error {
	if err := errors.ValidateFraction("occlusion_warn", c.OcclusionWarn); err != nil {
		return err
	}
	if err := errors.ValidateFraction("occlusion_error", c.OcclusionError); err != nil {
		return err
	}
	if c.OcclusionWarn > c.OcclusionError {
		return errors.New(errors.ErrCodeInvalidThreshold,
			"occlusion_warn %g exceeds occlusion_error %g", c.OcclusionWarn, c.OcclusionError)
	}
	if err := errors.ValidateFraction("size_tolerance", c.SizeTolerance); err != nil {
		return err
	}
	if c.ColorDistance <= 0 {
		return errors.New(errors.ErrCodeInvalidThreshold,
			"color_distance must be positive, got %g", c.ColorDistance)
	}
	return nil
}

// =============================================================================
// Checker
// =============================================================================

// Checker inspects one aspect of a figure and reports the defects it
// finds. Implementations must be stateless and must not mutate the
// figure; the engine runs them concurrently against the same snapshot.
//
// A returned error means the checker itself failed (as opposed to the
// figure having defects); the engine converts it into an
// internal_checker_error issue rather than aborting the audit.
type Checker interface {
	Name() string
	Check(fig *scene.Figure, std standards.Standard, cfg Config) ([]Issue, error)
}

// defaultCheckers returns the full checker set in registration order.
// Order does not affect output; the aggregator sort is authoritative.
func defaultCheckers() []Checker {
	return []Checker{
		legendChecker{},
		occlusionChecker{},
		fontChecker{},
		sizeChecker{},
		colorChecker{},
		labelChecker{},
	}
}
