package audit

import (
	"fmt"
	"math"

	"github.com/sciviz/figlint/pkg/scene"
	"github.com/sciviz/figlint/pkg/standards"
)

// =============================================================================
// Size Checker
// =============================================================================

// sizeChecker compares figure dimensions and export settings against
// the journal standard: width against the column grid, height against
// the page limit, and raster DPI against the print minimum.
type sizeChecker struct{}

func (sizeChecker) Name() string { return "size" }

func (sizeChecker) Check(fig *scene.Figure, std standards.Standard, cfg Config) ([]Issue, error) {
	var issues []Issue

	if issue := checkWidth(fig.Width, std, cfg); issue != nil {
		issues = append(issues, *issue)
	}

	// Panels are measured too: a panel sized for eventual standalone
	// use should also land on a column width.
	for pi := range fig.Panels {
		if issue := checkWidth(fig.Panels[pi].BBox.W, std, cfg); issue != nil {
			issue.Panels = []int{pi}
			issue.Message = fmt.Sprintf("panel %d %s", pi, issue.Message)
			// Rescaling a single panel would disturb the others, so
			// panel-level size issues stay manual.
			issue.AutoFixable = false
			issues = append(issues, *issue)
		}
	}

	if std.MaxHeight > 0 && fig.Height > std.MaxHeight {
		issues = append(issues, Issue{
			Kind:     KindOversizedFigure,
			Severity: SeverityError,
			Message: fmt.Sprintf("figure height %.2f in exceeds the %.2f in page limit for %s",
				fig.Height, std.MaxHeight, std.Name),
			Suggestion:  fmt.Sprintf("reduce the height to %.2f in or split the figure", std.MaxHeight),
			AutoFixable: true,
		})
	}

	// DPI of zero means the scene did not report export settings;
	// only a declared value below the minimum is a defect.
	if std.DPIMin > 0 && fig.DPI > 0 && fig.DPI < std.DPIMin {
		issues = append(issues, Issue{
			Kind:     KindLowDPI,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("export resolution %d dpi is below the %d dpi minimum for %s",
				fig.DPI, std.DPIMin, std.Name),
			Suggestion:  fmt.Sprintf("export at %d dpi or higher", std.DPIMin),
			AutoFixable: true,
		})
	}

	return issues, nil
}

// checkWidth flags widths that match no standard column within the
// relative tolerance.
func checkWidth(width float64, std standards.Standard, cfg Config) *Issue {
	if width <= 0 || len(std.Widths()) == 0 {
		return nil
	}

	nearest := std.NearestWidth(width)
	if nearest <= 0 {
		return nil
	}
	deviation := math.Abs(width-nearest) / nearest
	if deviation <= cfg.SizeTolerance {
		return nil
	}

	return &Issue{
		Kind:     KindNonStandardSize,
		Severity: SeverityInfo,
		Message: fmt.Sprintf("width %.2f in matches no %s column width; nearest is %.2f in",
			width, std.Name, nearest),
		Suggestion:  fmt.Sprintf("resize the figure to %.2f in wide", nearest),
		AutoFixable: true,
	}
}
