// Package palette provides colorblind-safety primitives for the audit
// engine: the Wong (2011) safe palette, dichromacy simulation, and
// perceptual color distance.
//
// Simulation uses the Viénot/Brettel linear approximation: colors are
// converted to linear RGB, projected through the LMS cone space with
// the deficient cone response replaced by a linear combination of the
// remaining two, and converted back. Distances are Euclidean in CIE
// Lab, which is perceptually approximately uniform.
package palette

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/sciviz/figlint/pkg/errors"
)

// =============================================================================
// Wong 2011 Palette
// =============================================================================

// wong is the 8-color colorblind-safe palette from Wong, B. (2011),
// Nature Methods 8:441.
var wong = []string{
	"#0072B2", // blue
	"#D55E00", // vermillion
	"#009E73", // bluish green
	"#CC79A7", // reddish purple
	"#F0E442", // yellow
	"#56B4E9", // sky blue
	"#E69F00", // orange
	"#000000", // black
}

// Wong returns the first n colors of the Wong colorblind-safe palette.
// For n > 8 the palette cycles.
func Wong(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = wong[i%len(wong)]
	}
	return out
}

// =============================================================================
// Dichromacy Simulation
// =============================================================================

// Deficiency identifies a color vision deficiency type.
type Deficiency string

// Simulated deficiencies.
const (
	Protanopia   Deficiency = "protanopia"
	Deuteranopia Deficiency = "deuteranopia"
)

// Deficiencies lists the simulations applied by the audit engine.
var Deficiencies = []Deficiency{Deuteranopia, Protanopia}

// Linear RGB → LMS cone response (Hunt-Pointer-Estevez, D65 normalized)
// and its inverse, per the standard daltonization formulation.
var (
	rgb2lms = [3][3]float64{
		{17.8824, 43.5161, 4.11935},
		{3.45565, 27.1554, 3.86714},
		{0.0299566, 0.184309, 1.46709},
	}
	lms2rgb = [3][3]float64{
		{0.0809444479, -0.130504409, 0.116721066},
		{-0.0102485335, 0.0540193266, -0.113614708},
		{-0.000365296938, -0.00412161469, 0.693511405},
	}
)

// Simulate projects a color through the given deficiency transform.
func Simulate(c colorful.Color, d Deficiency) colorful.Color {
	r, g, b := c.LinearRgb()

	l := rgb2lms[0][0]*r + rgb2lms[0][1]*g + rgb2lms[0][2]*b
	m := rgb2lms[1][0]*r + rgb2lms[1][1]*g + rgb2lms[1][2]*b
	s := rgb2lms[2][0]*r + rgb2lms[2][1]*g + rgb2lms[2][2]*b

	switch d {
	case Protanopia:
		// Missing L cones: reconstruct L from M and S.
		l = 2.02344*m - 2.52581*s
	case Deuteranopia:
		// Missing M cones: reconstruct M from L and S.
		m = 0.494207*l + 1.24827*s
	}

	r = lms2rgb[0][0]*l + lms2rgb[0][1]*m + lms2rgb[0][2]*s
	g = lms2rgb[1][0]*l + lms2rgb[1][1]*m + lms2rgb[1][2]*s
	b = lms2rgb[2][0]*l + lms2rgb[2][1]*m + lms2rgb[2][2]*s

	return colorful.LinearRgb(clamp01(r), clamp01(g), clamp01(b))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// =============================================================================
// Distance
// =============================================================================

// Parse converts a hex color string ("#1f77b4") into a color value.
// Fails with INVALID_INPUT for malformed strings.
func Parse(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse color %q", hex)
	}
	return c, nil
}

// Distance returns the Euclidean distance between two colors in CIE
// Lab space. Values range roughly over [0, 1.5]; a just-noticeable
// difference is about 0.02.
func Distance(a, b colorful.Color) float64 {
	return a.DistanceLab(b)
}

// SimulatedDistance returns the Lab distance between the projections
// of two hex colors under the given deficiency.
func SimulatedDistance(hexA, hexB string, d Deficiency) (float64, error) {
	a, err := Parse(hexA)
	if err != nil {
		return 0, err
	}
	b, err := Parse(hexB)
	if err != nil {
		return 0, err
	}
	return Distance(Simulate(a, d), Simulate(b, d)), nil
}

// MinSimulatedDistance returns the smallest projected distance between
// two hex colors across all simulated deficiencies, together with the
// deficiency that produced it. This is the value audits compare
// against the colorblind-distance threshold.
func MinSimulatedDistance(hexA, hexB string) (float64, Deficiency, error) {
	min := -1.0
	var worst Deficiency
	for _, d := range Deficiencies {
		dist, err := SimulatedDistance(hexA, hexB, d)
		if err != nil {
			return 0, "", err
		}
		if min < 0 || dist < min {
			min = dist
			worst = d
		}
	}
	return min, worst, nil
}
