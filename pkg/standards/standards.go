// Package standards provides journal figure specifications.
//
// A [Standard] is an immutable configuration record describing the
// physical dimensions, resolution, and font ranges a publication venue
// requires. The package ships a builtin registry covering the major
// publishers, supports case-insensitive alias lookup ("nat" → Nature),
// and can merge user-defined standards from TOML files.
//
// The audit engine only ever reads Standards; it never mutates them.
package standards

import (
	"sort"
	"strings"
	"sync"

	"github.com/sciviz/figlint/pkg/errors"
)

// =============================================================================
// Standard - Journal Figure Specification
// =============================================================================

// Standard describes one journal's figure requirements.
// Dimensions are inches, font sizes are points.
type Standard struct {
	Name string `json:"name" toml:"name"`

	// Accepted widths
	WidthSingle  float64 `json:"width_single" toml:"width_single"`
	WidthOneHalf float64 `json:"width_onehalf" toml:"width_onehalf"`
	WidthDouble  float64 `json:"width_double" toml:"width_double"`
	MaxHeight    float64 `json:"max_height" toml:"max_height"`

	// Output
	DPIMin  int      `json:"dpi_min" toml:"dpi_min"`
	Formats []string `json:"formats,omitempty" toml:"formats"`

	// Font range (pt)
	FontMin float64 `json:"font_min" toml:"font_min"`
	FontMax float64 `json:"font_max" toml:"font_max"`

	// ColorCycle is the venue's recommended categorical palette, if any.
	ColorCycle []string `json:"color_cycle,omitempty" toml:"color_cycle"`

	Notes string `json:"notes,omitempty" toml:"notes"`
}

// Widths returns the three accepted column widths in ascending order.
func (s Standard) Widths() []float64 {
	return []float64{s.WidthSingle, s.WidthOneHalf, s.WidthDouble}
}

// NearestWidth returns the accepted width closest to w.
func (s Standard) NearestWidth(w float64) float64 {
	nearest := s.WidthSingle
	for _, cand := range s.Widths() {
		if abs(w-cand) < abs(w-nearest) {
			nearest = cand
		}
	}
	return nearest
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// =============================================================================
// Registry
// =============================================================================

var (
	registryMu sync.RWMutex
	registry   = map[string]Standard{}
)

// register adds a standard under its canonical key plus aliases.
func register(s Standard, aliases ...string) {
	key := canonicalKey(s.Name)
	registry[key] = s
	for _, alias := range aliases {
		registry[canonicalKey(alias)] = s
	}
}

// canonicalKey normalizes a journal name for lookup: lowercase with
// spaces and hyphens folded to underscores.
func canonicalKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// Lookup returns the standard registered under name or one of its
// aliases. Unknown names fail with UNKNOWN_JOURNAL listing the
// available standards.
func Lookup(name string) (Standard, error) {
	if err := errors.ValidateJournalName(name); err != nil {
		return Standard{}, err
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	if s, ok := registry[canonicalKey(name)]; ok {
		return s, nil
	}
	return Standard{}, errors.New(errors.ErrCodeUnknownJournal,
		"unknown journal %q (available: %s)", name, strings.Join(listLocked(), ", "))
}

// Register adds or replaces a standard under the given name.
// Intended for user-defined venues; builtin entries can be shadowed.
func Register(name string, s Standard) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[canonicalKey(name)] = s
}

// List returns the distinct display names of all registered standards,
// sorted alphabetically.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return listLocked()
}

func listLocked() []string {
	seen := map[string]bool{}
	var names []string
	for _, s := range registry {
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Builtin Standards
// =============================================================================

// DefaultName is the registry key of the balanced default standard.
const DefaultName = "default"

func init() {
	register(Standard{
		Name:        "Nature",
		WidthSingle: 3.5, WidthOneHalf: 5.5, WidthDouble: 7.0, MaxHeight: 9.0,
		DPIMin: 300, Formats: []string{"pdf", "eps", "tiff"},
		FontMin: 6, FontMax: 14,
		Notes: "Preferred fonts: Arial, Helvetica. Avoid serif fonts.",
	}, "nat")

	register(Standard{
		Name:        "Nature Communications",
		WidthSingle: 3.5, WidthOneHalf: 5.5, WidthDouble: 7.0, MaxHeight: 9.0,
		DPIMin: 300, Formats: []string{"pdf", "eps", "tiff"},
		FontMin: 6, FontMax: 14,
		Notes: "Same as Nature main journal.",
	}, "nat_comm", "ncomm")

	register(Standard{
		Name:        "Science",
		WidthSingle: 2.25, WidthOneHalf: 4.5, WidthDouble: 6.0, MaxHeight: 8.5,
		DPIMin: 300, Formats: []string{"pdf", "eps"},
		FontMin: 5, FontMax: 12,
		Notes: "Science uses narrower columns. Font sizes slightly smaller.",
	}, "sci")

	register(Standard{
		Name:        "Science Advances",
		WidthSingle: 3.5, WidthOneHalf: 5.5, WidthDouble: 7.0, MaxHeight: 8.5,
		DPIMin: 300, Formats: []string{"pdf", "eps"},
		FontMin: 6, FontMax: 14,
		Notes: "More flexible than Science main journal.",
	}, "sci_adv")

	register(Standard{
		Name:        "Cell",
		WidthSingle: 3.35, WidthOneHalf: 5.0, WidthDouble: 6.85, MaxHeight: 9.0,
		DPIMin: 300, Formats: []string{"pdf", "eps", "tiff"},
		FontMin: 6, FontMax: 12,
		Notes: "Cell prefers compact figures. Arial font strongly preferred.",
	})

	register(Standard{
		Name:        "ACS",
		WidthSingle: 3.25, WidthOneHalf: 5.0, WidthDouble: 7.0, MaxHeight: 9.5,
		DPIMin: 300, Formats: []string{"pdf", "eps", "tiff"},
		FontMin: 6, FontMax: 14,
		ColorCycle: []string{
			"#0072B2", "#D55E00", "#009E73", "#CC79A7",
			"#F0E442", "#56B4E9", "#E69F00", "#000000",
		},
		Notes: "ACS recommends colorblind-safe palettes.",
	}, "jacs", "acs_nano", "nano_letters")

	register(Standard{
		Name:        "RSC",
		WidthSingle: 3.25, WidthOneHalf: 5.0, WidthDouble: 6.75, MaxHeight: 9.0,
		DPIMin: 300, Formats: []string{"pdf", "eps", "tiff"},
		FontMin: 6, FontMax: 14,
		Notes: "RSC journals follow similar standards.",
	}, "chem_comm", "chemical_communications")

	register(Standard{
		Name:        "Elsevier",
		WidthSingle: 3.5, WidthOneHalf: 5.5, WidthDouble: 7.0, MaxHeight: 9.5,
		DPIMin: 300, Formats: []string{"pdf", "eps", "tiff", "jpg"},
		FontMin: 6, FontMax: 14,
		Notes: "Elsevier accepts a wide range of formats. Check specific journal.",
	})

	register(Standard{
		Name:        "Wiley",
		WidthSingle: 3.25, WidthOneHalf: 5.0, WidthDouble: 6.75, MaxHeight: 9.0,
		DPIMin: 300, Formats: []string{"pdf", "eps", "tiff"},
		FontMin: 6, FontMax: 14,
		Notes: "Check specific Wiley journal for variations.",
	}, "angew", "adv_mater")

	register(Standard{
		Name:        "IEEE",
		WidthSingle: 3.5, WidthOneHalf: 5.0, WidthDouble: 7.0, MaxHeight: 9.0,
		DPIMin: 300, Formats: []string{"pdf", "eps"},
		FontMin: 7, FontMax: 14,
		Notes: "IEEE traditionally uses serif fonts (Times).",
	})

	register(Standard{
		Name:        "Default",
		WidthSingle: 3.5, WidthOneHalf: 5.5, WidthDouble: 7.0, MaxHeight: 9.0,
		DPIMin: 300, Formats: []string{"pdf", "png", "svg"},
		FontMin: 6, FontMax: 14,
		Notes: "Balanced defaults suitable for most journals.",
	}, "standard")
}
