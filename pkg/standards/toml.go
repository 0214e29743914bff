package standards

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sciviz/figlint/pkg/errors"
)

// standardsFile is the on-disk layout of a custom standards file:
//
//	[standards.lab_report]
//	name = "Lab Report"
//	width_single = 4.0
//	width_onehalf = 6.0
//	width_double = 8.0
//	max_height = 10.0
//	dpi_min = 150
//	font_min = 6.0
//	font_max = 16.0
type standardsFile struct {
	Standards map[string]Standard `toml:"standards"`
}

// LoadFile reads user-defined journal standards from a TOML file and
// merges them into the registry. Entries shadow builtin standards with
// the same key. Returns the number of standards loaded.
func LoadFile(path string) (int, error) {
	if err := errors.ValidateScenePath(path); err != nil {
		return 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidStandard, err, "read standards file %s", path)
	}

	var file standardsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidStandard, err, "parse standards file %s", path)
	}

	for key, s := range file.Standards {
		if err := validate(key, s); err != nil {
			return 0, err
		}
		if s.Name == "" {
			s.Name = key
		}
		Register(key, s)
	}
	return len(file.Standards), nil
}

// validate checks that a user-defined standard is internally coherent.
func validate(key string, s Standard) error {
	if s.WidthSingle <= 0 || s.WidthOneHalf <= 0 || s.WidthDouble <= 0 {
		return errors.New(errors.ErrCodeInvalidStandard, "standard %q: widths must be positive", key)
	}
	if s.WidthSingle > s.WidthDouble {
		return errors.New(errors.ErrCodeInvalidStandard, "standard %q: width_single exceeds width_double", key)
	}
	if s.MaxHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidStandard, "standard %q: max_height must be positive", key)
	}
	if s.DPIMin < 0 {
		return errors.New(errors.ErrCodeInvalidStandard, "standard %q: dpi_min cannot be negative", key)
	}
	if s.FontMin < 0 || (s.FontMax > 0 && s.FontMax < s.FontMin) {
		return errors.New(errors.ErrCodeInvalidStandard, "standard %q: invalid font range", key)
	}
	return nil
}
