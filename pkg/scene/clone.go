package scene

import (
	"github.com/tiendc/go-deepcopy"
)

// Clone returns a structurally independent deep copy of the figure.
//
// Fix application works on clones so that the caller-supplied Figure is
// never mutated and pre-fix and post-fix reports stay comparable.
func Clone(f *Figure) *Figure {
	if f == nil {
		return nil
	}
	var out Figure
	// Copy only fails on type mismatches, which cannot occur for
	// identical source and destination types.
	_ = deepcopy.Copy(&out, f)
	return &out
}
